package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TransactionType defines the monetary event a transaction records
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal TransactionType = "WITHDRAWAL"
	TransactionTypeBet        TransactionType = "BET"
	TransactionTypeWin        TransactionType = "WIN"
	TransactionTypeBonus      TransactionType = "BONUS"
)

// TransactionStatus defines the status of a transaction
type TransactionStatus string

const (
	TransactionStatusPending    TransactionStatus = "PENDING"
	TransactionStatusProcessing TransactionStatus = "PROCESSING"
	TransactionStatusCompleted  TransactionStatus = "COMPLETED"
	TransactionStatusFailed     TransactionStatus = "FAILED"
	TransactionStatusCancelled  TransactionStatus = "CANCELLED"
)

// IsTerminal reports whether no further transitions are permitted
func (s TransactionStatus) IsTerminal() bool {
	return s == TransactionStatusCompleted || s == TransactionStatusFailed || s == TransactionStatusCancelled
}

// PaymentMethod defines how money moves in or out
type PaymentMethod string

const (
	PaymentMethodPix          PaymentMethod = "PIX"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCreditCard   PaymentMethod = "CREDIT_CARD"
	PaymentMethodSystem       PaymentMethod = "SYSTEM"
)

// StatusChange is one audited state-machine transition
type StatusChange struct {
	From   TransactionStatus `json:"from"`
	To     TransactionStatus `json:"to"`
	Actor  string            `json:"actor"`
	Reason string            `json:"reason,omitempty"`
	At     time.Time         `json:"at"`
}

// BalanceAudit records the balance mutation applied by a settlement
type BalanceAudit struct {
	BalanceBefore int64     `json:"balanceBefore"`
	BalanceAfter  int64     `json:"balanceAfter"`
	Actor         string    `json:"actor"`
	At            time.Time `json:"at"`
}

// GatewayInfo carries the payment-gateway side of a confirmation
type GatewayInfo struct {
	Provider   string     `json:"provider,omitempty"`
	GatewayID  string     `json:"gatewayId,omitempty"`
	EndToEndID string     `json:"endToEndId,omitempty"`
	PaidAmount int64      `json:"paidAmount,omitempty"`
	PaidAt     *time.Time `json:"paidAt,omitempty"`
}

// PixDetails is the user-supplied withdrawal destination, stored verbatim
type PixDetails struct {
	Key     string `json:"key"`
	KeyType string `json:"keyType"`
}

// TransactionMetadata is the typed audit payload attached to every transaction
type TransactionMetadata struct {
	Source        string         `json:"source,omitempty"`
	StatusHistory []StatusChange `json:"statusHistory,omitempty"`
	Settlement    *BalanceAudit  `json:"settlement,omitempty"`
	Gateway       *GatewayInfo   `json:"gateway,omitempty"`
	Pix           *PixDetails    `json:"pix,omitempty"`
	ChestNumber   int            `json:"chestNumber,omitempty"`
	AutoApproved  bool           `json:"autoApproved,omitempty"`
	Notes         string         `json:"notes,omitempty"`
}

// Transaction records a single monetary event against a user balance.
// Once COMPLETED, FAILED or CANCELLED its monetary effect is immutable.
type Transaction struct {
	gorm.Model
	UserID uint            `gorm:"not null;index:idx_tx_user_type" json:"userId"`
	Type   TransactionType `gorm:"type:varchar(20);not null;index:idx_tx_user_type" json:"type"`

	// Amount is in centavos and always positive; the sign of the balance
	// effect is derived from Type at settlement time.
	Amount int64 `gorm:"not null" json:"amount"`

	Status        TransactionStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	PaymentMethod PaymentMethod     `gorm:"type:varchar(20)" json:"paymentMethod"`

	// ExternalReference correlates to a gateway-side identifier. Sparse
	// unique: NULL rows are exempt from the constraint.
	ExternalReference *string `gorm:"uniqueIndex" json:"externalReference,omitempty"`

	Metadata datatypes.JSONType[TransactionMetadata] `json:"metadata"`

	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// Meta returns the decoded metadata payload
func (t *Transaction) Meta() TransactionMetadata {
	return t.Metadata.Data()
}

// SetMeta replaces the metadata payload
func (t *Transaction) SetMeta(m TransactionMetadata) {
	t.Metadata = datatypes.NewJSONType(m)
}
