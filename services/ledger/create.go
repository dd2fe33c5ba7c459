package ledgerService

import (
	"betcore/models"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// CreateParams describes a transaction to be recorded.
type CreateParams struct {
	UserID            uint
	Type              models.TransactionType
	Amount            int64
	Method            models.PaymentMethod
	ExternalReference *string
	Meta              models.TransactionMetadata

	// InitialStatus may be PROCESSING for the privileged withdrawal
	// fast-path; it defaults to PENDING.
	InitialStatus models.TransactionStatus
}

// CreateTransaction records a new transaction. A WITHDRAWAL reserves the
// funds immediately: the user's balance is debited in the same atomic unit
// that persists the PENDING record, and only a later CANCELLED/FAILED
// transition reverses that debit.
func (l *Ledger) CreateTransaction(p CreateParams) (*models.Transaction, error) {
	if p.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if p.InitialStatus == "" {
		p.InitialStatus = models.TransactionStatusPending
	}
	if p.InitialStatus != models.TransactionStatusPending && p.InitialStatus != models.TransactionStatusProcessing {
		return nil, fmt.Errorf("%w: transactions start PENDING or PROCESSING", ErrInvalidInput)
	}

	if p.ExternalReference != nil {
		var existing models.Transaction
		if err := l.db.Where("external_reference = ?", *p.ExternalReference).First(&existing).Error; err == nil {
			return nil, ErrDuplicateReference
		}
	}

	txn := &models.Transaction{
		UserID:            p.UserID,
		Type:              p.Type,
		Amount:            p.Amount,
		Status:            p.InitialStatus,
		PaymentMethod:     p.Method,
		ExternalReference: p.ExternalReference,
	}
	txn.SetMeta(p.Meta)

	err := l.locks.withLock(p.UserID, func() error {
		return l.db.Transaction(func(tx *gorm.DB) error {
			var user models.User
			if err := tx.Where("id = ? AND is_deleted = false", p.UserID).First(&user).Error; err != nil {
				return ErrUserNotFound
			}

			if p.Type == models.TransactionTypeWithdrawal {
				if err := l.reserveWithdrawal(tx, &user, txn); err != nil {
					return err
				}
			}

			if err := tx.Create(txn).Error; err != nil {
				if p.ExternalReference != nil {
					// Unique index on external_reference lost the race
					return ErrDuplicateReference
				}
				return fmt.Errorf("create transaction: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// reserveWithdrawal debits the spendable balance at request time so reserved
// funds cannot be spent while the payout is pending.
func (l *Ledger) reserveWithdrawal(tx *gorm.DB, user *models.User, txn *models.Transaction) error {
	if user.Balance < txn.Amount {
		return ErrInsufficientFunds
	}

	startOfDay := time.Now().Truncate(24 * time.Hour)
	var dailyTotal int64
	if err := tx.Model(&models.Transaction{}).
		Where("user_id = ? AND type = ? AND created_at >= ? AND status NOT IN ?",
			user.ID, models.TransactionTypeWithdrawal, startOfDay,
			[]models.TransactionStatus{models.TransactionStatusCancelled, models.TransactionStatusFailed}).
		Select("COALESCE(SUM(amount), 0)").Scan(&dailyTotal).Error; err != nil {
		return fmt.Errorf("daily withdrawal total: %w", err)
	}
	if dailyTotal+txn.Amount > l.limits.DailyWithdrawalCap {
		return fmt.Errorf("%w: daily withdrawal cap exceeded", ErrForbidden)
	}

	before := user.Balance
	user.Balance -= txn.Amount
	if err := tx.Model(user).Update("balance", user.Balance).Error; err != nil {
		return fmt.Errorf("reserve withdrawal: %w", err)
	}

	meta := txn.Meta()
	meta.Settlement = &models.BalanceAudit{
		BalanceBefore: before,
		BalanceAfter:  user.Balance,
		Actor:         fmt.Sprintf("USER:%d", user.ID),
		At:            time.Now(),
	}
	txn.SetMeta(meta)
	return nil
}
