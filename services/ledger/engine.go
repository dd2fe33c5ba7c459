package ledgerService

import (
	"betcore/config"
	"betcore/models"
	"fmt"

	"gorm.io/gorm"
)

// Actor identifies who is driving an operation against the ledger.
type Actor struct {
	UserID uint
	Role   models.UserRole
	System bool
}

// SystemActor is used by the gateway webhook, schedulers and internal jobs.
var SystemActor = Actor{System: true}

func (a Actor) String() string {
	if a.System {
		return "SYSTEM"
	}
	return fmt.Sprintf("%s:%d", a.Role, a.UserID)
}

func (a Actor) privileged() bool {
	return a.System || a.Role == models.RoleAdmin
}

// Limits are the ledger business knobs, in centavos where they are amounts.
type Limits struct {
	MinDepositAmount    int64
	FirstDepositBonus   int64
	MinWithdrawalAmount int64
	MaxWithdrawalAmount int64
	DailyWithdrawalCap  int64
	ChestBalanceMin     int64
}

func limitsFromConfig() Limits {
	if config.AppConfig == nil {
		return Limits{
			MinDepositAmount:    3500,
			FirstDepositBonus:   1000,
			MinWithdrawalAmount: 5000,
			MaxWithdrawalAmount: 500000,
			DailyWithdrawalCap:  1000000,
			ChestBalanceMin:     50000,
		}
	}
	return Limits{
		MinDepositAmount:    config.AppConfig.MinDepositAmount,
		FirstDepositBonus:   config.AppConfig.FirstDepositBonus,
		MinWithdrawalAmount: config.AppConfig.MinWithdrawalAmount,
		MaxWithdrawalAmount: config.AppConfig.MaxWithdrawalAmount,
		DailyWithdrawalCap:  config.AppConfig.DailyWithdrawalCap,
		ChestBalanceMin:     config.AppConfig.ChestBalanceMin,
	}
}

// Ledger is the settlement engine. All balance mutations in the system go
// through it; handlers never write the balance column themselves.
type Ledger struct {
	db        *gorm.DB
	locks     *userLocks
	approvals *approvalRegistry
	limits    Limits

	// AfterSettle, when set, is invoked in a goroutine after a settlement
	// commits. Failures inside it never affect the settlement.
	AfterSettle func(txn models.Transaction, user models.User)
}

// New builds a Ledger over an injected database handle.
func New(db *gorm.DB) *Ledger {
	return &Ledger{
		db:        db,
		locks:     newUserLocks(),
		approvals: newApprovalRegistry(),
		limits:    limitsFromConfig(),
	}
}

var engine *Ledger

// Init wires the package-level engine used by the HTTP controllers.
func Init(db *gorm.DB) *Ledger {
	engine = New(db)
	return engine
}

// Engine returns the package-level engine.
func Engine() *Ledger {
	return engine
}

// Limits exposes the engine's configured limits (read-only use).
func (l *Ledger) Limits() Limits {
	return l.limits
}

// GetBalance returns the user's current spendable balance in centavos.
func (l *Ledger) GetBalance(userID uint) (int64, error) {
	var user models.User
	if err := l.db.Where("id = ? AND is_deleted = false", userID).First(&user).Error; err != nil {
		return 0, ErrUserNotFound
	}
	return user.Balance, nil
}

func (l *Ledger) notifySettled(txn models.Transaction, user models.User) {
	if l.AfterSettle == nil {
		return
	}
	go l.AfterSettle(txn, user)
}
