package ledgerService

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"betcore/models"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps every handle on the same in-memory database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Transaction{}, &models.RewardChest{}))
	return New(db)
}

var userSeq int

func seedUser(t *testing.T, l *Ledger, balance int64) *models.User {
	t.Helper()

	userSeq++
	user := &models.User{
		Username: fmt.Sprintf("player%d", userSeq),
		Email:    fmt.Sprintf("player%d@example.com", userSeq),
		Phone:    fmt.Sprintf("5511%08d", userSeq),
		CPF:      fmt.Sprintf("%011d", userSeq),
		Password: "hashed",
		Role:     models.RoleUser,
		Status:   models.UserStatusActive,
		Balance:  balance,
	}
	require.NoError(t, l.db.Create(user).Error)
	return user
}

func balanceOf(t *testing.T, l *Ledger, userID uint) int64 {
	t.Helper()
	balance, err := l.GetBalance(userID)
	require.NoError(t, err)
	return balance
}

func reload(t *testing.T, l *Ledger, txID uint) *models.Transaction {
	t.Helper()
	var txn models.Transaction
	require.NoError(t, l.db.First(&txn, txID).Error)
	return &txn
}

// completedDeposit runs a deposit through its full lifecycle so tests can
// start from a funded account with deposit history.
func completedDeposit(t *testing.T, l *Ledger, userID uint, amount int64) *models.Transaction {
	t.Helper()
	txn, err := l.CreateTransaction(CreateParams{
		UserID: userID,
		Type:   models.TransactionTypeDeposit,
		Amount: amount,
		Method: models.PaymentMethodPix,
	})
	require.NoError(t, err)
	settled, err := l.Transition(txn.ID, models.TransactionStatusCompleted, SystemActor, "confirmed")
	require.NoError(t, err)
	return settled
}
