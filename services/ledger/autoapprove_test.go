package ledgerService

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"betcore/models"
)

func processingWithdrawal(t *testing.T, l *Ledger, userID uint, amount int64) *models.Transaction {
	t.Helper()
	txn, err := l.CreateTransaction(CreateParams{
		UserID: userID,
		Type:   models.TransactionTypeWithdrawal,
		Amount: amount,
		Method: models.PaymentMethodPix,
	})
	require.NoError(t, err)
	admin := Actor{UserID: 99, Role: models.RoleAdmin}
	_, err = l.Transition(txn.ID, models.TransactionStatusProcessing, admin, "approved")
	require.NoError(t, err)
	return txn
}

func waitForStatus(t *testing.T, l *Ledger, txID uint, want models.TransactionStatus) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if reload(t, l, txID).Status == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("transaction %d never reached %s, still %s", txID, want, reload(t, l, txID).Status)
}

func TestAutoApprovalCompletesProcessingWithdrawal(t *testing.T) {
	l := newTestLedger(t)
	user := seedUser(t, l, 100000)

	txn := processingWithdrawal(t, l, user.ID, 30000)
	l.ScheduleAutoApproval(txn.ID, 30*time.Millisecond)

	waitForStatus(t, l, txn.ID, models.TransactionStatusCompleted)

	stored := reload(t, l, txn.ID)
	assert.True(t, stored.Meta().AutoApproved)
	assert.Equal(t, int64(70000), balanceOf(t, l, user.ID))
}

func TestManualDecisionBeatsAutoApproval(t *testing.T) {
	l := newTestLedger(t)
	user := seedUser(t, l, 100000)

	txn := processingWithdrawal(t, l, user.ID, 30000)
	l.ScheduleAutoApproval(txn.ID, 80*time.Millisecond)

	admin := Actor{UserID: 99, Role: models.RoleAdmin}
	failed, err := l.Transition(txn.ID, models.TransactionStatusFailed, admin, "payout bounced")
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusFailed, failed.Status)

	// Wait past the timer; the decision must hold and the refund must stay
	time.Sleep(200 * time.Millisecond)
	stored := reload(t, l, txn.ID)
	assert.Equal(t, models.TransactionStatusFailed, stored.Status)
	assert.False(t, stored.Meta().AutoApproved)
	assert.Equal(t, int64(100000), balanceOf(t, l, user.ID))
}

func TestCancelStopsScheduledApproval(t *testing.T) {
	l := newTestLedger(t)
	user := seedUser(t, l, 100000)

	txn := processingWithdrawal(t, l, user.ID, 30000)
	l.ScheduleAutoApproval(txn.ID, 50*time.Millisecond)
	l.approvals.Cancel(txn.ID)

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, models.TransactionStatusProcessing, reload(t, l, txn.ID).Status)
}
