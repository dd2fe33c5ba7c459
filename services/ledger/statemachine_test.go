package ledgerService

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"betcore/models"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to models.TransactionStatus
		ok       bool
	}{
		{models.TransactionStatusPending, models.TransactionStatusProcessing, true},
		{models.TransactionStatusPending, models.TransactionStatusCompleted, true},
		{models.TransactionStatusPending, models.TransactionStatusCancelled, true},
		{models.TransactionStatusPending, models.TransactionStatusFailed, true},
		{models.TransactionStatusProcessing, models.TransactionStatusCompleted, true},
		{models.TransactionStatusProcessing, models.TransactionStatusFailed, true},
		{models.TransactionStatusProcessing, models.TransactionStatusCancelled, false},
		{models.TransactionStatusProcessing, models.TransactionStatusPending, false},
		{models.TransactionStatusCompleted, models.TransactionStatusFailed, false},
		{models.TransactionStatusCompleted, models.TransactionStatusPending, false},
		{models.TransactionStatusFailed, models.TransactionStatusCompleted, false},
		{models.TransactionStatusCancelled, models.TransactionStatusCompleted, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestTerminalStatusesAreImmutable(t *testing.T) {
	l := newTestLedger(t)
	user := seedUser(t, l, 0)

	settled := completedDeposit(t, l, user.ID, 10000)

	for _, target := range []models.TransactionStatus{
		models.TransactionStatusPending,
		models.TransactionStatusProcessing,
		models.TransactionStatusFailed,
		models.TransactionStatusCancelled,
	} {
		_, err := l.Transition(settled.ID, target, SystemActor, "should not happen")
		assert.ErrorIs(t, err, ErrAlreadySettled)
	}
	assert.Equal(t, int64(11000), balanceOf(t, l, user.ID))
}

func TestUserMayOnlyCancelOwnPending(t *testing.T) {
	l := newTestLedger(t)
	owner := seedUser(t, l, 100000)
	stranger := seedUser(t, l, 0)

	txn, err := l.CreateTransaction(CreateParams{
		UserID: owner.ID,
		Type:   models.TransactionTypeWithdrawal,
		Amount: 30000,
		Method: models.PaymentMethodPix,
	})
	require.NoError(t, err)

	// A stranger cannot touch it
	_, err = l.Transition(txn.ID, models.TransactionStatusCancelled,
		Actor{UserID: stranger.ID, Role: models.RoleUser}, "not mine")
	assert.ErrorIs(t, err, ErrForbidden)

	// The owner cannot complete their own transaction
	_, err = l.Transition(txn.ID, models.TransactionStatusCompleted,
		Actor{UserID: owner.ID, Role: models.RoleUser}, "pay me")
	assert.ErrorIs(t, err, ErrForbidden)

	// The owner can cancel while it is PENDING
	cancelled, err := l.Transition(txn.ID, models.TransactionStatusCancelled,
		Actor{UserID: owner.ID, Role: models.RoleUser}, "changed my mind")
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusCancelled, cancelled.Status)
}

func TestUserCannotCancelProcessing(t *testing.T) {
	l := newTestLedger(t)
	user := seedUser(t, l, 100000)

	txn, err := l.CreateTransaction(CreateParams{
		UserID: user.ID,
		Type:   models.TransactionTypeWithdrawal,
		Amount: 30000,
		Method: models.PaymentMethodPix,
	})
	require.NoError(t, err)

	admin := Actor{UserID: 99, Role: models.RoleAdmin}
	_, err = l.Transition(txn.ID, models.TransactionStatusProcessing, admin, "approved")
	require.NoError(t, err)

	_, err = l.Transition(txn.ID, models.TransactionStatusCancelled,
		Actor{UserID: user.ID, Role: models.RoleUser}, "too late")
	assert.Error(t, err)
	assert.Equal(t, models.TransactionStatusProcessing, reload(t, l, txn.ID).Status)
}
