package ledgerService

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"betcore/models"
)

func TestResolveConfirmationByExternalReference(t *testing.T) {
	l := newTestLedger(t)
	user := seedUser(t, l, 0)

	ref := "PIX_1700000000_1_deadbeef"
	txn, err := l.CreateTransaction(CreateParams{
		UserID:            user.ID,
		Type:              models.TransactionTypeDeposit,
		Amount:            10000,
		Method:            models.PaymentMethodPix,
		ExternalReference: &ref,
	})
	require.NoError(t, err)

	paidAt := time.Now()
	sig := ConfirmationSignal{
		ExternalReference: ref,
		GatewayID:         "gw-001",
		Provider:          "pixgate",
		EndToEndID:        "E123",
		PaidAmount:        10000,
		PaidAt:            &paidAt,
	}

	settled, err := l.ResolveConfirmation(sig)
	require.NoError(t, err)
	assert.Equal(t, txn.ID, settled.ID)
	assert.Equal(t, models.TransactionStatusCompleted, settled.Status)
	assert.Equal(t, int64(11000), balanceOf(t, l, user.ID))

	meta := settled.Meta()
	require.NotNil(t, meta.Gateway)
	assert.Equal(t, "gw-001", meta.Gateway.GatewayID)
	assert.Equal(t, "E123", meta.Gateway.EndToEndID)

	// Replaying the same confirmation settles nothing further
	again, err := l.ResolveConfirmation(sig)
	assert.ErrorIs(t, err, ErrAlreadySettled)
	require.NotNil(t, again)
	assert.Equal(t, txn.ID, again.ID)
	assert.Equal(t, int64(11000), balanceOf(t, l, user.ID))
}

func TestResolveConfirmationOldestPendingWins(t *testing.T) {
	l := newTestLedger(t)
	user := seedUser(t, l, 0)

	amounts := []int64{10000, 50000, 25000}
	ids := make([]uint, 0, len(amounts))
	for _, amount := range amounts {
		txn, err := l.CreateTransaction(CreateParams{
			UserID: user.ID,
			Type:   models.TransactionTypeDeposit,
			Amount: amount,
			Method: models.PaymentMethodPix,
		})
		require.NoError(t, err)
		ids = append(ids, txn.ID)
	}

	settled, err := l.ResolveConfirmation(ConfirmationSignal{
		UserID:     user.ID,
		GatewayID:  "gw-777",
		PaidAmount: 10000,
	})
	require.NoError(t, err)
	assert.Equal(t, ids[0], settled.ID, "oldest pending wins, regardless of amount")
	assert.Equal(t, models.TransactionStatusCompleted, settled.Status)

	// 10000 settled plus the first-deposit bonus; the larger pendings never
	// reach the balance
	assert.Equal(t, int64(11000), balanceOf(t, l, user.ID))

	for _, id := range ids[1:] {
		sibling := reload(t, l, id)
		assert.Equal(t, models.TransactionStatusCancelled, sibling.Status)
		history := sibling.Meta().StatusHistory
		require.NotEmpty(t, history)
		assert.Contains(t, history[len(history)-1].Reason, "superseded")
	}
}

func TestResolveConfirmationReplayByGatewayID(t *testing.T) {
	l := newTestLedger(t)
	user := seedUser(t, l, 0)

	_, err := l.CreateTransaction(CreateParams{
		UserID: user.ID,
		Type:   models.TransactionTypeDeposit,
		Amount: 10000,
		Method: models.PaymentMethodPix,
	})
	require.NoError(t, err)

	sig := ConfirmationSignal{UserID: user.ID, GatewayID: "gw-replay", PaidAmount: 10000}
	settled, err := l.ResolveConfirmation(sig)
	require.NoError(t, err)

	// A second identical signal must not settle anything new, even though a
	// fresh pending deposit exists by then
	_, err = l.CreateTransaction(CreateParams{
		UserID: user.ID,
		Type:   models.TransactionTypeDeposit,
		Amount: 30000,
		Method: models.PaymentMethodPix,
	})
	require.NoError(t, err)

	again, err := l.ResolveConfirmation(sig)
	assert.ErrorIs(t, err, ErrAlreadySettled)
	require.NotNil(t, again)
	assert.Equal(t, settled.ID, again.ID)
	assert.Equal(t, int64(11000), balanceOf(t, l, user.ID))
}

func TestResolveConfirmationNoMatch(t *testing.T) {
	l := newTestLedger(t)
	user := seedUser(t, l, 0)

	_, err := l.ResolveConfirmation(ConfirmationSignal{
		UserID:     user.ID,
		GatewayID:  "gw-none",
		PaidAmount: 10000,
	})
	assert.ErrorIs(t, err, ErrTransactionNotFound)

	_, err = l.ResolveConfirmation(ConfirmationSignal{GatewayID: "gw-none"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestResolveConfirmationSkipsCancelledReference(t *testing.T) {
	l := newTestLedger(t)
	user := seedUser(t, l, 0)

	ref := "PIX_1700000001_1_cafebabe"
	txn, err := l.CreateTransaction(CreateParams{
		UserID:            user.ID,
		Type:              models.TransactionTypeDeposit,
		Amount:            10000,
		Method:            models.PaymentMethodPix,
		ExternalReference: &ref,
	})
	require.NoError(t, err)

	owner := Actor{UserID: user.ID, Role: models.RoleUser}
	_, err = l.Transition(txn.ID, models.TransactionStatusCancelled, owner, "gave up")
	require.NoError(t, err)

	_, err = l.ResolveConfirmation(ConfirmationSignal{ExternalReference: ref, GatewayID: "gw-late"})
	assert.ErrorIs(t, err, ErrTransactionNotFound)
	assert.Equal(t, int64(0), balanceOf(t, l, user.ID))
}

func TestConcurrentConfirmationsSettleOnce(t *testing.T) {
	l := newTestLedger(t)
	user := seedUser(t, l, 0)

	ref := "PIX_1700000002_1_0badf00d"
	_, err := l.CreateTransaction(CreateParams{
		UserID:            user.ID,
		Type:              models.TransactionTypeDeposit,
		Amount:            10000,
		Method:            models.PaymentMethodPix,
		ExternalReference: &ref,
	})
	require.NoError(t, err)

	const attempts = 8
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			_, err := l.ResolveConfirmation(ConfirmationSignal{
				ExternalReference: ref,
				GatewayID:         "gw-race",
				PaidAmount:        10000,
			})
			results <- err
		}()
	}

	var ok int
	for i := 0; i < attempts; i++ {
		if err := <-results; err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, ErrAlreadySettled)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, int64(11000), balanceOf(t, l, user.ID))
}
