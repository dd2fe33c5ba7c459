package ledgerService

import (
	"betcore/models"
	"time"
)

// legalTransitions holds the allowed edges of the transaction state machine.
// COMPLETED, FAILED and CANCELLED are terminal and have no outgoing edges.
var legalTransitions = map[models.TransactionStatus][]models.TransactionStatus{
	models.TransactionStatusPending: {
		models.TransactionStatusProcessing,
		models.TransactionStatusCompleted,
		models.TransactionStatusCancelled,
		models.TransactionStatusFailed,
	},
	models.TransactionStatusProcessing: {
		models.TransactionStatusCompleted,
		models.TransactionStatusFailed,
	},
}

// CanTransition reports whether from -> to is a legal edge.
func CanTransition(from, to models.TransactionStatus) bool {
	for _, next := range legalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// authorize enforces who may drive a transition. Admins and the system may
// drive any legal edge. A plain user may only cancel their own transaction
// while it is still PENDING.
func authorize(txn *models.Transaction, target models.TransactionStatus, actor Actor) error {
	if actor.privileged() {
		return nil
	}
	if actor.UserID != txn.UserID {
		return ErrForbidden
	}
	if target == models.TransactionStatusCancelled && txn.Status == models.TransactionStatusPending {
		return nil
	}
	return ErrForbidden
}

// recordTransition appends an audited status-history entry and stamps the
// terminal timestamps.
func recordTransition(txn *models.Transaction, from, to models.TransactionStatus, actor Actor, reason string) {
	now := time.Now()
	meta := txn.Meta()
	meta.StatusHistory = append(meta.StatusHistory, models.StatusChange{
		From:   from,
		To:     to,
		Actor:  actor.String(),
		Reason: reason,
		At:     now,
	})
	txn.SetMeta(meta)
	txn.Status = to

	switch to {
	case models.TransactionStatusCompleted:
		txn.CompletedAt = &now
	case models.TransactionStatusCancelled:
		txn.CancelledAt = &now
	}
}
