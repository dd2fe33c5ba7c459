package ledgerService

import (
	"errors"
	"log"
	"sync"
	"time"

	"betcore/models"
)

// approvalRegistry tracks the pending auto-approval timers so that a manual
// decision arriving first can cancel the scheduled one.
type approvalRegistry struct {
	mu     sync.Mutex
	timers map[uint]*time.Timer
}

func newApprovalRegistry() *approvalRegistry {
	return &approvalRegistry{timers: make(map[uint]*time.Timer)}
}

func (r *approvalRegistry) put(txID uint, t *time.Timer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.timers[txID]; ok {
		old.Stop()
	}
	r.timers[txID] = t
}

// Cancel stops a scheduled approval. Safe to call for transactions that were
// never scheduled or whose timer already fired.
func (r *approvalRegistry) Cancel(txID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.timers[txID]; ok {
		t.Stop()
		delete(r.timers, txID)
	}
}

// ScheduleAutoApproval completes a PROCESSING withdrawal after delay unless
// an operator resolved it first. The timer callback re-reads the current
// status before acting, so a decision taken in the window always wins.
func (l *Ledger) ScheduleAutoApproval(txID uint, delay time.Duration) {
	timer := time.AfterFunc(delay, func() {
		l.approvals.Cancel(txID)

		var txn models.Transaction
		if err := l.db.First(&txn, txID).Error; err != nil {
			return
		}
		if txn.Status != models.TransactionStatusProcessing {
			return
		}

		settled, err := l.Transition(txID, models.TransactionStatusCompleted, SystemActor, "automatic approval window elapsed")
		if err != nil {
			if errors.Is(err, ErrAlreadySettled) || errors.Is(err, ErrIllegalTransition) {
				return
			}
			log.Printf("[AUTO-APPROVE] Failed to settle transaction %d: %v", txID, err)
			return
		}

		meta := settled.Meta()
		meta.AutoApproved = true
		settled.SetMeta(meta)
		if err := l.db.Model(settled).Update("metadata", settled.Metadata).Error; err != nil {
			log.Printf("[AUTO-APPROVE] Failed to mark transaction %d auto approved: %v", txID, err)
		}
	})
	l.approvals.put(txID, timer)
}
