package utils

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"betcore/config"
	"betcore/database"
	"betcore/models"
	ledgerService "betcore/services/ledger"
)

// StartPendingSweeper runs an hourly job that cancels PENDING gateway
// deposits older than the configured TTL. Each cancellation goes through the
// settlement engine so the audit trail and timer bookkeeping stay correct.
func StartPendingSweeper(ledger *ledgerService.Ledger) *cron.Cron {
	c := cron.New()
	_, err := c.AddFunc("@hourly", func() {
		SweepStalePendingDeposits(ledger)
	})
	if err != nil {
		log.Printf("[SWEEPER] Failed to schedule job: %v", err)
		return c
	}
	c.Start()
	return c
}

// SweepStalePendingDeposits cancels unconfirmed PIX deposits past their TTL.
func SweepStalePendingDeposits(ledger *ledgerService.Ledger) {
	ttl := time.Duration(config.AppConfig.PendingDepositTTL) * time.Hour
	cutoff := time.Now().Add(-ttl)

	var stale []models.Transaction
	err := database.Database.Db.
		Where("type = ? AND status = ? AND payment_method = ? AND created_at < ?",
			models.TransactionTypeDeposit, models.TransactionStatusPending,
			models.PaymentMethodPix, cutoff).
		Find(&stale).Error
	if err != nil {
		log.Printf("[SWEEPER] Query for stale deposits failed: %v", err)
		return
	}

	for _, txn := range stale {
		_, err := ledger.Transition(txn.ID, models.TransactionStatusCancelled,
			ledgerService.SystemActor, "unconfirmed past expiry window")
		if err != nil {
			log.Printf("[SWEEPER] Could not cancel transaction %d: %v", txn.ID, err)
		}
	}
	if len(stale) > 0 {
		log.Printf("[SWEEPER] Cancelled %d stale pending deposits", len(stale))
	}
}
