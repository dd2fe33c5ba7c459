package ledgerService

import (
	"betcore/models"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ConfirmationSignal is an inbound payment confirmation from the gateway.
// ExternalReference is the preferred correlation; when the gateway only
// correlates by payer, UserID carries that correlation instead.
type ConfirmationSignal struct {
	ExternalReference string
	GatewayID         string
	Provider          string
	EndToEndID        string
	UserID            uint
	Method            models.PaymentMethod
	PaidAmount        int64
	PaidAt            *time.Time
}

// ResolveConfirmation settles exactly one PENDING deposit for an inbound
// confirmation. With an external reference it resolves to that transaction
// alone. Without one it picks the user's OLDEST matching PENDING deposit and
// cancels the other pendings of the same (user, type, method) in the same
// atomic unit, so the balance reflects one settlement, never a sum of
// pending amounts. Replaying an already-resolved signal is a no-op.
func (l *Ledger) ResolveConfirmation(sig ConfirmationSignal) (*models.Transaction, error) {
	if sig.Method == "" {
		sig.Method = models.PaymentMethodPix
	}

	if sig.ExternalReference != "" {
		var txn models.Transaction
		err := l.db.Where("external_reference = ?", sig.ExternalReference).First(&txn).Error
		if err == nil {
			if txn.Status == models.TransactionStatusCompleted {
				return &txn, ErrAlreadySettled
			}
			if txn.Status.IsTerminal() || txn.Type != models.TransactionTypeDeposit {
				return nil, ErrTransactionNotFound
			}
			return l.confirmDeposit(txn.ID, sig, false)
		}
		// No transaction carries that reference; fall through to the
		// user-correlated reconciliation below.
	}

	if sig.UserID == 0 {
		return nil, fmt.Errorf("%w: confirmation carries no usable correlation", ErrInvalidInput)
	}

	// Replay guard: a confirmation that already resolved recorded its
	// gateway identifier on the settled transaction.
	if sig.GatewayID != "" {
		var prior models.Transaction
		err := l.db.
			Where("user_id = ? AND type = ? AND status = ?",
				sig.UserID, models.TransactionTypeDeposit, models.TransactionStatusCompleted).
			Where(datatypes.JSONQuery("metadata").Equals(sig.GatewayID, "gateway", "gatewayId")).
			First(&prior).Error
		if err == nil {
			return &prior, ErrAlreadySettled
		}
	}

	var oldest models.Transaction
	err := l.db.
		Where("user_id = ? AND type = ? AND status = ? AND payment_method = ?",
			sig.UserID, models.TransactionTypeDeposit, models.TransactionStatusPending, sig.Method).
		Order("created_at ASC, id ASC").
		First(&oldest).Error
	if err != nil {
		return nil, ErrTransactionNotFound
	}

	return l.confirmDeposit(oldest.ID, sig, true)
}

// confirmDeposit settles one deposit and, when cancelSiblings is set,
// terminates the user's other pending deposits of the same method in the
// same transaction as the settlement.
func (l *Ledger) confirmDeposit(txID uint, sig ConfirmationSignal, cancelSiblings bool) (*models.Transaction, error) {
	var probe models.Transaction
	if err := l.db.First(&probe, txID).Error; err != nil {
		return nil, ErrTransactionNotFound
	}

	var (
		result *models.Transaction
		owner  models.User
	)
	err := l.locks.withLock(probe.UserID, func() error {
		return l.db.Transaction(func(tx *gorm.DB) error {
			var txn models.Transaction
			if err := tx.First(&txn, txID).Error; err != nil {
				return ErrTransactionNotFound
			}
			if txn.Status == models.TransactionStatusCompleted {
				result = &txn
				return ErrAlreadySettled
			}
			if txn.Status.IsTerminal() {
				return ErrTransactionNotFound
			}

			var user models.User
			if err := tx.Where("id = ? AND is_deleted = false", txn.UserID).First(&user).Error; err != nil {
				return ErrUserNotFound
			}

			meta := txn.Meta()
			meta.Gateway = &models.GatewayInfo{
				Provider:   sig.Provider,
				GatewayID:  sig.GatewayID,
				EndToEndID: sig.EndToEndID,
				PaidAmount: sig.PaidAmount,
				PaidAt:     sig.PaidAt,
			}
			txn.SetMeta(meta)

			from := txn.Status
			if _, err := l.applyEffect(tx, &txn, &user, SystemActor); err != nil {
				return err
			}
			recordTransition(&txn, from, models.TransactionStatusCompleted, SystemActor, "gateway confirmation")
			if err := tx.Save(&txn).Error; err != nil {
				return fmt.Errorf("persist confirmation: %w", err)
			}

			if cancelSiblings {
				if err := l.cancelSiblingPendings(tx, &txn, sig); err != nil {
					return err
				}
			}

			if err := l.grantFirstDepositBonus(tx, &txn, &user); err != nil {
				return err
			}

			result = &txn
			owner = user
			return nil
		})
	})
	if err != nil {
		return result, err
	}

	l.notifySettled(*result, owner)
	return result, nil
}

// cancelSiblingPendings terminates every other PENDING deposit of the same
// (user, method) so that precisely one pending amount reaches the balance.
func (l *Ledger) cancelSiblingPendings(tx *gorm.DB, settled *models.Transaction, sig ConfirmationSignal) error {
	var siblings []models.Transaction
	if err := tx.
		Where("user_id = ? AND type = ? AND status = ? AND payment_method = ? AND id <> ?",
			settled.UserID, models.TransactionTypeDeposit, models.TransactionStatusPending,
			settled.PaymentMethod, settled.ID).
		Find(&siblings).Error; err != nil {
		return fmt.Errorf("find sibling pendings: %w", err)
	}

	reason := fmt.Sprintf("superseded by confirmation of transaction %d", settled.ID)
	if sig.GatewayID != "" {
		reason = fmt.Sprintf("%s (gateway %s)", reason, sig.GatewayID)
	}
	for i := range siblings {
		recordTransition(&siblings[i], siblings[i].Status, models.TransactionStatusCancelled, SystemActor, reason)
		if err := tx.Save(&siblings[i]).Error; err != nil {
			return fmt.Errorf("cancel sibling pending: %w", err)
		}
	}
	return nil
}
