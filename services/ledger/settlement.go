package ledgerService

import (
	"betcore/models"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Transition moves a transaction through the state machine. When the target
// is COMPLETED the monetary effect is applied to the owner's balance in the
// same atomic unit as the status change; concurrent attempts settle exactly
// once, the losers getting ErrAlreadySettled.
func (l *Ledger) Transition(txID uint, target models.TransactionStatus, actor Actor, reason string) (*models.Transaction, error) {
	var probe models.Transaction
	if err := l.db.First(&probe, txID).Error; err != nil {
		return nil, ErrTransactionNotFound
	}

	var (
		result   *models.Transaction
		owner    models.User
		opErr    error // reported to the caller even when the unit commits
		notified bool
	)
	err := l.locks.withLock(probe.UserID, func() error {
		return l.db.Transaction(func(tx *gorm.DB) error {
			// Re-read inside the critical section; the probe may be stale.
			var txn models.Transaction
			if err := tx.First(&txn, txID).Error; err != nil {
				return ErrTransactionNotFound
			}

			if txn.Status.IsTerminal() {
				result = &txn
				return ErrAlreadySettled
			}
			if !CanTransition(txn.Status, target) {
				return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, txn.Status, target)
			}
			if err := authorize(&txn, target, actor); err != nil {
				return err
			}

			var user models.User
			if err := tx.Where("id = ? AND is_deleted = false", txn.UserID).First(&user).Error; err != nil {
				// Owner is gone: park the transaction for manual review
				// rather than losing the event. The FAILED mark must
				// commit, so the error is reported outside the unit.
				meta := txn.Meta()
				meta.Notes = "settlement failed: owning user not found, flagged for manual review"
				txn.SetMeta(meta)
				recordTransition(&txn, txn.Status, models.TransactionStatusFailed, SystemActor, "user not found")
				if err := tx.Save(&txn).Error; err != nil {
					return fmt.Errorf("fail transaction: %w", err)
				}
				result = &txn
				opErr = ErrUserNotFound
				return nil
			}

			from := txn.Status

			if target == models.TransactionStatusCompleted {
				applied, err := l.applyEffect(tx, &txn, &user, actor)
				if err != nil {
					return err
				}
				if !applied {
					// BET without funds: FAILED was recorded and must
					// commit; no balance change happened.
					result = &txn
					opErr = ErrInsufficientFunds
					return nil
				}
			}

			if (target == models.TransactionStatusCancelled || target == models.TransactionStatusFailed) &&
				txn.Type == models.TransactionTypeWithdrawal {
				if err := l.releaseReservation(tx, &txn, &user, actor); err != nil {
					return err
				}
			}

			recordTransition(&txn, from, target, actor, reason)
			if err := tx.Save(&txn).Error; err != nil {
				return fmt.Errorf("persist transition: %w", err)
			}

			if target == models.TransactionStatusCompleted && txn.Type == models.TransactionTypeDeposit {
				if err := l.grantFirstDepositBonus(tx, &txn, &user); err != nil {
					return err
				}
			}

			result = &txn
			owner = user
			notified = target == models.TransactionStatusCompleted
			return nil
		})
	})

	if target.IsTerminal() {
		// Once a terminal transition was attempted the fast-path timer must
		// not fire a blind second attempt; its callback re-checks status
		// anyway, cancelling here just avoids pointless wakeups.
		l.approvals.Cancel(txID)
	}

	if err != nil {
		return result, err
	}
	if opErr != nil {
		return result, opErr
	}
	if notified {
		l.notifySettled(*result, owner)
	}
	return result, nil
}

// applyEffect maps a completing transaction onto the balance. It returns
// applied=false when a BET would overdraw: the transaction is marked FAILED
// in place and no money moves. WITHDRAWAL moved its money at reservation
// time so completion is audit-only.
func (l *Ledger) applyEffect(tx *gorm.DB, txn *models.Transaction, user *models.User, actor Actor) (bool, error) {
	before := user.Balance

	switch txn.Type {
	case models.TransactionTypeDeposit, models.TransactionTypeWin, models.TransactionTypeBonus:
		user.Balance += txn.Amount

	case models.TransactionTypeBet:
		if user.Balance < txn.Amount {
			recordTransition(txn, txn.Status, models.TransactionStatusFailed, actor, "insufficient funds")
			if err := tx.Save(txn).Error; err != nil {
				return false, fmt.Errorf("fail bet: %w", err)
			}
			return false, nil
		}
		user.Balance -= txn.Amount

	case models.TransactionTypeWithdrawal:
		// Reserved at creation; nothing more to move.
		return true, nil

	default:
		return false, fmt.Errorf("%w: unknown transaction type %q", ErrInvalidInput, txn.Type)
	}

	if err := tx.Model(user).Update("balance", user.Balance).Error; err != nil {
		return false, fmt.Errorf("apply balance effect: %w", err)
	}

	meta := txn.Meta()
	meta.Settlement = &models.BalanceAudit{
		BalanceBefore: before,
		BalanceAfter:  user.Balance,
		Actor:         actor.String(),
		At:            time.Now(),
	}
	txn.SetMeta(meta)
	return true, nil
}

// releaseReservation refunds the reservation debit of a withdrawal that is
// being cancelled or failed.
func (l *Ledger) releaseReservation(tx *gorm.DB, txn *models.Transaction, user *models.User, actor Actor) error {
	before := user.Balance
	user.Balance += txn.Amount
	if err := tx.Model(user).Update("balance", user.Balance).Error; err != nil {
		return fmt.Errorf("release reservation: %w", err)
	}

	meta := txn.Meta()
	meta.Settlement = &models.BalanceAudit{
		BalanceBefore: before,
		BalanceAfter:  user.Balance,
		Actor:         actor.String(),
		At:            time.Now(),
	}
	txn.SetMeta(meta)
	return nil
}

// grantFirstDepositBonus settles a one-time BONUS alongside the user's first
// completed deposit, atomically with it.
func (l *Ledger) grantFirstDepositBonus(tx *gorm.DB, deposit *models.Transaction, user *models.User) error {
	if user.HasReceivedFirstDepositBonus || l.limits.FirstDepositBonus <= 0 {
		return nil
	}

	now := time.Now()
	before := user.Balance
	user.Balance += l.limits.FirstDepositBonus

	bonus := &models.Transaction{
		UserID:        user.ID,
		Type:          models.TransactionTypeBonus,
		Amount:        l.limits.FirstDepositBonus,
		Status:        models.TransactionStatusCompleted,
		PaymentMethod: models.PaymentMethodSystem,
		CompletedAt:   &now,
	}
	bonus.SetMeta(models.TransactionMetadata{
		Source: "FIRST_DEPOSIT_BONUS",
		Notes:  fmt.Sprintf("granted with deposit %d", deposit.ID),
		StatusHistory: []models.StatusChange{{
			From:  models.TransactionStatusPending,
			To:    models.TransactionStatusCompleted,
			Actor: SystemActor.String(),
			At:    now,
		}},
		Settlement: &models.BalanceAudit{
			BalanceBefore: before,
			BalanceAfter:  user.Balance,
			Actor:         SystemActor.String(),
			At:            now,
		},
	})

	if err := tx.Create(bonus).Error; err != nil {
		return fmt.Errorf("create first-deposit bonus: %w", err)
	}
	if err := tx.Model(user).Updates(map[string]interface{}{
		"balance":                          user.Balance,
		"has_received_first_deposit_bonus": true,
	}).Error; err != nil {
		return fmt.Errorf("grant first-deposit bonus: %w", err)
	}
	user.HasReceivedFirstDepositBonus = true
	return nil
}
