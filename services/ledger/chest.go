package ledgerService

import (
	"betcore/models"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ChestView is a chest row decorated with whether the user may open it now.
type ChestView struct {
	models.RewardChest
	CanOpen bool `json:"canOpen"`
}

// Chests returns the user's three chests, seeding them on first access.
func (l *Ledger) Chests(userID uint) ([]ChestView, error) {
	var user models.User
	if err := l.db.Where("id = ? AND is_deleted = false", userID).First(&user).Error; err != nil {
		return nil, ErrUserNotFound
	}

	if err := l.db.Transaction(func(tx *gorm.DB) error {
		return seedChests(tx, userID)
	}); err != nil {
		return nil, err
	}

	var chests []models.RewardChest
	if err := l.db.Where("user_id = ?", userID).Order("chest_number ASC").Find(&chests).Error; err != nil {
		return nil, fmt.Errorf("list chests: %w", err)
	}

	eligible, err := l.chestEligible(l.db, &user)
	if err != nil {
		return nil, err
	}

	views := make([]ChestView, 0, len(chests))
	for _, c := range chests {
		views = append(views, ChestView{RewardChest: c, CanOpen: eligible && !c.Opened})
	}
	return views, nil
}

// OpenChest opens one of the user's reward chests and settles its bonus.
// Eligibility requires at least one completed deposit and a balance at or
// above the configured threshold. Each chest opens exactly once; concurrent
// attempts on the same chest leave the losers with ErrAlreadyOpened.
func (l *Ledger) OpenChest(userID uint, chestNumber int) (*models.Transaction, error) {
	if _, ok := models.ChestAmounts[chestNumber]; !ok {
		return nil, fmt.Errorf("%w: chest number must be 1, 2 or 3", ErrInvalidInput)
	}

	var (
		bonus *models.Transaction
		owner models.User
	)
	err := l.locks.withLock(userID, func() error {
		return l.db.Transaction(func(tx *gorm.DB) error {
			var user models.User
			if err := tx.Where("id = ? AND is_deleted = false", userID).First(&user).Error; err != nil {
				return ErrUserNotFound
			}

			eligible, err := l.chestEligible(tx, &user)
			if err != nil {
				return err
			}
			if !eligible {
				if user.Balance < l.limits.ChestBalanceMin {
					return ErrBalanceTooLow
				}
				return ErrDepositRequired
			}

			if err := seedChests(tx, userID); err != nil {
				return err
			}

			var chest models.RewardChest
			if err := tx.Where("user_id = ? AND chest_number = ?", userID, chestNumber).First(&chest).Error; err != nil {
				return ErrChestNotFound
			}
			if chest.Opened {
				return ErrAlreadyOpened
			}

			now := time.Now()
			txn := &models.Transaction{
				UserID:        userID,
				Type:          models.TransactionTypeBonus,
				Amount:        chest.BonusAmount,
				Status:        models.TransactionStatusPending,
				PaymentMethod: models.PaymentMethodSystem,
			}
			txn.SetMeta(models.TransactionMetadata{
				Source:      "REWARD_CHEST",
				ChestNumber: chestNumber,
			})
			if err := tx.Create(txn).Error; err != nil {
				return fmt.Errorf("create chest bonus: %w", err)
			}

			if _, err := l.applyEffect(tx, txn, &user, SystemActor); err != nil {
				return err
			}
			recordTransition(txn, models.TransactionStatusPending, models.TransactionStatusCompleted,
				SystemActor, fmt.Sprintf("reward chest %d opened", chestNumber))
			if err := tx.Save(txn).Error; err != nil {
				return fmt.Errorf("settle chest bonus: %w", err)
			}

			chest.Opened = true
			chest.OpenedAt = &now
			chest.TransactionID = &txn.ID
			if err := tx.Save(&chest).Error; err != nil {
				return fmt.Errorf("mark chest opened: %w", err)
			}

			bonus = txn
			owner = user
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	l.notifySettled(*bonus, owner)
	return bonus, nil
}

// chestEligible reports whether the user passes both chest gates.
func (l *Ledger) chestEligible(tx *gorm.DB, user *models.User) (bool, error) {
	if user.Balance < l.limits.ChestBalanceMin {
		return false, nil
	}
	var deposits int64
	if err := tx.Model(&models.Transaction{}).
		Where("user_id = ? AND type = ? AND status = ?",
			user.ID, models.TransactionTypeDeposit, models.TransactionStatusCompleted).
		Count(&deposits).Error; err != nil {
		return false, fmt.Errorf("count completed deposits: %w", err)
	}
	return deposits > 0, nil
}

// seedChests lazily creates the user's three chest rows. The unique index on
// (user_id, chest_number) makes a concurrent seed a harmless no-op.
func seedChests(tx *gorm.DB, userID uint) error {
	var count int64
	if err := tx.Model(&models.RewardChest{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return fmt.Errorf("count chests: %w", err)
	}
	if count >= int64(len(models.ChestAmounts)) {
		return nil
	}
	for number, amount := range models.ChestAmounts {
		chest := models.RewardChest{UserID: userID, ChestNumber: number, BonusAmount: amount}
		if err := tx.Where("user_id = ? AND chest_number = ?", userID, number).
			FirstOrCreate(&chest).Error; err != nil {
			return fmt.Errorf("seed chest %d: %w", number, err)
		}
	}
	return nil
}
