package models

import (
	"time"

	"gorm.io/gorm"
)

// ChestAmounts maps chest number to its fixed bonus in centavos
var ChestAmounts = map[int]int64{
	1: 1000,
	2: 2000,
	3: 5000,
}

// RewardChest gates a one-time bonus credit. At most one record exists per
// (user, chestNumber) and it may be opened at most once.
type RewardChest struct {
	gorm.Model
	UserID      uint  `gorm:"not null;uniqueIndex:idx_chest_user_number" json:"userId"`
	ChestNumber int   `gorm:"not null;uniqueIndex:idx_chest_user_number" json:"chestNumber"`
	BonusAmount int64 `gorm:"not null" json:"bonusAmount"`

	Opened   bool       `gorm:"default:false" json:"opened"`
	OpenedAt *time.Time `json:"openedAt,omitempty"`

	// TransactionID links the BONUS transaction created when the chest opened
	TransactionID *uint `json:"transactionId,omitempty"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (RewardChest) TableName() string {
	return "reward_chests"
}

// ChestAmount returns the fixed bonus for a chest number, 0 if unknown
func ChestAmount(chestNumber int) int64 {
	return ChestAmounts[chestNumber]
}
