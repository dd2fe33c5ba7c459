package models

import (
	"time"

	"gorm.io/gorm"
)

// UserRole defines the role of a user
type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

// UserStatus defines the account status of a user
type UserStatus string

const (
	UserStatusActive   UserStatus = "ACTIVE"
	UserStatusInactive UserStatus = "INACTIVE"
	UserStatusBlocked  UserStatus = "BLOCKED"
)

type User struct {
	gorm.Model
	Username string     `gorm:"unique;not null" json:"username"`
	Email    string     `gorm:"unique;not null" json:"email"`
	Phone    string     `gorm:"unique;not null" json:"phone"`
	CPF      string     `gorm:"column:cpf;unique;not null" json:"cpf"`
	Name     string     `gorm:"default:''" json:"name"`
	Password string     `gorm:"not null" json:"-"`
	Role     UserRole   `gorm:"type:varchar(20);default:'USER'" json:"role"`
	Status   UserStatus `gorm:"type:varchar(20);default:'ACTIVE'" json:"status"`

	// Balance is in centavos and is mutated only by the settlement engine.
	Balance int64 `gorm:"not null;default:0" json:"balance"`

	HasReceivedFirstDepositBonus bool       `gorm:"default:false" json:"hasReceivedFirstDepositBonus"`
	LastLogin                    *time.Time `json:"lastLogin"`
	IsDeleted                    bool       `gorm:"default:false" json:"-"`
}

func (User) TableName() string {
	return "users"
}
