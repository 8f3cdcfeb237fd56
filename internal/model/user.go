package model

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID                    int64          `gorm:"primaryKey" json:"id"`
	Username              string         `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email                 *string        `gorm:"size:100;uniqueIndex" json:"email,omitempty"`
	Credits               int64          `gorm:"not null;default:0" json:"credits"`
	ReservedCredits       int64          `gorm:"not null;default:0" json:"reserved_credits"`
	PlanID                *string        `gorm:"size:50" json:"plan_id,omitempty"`
	IsLifetime            bool           `gorm:"default:false" json:"is_lifetime"`
	SubscriptionExpiresAt *time.Time     `json:"subscription_expires_at,omitempty"`
	NextGrantAt           *time.Time     `gorm:"index" json:"-"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}
