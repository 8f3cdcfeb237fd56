package model

import (
	"time"
)

// APIKey 明文只在创建时返回一次，库里只存 bcrypt 哈希
type APIKey struct {
	ID         int64      `gorm:"primaryKey" json:"id"`
	UserID     int64      `gorm:"not null;index" json:"user_id"`
	Name       string     `gorm:"size:100;not null" json:"name"`
	KeyPrefix  string     `gorm:"size:20;index;not null" json:"key_prefix"`
	KeyHash    string     `gorm:"size:100;not null" json:"-"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (APIKey) TableName() string {
	return "api_keys"
}
