package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// StringArray 用于 JSON 数组字段
type StringArray []string

func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return json.Marshal(s)
}

func (s *StringArray) Scan(value interface{}) error {
	if value == nil {
		*s = []string{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if str, ok := value.(string); ok {
			bytes = []byte(str)
		} else {
			return nil
		}
	}
	return json.Unmarshal(bytes, s)
}

type Article struct {
	ID             int64       `gorm:"primaryKey" json:"id"`
	UserID         int64       `gorm:"not null;index" json:"user_id"`
	Title          string      `gorm:"size:200" json:"title"`
	Topic          string      `gorm:"size:500;not null" json:"topic"`
	Keywords       StringArray `gorm:"type:json" json:"keywords,omitempty"`
	Tone           string      `gorm:"size:30" json:"tone,omitempty"`     // professional, casual, humorous
	Length         string      `gorm:"size:20;not null" json:"length"`    // short, medium, long
	Content        string      `gorm:"type:longtext" json:"content,omitempty"`
	Model          string      `gorm:"size:50" json:"model,omitempty"`
	Status         string      `gorm:"size:20;default:queued;index" json:"status"` // queued, generating, completed, failed
	ErrorMessage   string      `gorm:"type:text" json:"error_message,omitempty"`
	CreditsCharged int64       `json:"credits_charged"`
	CreatedAt      time.Time   `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

func (Article) TableName() string {
	return "articles"
}
