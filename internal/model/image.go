package model

import (
	"time"
)

type GeneratedImage struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	UserID         int64     `gorm:"not null;index" json:"user_id"`
	Prompt         string    `gorm:"size:2000;not null" json:"prompt"`
	Style          string    `gorm:"size:50" json:"style,omitempty"`
	Width          int       `json:"width"`
	Height         int       `json:"height"`
	Provider       string    `gorm:"size:30;not null" json:"provider"`
	OSSURL         string    `gorm:"size:500;not null" json:"oss_url"`
	CreditsCharged int64     `json:"credits_charged"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
}

func (GeneratedImage) TableName() string {
	return "generated_images"
}
