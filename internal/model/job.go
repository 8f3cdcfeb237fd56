package model

import (
	"time"
)

type ArticleJob struct {
	ID             int64      `gorm:"primaryKey" json:"id"`
	ArticleID      int64      `gorm:"not null;index" json:"article_id"`
	UserID         int64      `gorm:"not null;index" json:"user_id"`
	Cost           int64      `gorm:"not null" json:"cost"`
	Status         string     `gorm:"size:20;default:queued;index" json:"status"` // queued, processing, completed, failed
	CurrentStep    string     `gorm:"size:200" json:"current_step,omitempty"`
	ErrorMessage   string     `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	ElapsedSeconds int        `json:"elapsed_seconds,omitempty"`
}

func (ArticleJob) TableName() string {
	return "article_jobs"
}
