package model

import (
	"time"
)

// 流水类型
const (
	TxTypeUsage      = "usage"
	TxTypePurchase   = "purchase"
	TxTypeRefund     = "refund"
	TxTypeAdjustment = "adjustment"
)

// 功能标签
const (
	FeatureImageGeneration   = "image_generation"
	FeatureArticleGeneration = "article_generation"
	FeatureOther             = "other"
)

// CreditTransaction 积分流水，只增不改
type CreditTransaction struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	UserID      int64     `gorm:"not null;index" json:"user_id"`
	Amount      int64     `gorm:"not null" json:"amount"` // 消耗为负，充值为正
	Type        string    `gorm:"size:20;not null;index" json:"type"`
	Feature     string    `gorm:"size:30;index" json:"feature,omitempty"`
	Description string    `gorm:"size:255" json:"description"`
	Reference   *string   `gorm:"size:100;uniqueIndex" json:"reference,omitempty"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

func (CreditTransaction) TableName() string {
	return "credit_transactions"
}
