package testutil

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/inkwell-ai/inkwell-server/internal/model"
)

// TestUser 创建测试用户
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	email := fmt.Sprintf("test_%d@example.com", time.Now().UnixNano())
	user := &model.User{
		Username: fmt.Sprintf("testuser_%d", time.Now().UnixNano()%1000000),
		Email:    &email,
		Credits:  100,
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithCredits 设置余额
func WithCredits(credits int64) func(*model.User) {
	return func(u *model.User) {
		u.Credits = credits
	}
}

// WithReserved 设置预留额度
func WithReserved(reserved int64) func(*model.User) {
	return func(u *model.User) {
		u.ReservedCredits = reserved
	}
}

// WithPlan 设置订阅套餐
func WithPlan(planID string, expiresAt *time.Time, isLifetime bool) func(*model.User) {
	return func(u *model.User) {
		u.PlanID = &planID
		u.SubscriptionExpiresAt = expiresAt
		u.IsLifetime = isLifetime
	}
}

// WithEmail 设置邮箱
func WithEmail(email string) func(*model.User) {
	return func(u *model.User) {
		u.Email = &email
	}
}

// TestTransaction 创建测试流水
func TestTransaction(t *testing.T, db *gorm.DB, userID int64, opts ...func(*model.CreditTransaction)) *model.CreditTransaction {
	t.Helper()

	entry := &model.CreditTransaction{
		UserID:      userID,
		Amount:      -10,
		Type:        model.TxTypeUsage,
		Feature:     model.FeatureImageGeneration,
		Description: "测试流水",
	}

	for _, opt := range opts {
		opt(entry)
	}

	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("Failed to create test transaction: %v", err)
	}

	return entry
}

// WithAmount 设置金额和类型
func WithAmount(amount int64, txType string) func(*model.CreditTransaction) {
	return func(e *model.CreditTransaction) {
		e.Amount = amount
		e.Type = txType
	}
}

// WithFeature 设置功能标签
func WithFeature(feature string) func(*model.CreditTransaction) {
	return func(e *model.CreditTransaction) {
		e.Feature = feature
	}
}

// WithCreatedAt 设置创建时间
func WithCreatedAt(at time.Time) func(*model.CreditTransaction) {
	return func(e *model.CreditTransaction) {
		e.CreatedAt = at
	}
}

// TestArticle 创建测试文章
func TestArticle(t *testing.T, db *gorm.DB, userID int64, opts ...func(*model.Article)) *model.Article {
	t.Helper()

	article := &model.Article{
		UserID: userID,
		Topic:  fmt.Sprintf("Test Topic %d", time.Now().UnixNano()%10000),
		Length: "medium",
		Status: "queued",
	}

	for _, opt := range opts {
		opt(article)
	}

	if err := db.Create(article).Error; err != nil {
		t.Fatalf("Failed to create test article: %v", err)
	}

	return article
}

// WithArticleStatus 设置文章状态
func WithArticleStatus(status string) func(*model.Article) {
	return func(a *model.Article) {
		a.Status = status
	}
}

// TestJob 创建测试任务
func TestJob(t *testing.T, db *gorm.DB, userID, articleID, cost int64, status string) *model.ArticleJob {
	t.Helper()

	job := &model.ArticleJob{
		ArticleID: articleID,
		UserID:    userID,
		Cost:      cost,
		Status:    status,
	}

	if err := db.Create(job).Error; err != nil {
		t.Fatalf("Failed to create test job: %v", err)
	}

	return job
}
