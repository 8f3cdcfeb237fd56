package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/inkwell-ai/inkwell-server/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) GetByID(id int64) (*model.User, error) {
	var user model.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Update(user *model.User) error {
	return r.db.Save(user).Error
}

func (r *UserRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).Updates(fields).Error
}

// SetSubscription 激活/更新订阅
func (r *UserRepository) SetSubscription(id int64, planID string, expiresAt *time.Time, isLifetime bool, nextGrantAt time.Time) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"plan_id":                 planID,
		"subscription_expires_at": expiresAt,
		"is_lifetime":             isLifetime,
		"next_grant_at":           nextGrantAt,
	}).Error
}

// ListDueForRenewal 查询到了月度发放时间的订阅用户
func (r *UserRepository) ListDueForRenewal(now time.Time) ([]model.User, error) {
	var users []model.User
	err := r.db.Where("plan_id IS NOT NULL AND next_grant_at IS NOT NULL AND next_grant_at <= ?", now).
		Where("is_lifetime = ? OR subscription_expires_at > ?", true, now).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// AdvanceGrantTime 推进下一次月度发放时间
func (r *UserRepository) AdvanceGrantTime(id int64, nextGrantAt time.Time) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).
		Update("next_grant_at", nextGrantAt).Error
}
