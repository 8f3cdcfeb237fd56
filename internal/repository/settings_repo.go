package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/inkwell-ai/inkwell-server/internal/model"
)

type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetByUser 获取用户设置，不存在时返回空设置
func (r *SettingsRepository) GetByUser(userID int64) (*model.UserSettings, error) {
	var settings model.UserSettings
	err := r.db.Where("user_id = ?", userID).First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.UserSettings{
				UserID:        userID,
				Preferences:   model.JSONMap{},
				Notifications: model.JSONMap{},
			}, nil
		}
		return nil, err
	}
	return &settings, nil
}

// UpdatePreferences 整体覆盖偏好设置，不存在时创建
func (r *SettingsRepository) UpdatePreferences(userID int64, preferences model.JSONMap) error {
	return r.upsert(userID, "preferences", preferences)
}

// UpdateNotifications 整体覆盖通知设置，不存在时创建
func (r *SettingsRepository) UpdateNotifications(userID int64, notifications model.JSONMap) error {
	return r.upsert(userID, "notifications", notifications)
}

func (r *SettingsRepository) upsert(userID int64, column string, value model.JSONMap) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var settings model.UserSettings
		err := tx.Where("user_id = ?", userID).First(&settings).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			settings = model.UserSettings{
				UserID:        userID,
				Preferences:   model.JSONMap{},
				Notifications: model.JSONMap{},
			}
			if column == "preferences" {
				settings.Preferences = value
			} else {
				settings.Notifications = value
			}
			return tx.Create(&settings).Error
		}
		if err != nil {
			return err
		}

		return tx.Model(&settings).Update(column, value).Error
	})
}
