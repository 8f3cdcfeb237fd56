package service

import (
	"errors"
	"time"

	"github.com/inkwell-ai/inkwell-server/internal/model"
	"github.com/inkwell-ai/inkwell-server/internal/model/dto"
	"github.com/inkwell-ai/inkwell-server/internal/pkg/apikey"
	"github.com/inkwell-ai/inkwell-server/internal/repository"
)

var ErrAPIKeyNotFound = errors.New("API Key 不存在")

type SettingsService struct {
	settingsRepo *repository.SettingsRepository
	apiKeyRepo   *repository.APIKeyRepository
}

func NewSettingsService(settingsRepo *repository.SettingsRepository, apiKeyRepo *repository.APIKeyRepository) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		apiKeyRepo:   apiKeyRepo,
	}
}

// GetPreferences 获取偏好设置
func (s *SettingsService) GetPreferences(userID int64) (map[string]interface{}, error) {
	settings, err := s.settingsRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	return settings.Preferences, nil
}

// UpdatePreferences 整体覆盖偏好设置
func (s *SettingsService) UpdatePreferences(userID int64, preferences map[string]interface{}) error {
	return s.settingsRepo.UpdatePreferences(userID, model.JSONMap(preferences))
}

// GetNotifications 获取通知设置
func (s *SettingsService) GetNotifications(userID int64) (map[string]interface{}, error) {
	settings, err := s.settingsRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	return settings.Notifications, nil
}

// UpdateNotifications 整体覆盖通知设置
func (s *SettingsService) UpdateNotifications(userID int64, notifications map[string]interface{}) error {
	return s.settingsRepo.UpdateNotifications(userID, model.JSONMap(notifications))
}

// CreateAPIKey 生成并保存 API Key，明文只在响应里出现一次
func (s *SettingsService) CreateAPIKey(userID int64, name string) (*dto.CreateAPIKeyResponse, error) {
	plaintext, keyPrefix, keyHash, err := apikey.Generate()
	if err != nil {
		return nil, err
	}

	key := &model.APIKey{
		UserID:    userID,
		Name:      name,
		KeyPrefix: keyPrefix,
		KeyHash:   keyHash,
	}
	if err := s.apiKeyRepo.Create(key); err != nil {
		return nil, err
	}

	return &dto.CreateAPIKeyResponse{
		ID:        key.ID,
		Name:      key.Name,
		Key:       plaintext,
		KeyPrefix: key.KeyPrefix,
		CreatedAt: key.CreatedAt.Format(time.RFC3339),
	}, nil
}

// ListAPIKeys 列出用户的 API Key，不返回哈希
func (s *SettingsService) ListAPIKeys(userID int64) ([]dto.APIKeyItem, error) {
	keys, err := s.apiKeyRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	items := make([]dto.APIKeyItem, 0, len(keys))
	for _, k := range keys {
		item := dto.APIKeyItem{
			ID:        k.ID,
			Name:      k.Name,
			KeyPrefix: k.KeyPrefix,
			CreatedAt: k.CreatedAt.Format(time.RFC3339),
		}
		if k.LastUsedAt != nil {
			item.LastUsedAt = k.LastUsedAt.Format(time.RFC3339)
		}
		items = append(items, item)
	}
	return items, nil
}

// DeleteAPIKey 删除 API Key，只能删自己的
func (s *SettingsService) DeleteAPIKey(userID, keyID int64) error {
	affected, err := s.apiKeyRepo.Delete(userID, keyID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAPIKeyNotFound
	}
	return nil
}
