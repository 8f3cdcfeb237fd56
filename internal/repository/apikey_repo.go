package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/inkwell-ai/inkwell-server/internal/model"
)

type APIKeyRepository struct {
	db *gorm.DB
}

func NewAPIKeyRepository(db *gorm.DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

func (r *APIKeyRepository) Create(key *model.APIKey) error {
	return r.db.Create(key).Error
}

func (r *APIKeyRepository) GetByID(id int64) (*model.APIKey, error) {
	var key model.APIKey
	err := r.db.Where("id = ?", id).First(&key).Error
	if err != nil {
		return nil, err
	}
	return &key, nil
}

// ListByPrefix 同一展示前缀可能对应多条记录，校验时逐条比对哈希
func (r *APIKeyRepository) ListByPrefix(prefix string) ([]model.APIKey, error) {
	var keys []model.APIKey
	err := r.db.Where("key_prefix = ?", prefix).Find(&keys).Error
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func (r *APIKeyRepository) ListByUser(userID int64) ([]model.APIKey, error) {
	var keys []model.APIKey
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&keys).Error
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func (r *APIKeyRepository) Delete(userID, id int64) (int64, error) {
	res := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&model.APIKey{})
	return res.RowsAffected, res.Error
}

func (r *APIKeyRepository) TouchLastUsed(id int64, at time.Time) error {
	return r.db.Model(&model.APIKey{}).Where("id = ?", id).
		Update("last_used_at", at).Error
}
