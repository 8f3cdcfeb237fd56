package repository

import (
	"gorm.io/gorm"

	"github.com/inkwell-ai/inkwell-server/internal/model"
)

type ImageRepository struct {
	db *gorm.DB
}

func NewImageRepository(db *gorm.DB) *ImageRepository {
	return &ImageRepository{db: db}
}

func (r *ImageRepository) Create(image *model.GeneratedImage) error {
	return r.db.Create(image).Error
}

func (r *ImageRepository) CreateBatch(images []model.GeneratedImage) error {
	if len(images) == 0 {
		return nil
	}
	return r.db.Create(&images).Error
}

func (r *ImageRepository) ListByUser(userID int64, page, pageSize int) ([]model.GeneratedImage, int64, error) {
	var total int64
	if err := r.db.Model(&model.GeneratedImage{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var images []model.GeneratedImage
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&images).Error
	if err != nil {
		return nil, 0, err
	}
	return images, total, nil
}
