package repository

import (
	"gorm.io/gorm"

	"github.com/inkwell-ai/inkwell-server/internal/model"
)

type ArticleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

func (r *ArticleRepository) Create(article *model.Article) error {
	return r.db.Create(article).Error
}

func (r *ArticleRepository) GetByID(id int64) (*model.Article, error) {
	var article model.Article
	err := r.db.Where("id = ?", id).First(&article).Error
	if err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *ArticleRepository) Update(article *model.Article) error {
	return r.db.Save(article).Error
}

func (r *ArticleRepository) UpdateStatus(id int64, status string) error {
	return r.db.Model(&model.Article{}).Where("id = ?", id).
		Update("status", status).Error
}

func (r *ArticleRepository) Delete(id int64) error {
	return r.db.Delete(&model.Article{}, id).Error
}

func (r *ArticleRepository) List(userID int64, page, pageSize int, status string) ([]model.Article, int64, error) {
	query := r.db.Model(&model.Article{}).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var articles []model.Article
	err := query.Order("created_at DESC, id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&articles).Error
	if err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}
