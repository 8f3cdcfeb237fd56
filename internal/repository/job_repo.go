package repository

import (
	"gorm.io/gorm"

	"github.com/inkwell-ai/inkwell-server/internal/model"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) Create(job *model.ArticleJob) error {
	return r.db.Create(job).Error
}

func (r *JobRepository) GetByID(id int64) (*model.ArticleJob, error) {
	var job model.ArticleJob
	err := r.db.Where("id = ?", id).First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *JobRepository) GetByArticleID(articleID int64) (*model.ArticleJob, error) {
	var job model.ArticleJob
	err := r.db.Where("article_id = ?", articleID).Order("created_at DESC").First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *JobRepository) Update(job *model.ArticleJob) error {
	return r.db.Save(job).Error
}

func (r *JobRepository) UpdateStatus(id int64, status string) error {
	return r.db.Model(&model.ArticleJob{}).Where("id = ?", id).Update("status", status).Error
}

func (r *JobRepository) UpdateStep(id int64, step string) error {
	return r.db.Model(&model.ArticleJob{}).Where("id = ?", id).Update("current_step", step).Error
}

// GetPendingJobs 获取待处理的任务
func (r *JobRepository) GetPendingJobs(limit int) ([]*model.ArticleJob, error) {
	var jobs []*model.ArticleJob
	err := r.db.Where("status = ?", "queued").
		Order("created_at ASC").
		Limit(limit).
		Find(&jobs).Error
	return jobs, err
}
