package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/inkwell-ai/inkwell-server/config"
	"github.com/inkwell-ai/inkwell-server/internal/model"
	"github.com/inkwell-ai/inkwell-server/internal/model/dto"
	"github.com/inkwell-ai/inkwell-server/internal/pkg/queue"
	"github.com/inkwell-ai/inkwell-server/internal/repository"
)

var (
	ErrArticleNotFound   = errors.New("文章不存在")
	ErrJobNotFound       = errors.New("任务不存在")
	ErrArticleGenerating = errors.New("文章正在生成中，无法删除")
)

type ArticleService struct {
	articleRepo   *repository.ArticleRepository
	jobRepo       *repository.JobRepository
	creditService *CreditService
	queue         *queue.Queue
	cfg           *config.Config
}

func NewArticleService(articleRepo *repository.ArticleRepository, jobRepo *repository.JobRepository, creditService *CreditService, q *queue.Queue, cfg *config.Config) *ArticleService {
	return &ArticleService{
		articleRepo:   articleRepo,
		jobRepo:       jobRepo,
		creditService: creditService,
		queue:         q,
		cfg:           cfg,
	}
}

// Cost 按长度档位算费用，未配置的档位按 medium 算
func (s *ArticleService) Cost(length string) int64 {
	if cost, ok := s.cfg.Article.CostByLength[length]; ok {
		return cost
	}
	return s.cfg.Article.CostByLength["medium"]
}

// Generate 提交文章生成任务：预留积分，建文章和任务记录，入队。
// 积分在任务完成时结算，失败时释放
func (s *ArticleService) Generate(ctx context.Context, userID int64, req *dto.GenerateArticleRequest) (*dto.GenerateArticleResponse, error) {
	cost := s.Cost(req.Length)

	if err := s.creditService.Hold(userID, cost); err != nil {
		return nil, err
	}

	article := &model.Article{
		UserID:   userID,
		Topic:    req.Topic,
		Keywords: req.Keywords,
		Tone:     req.Tone,
		Length:   req.Length,
		Status:   "queued",
	}
	if err := s.articleRepo.Create(article); err != nil {
		s.rollbackHold(userID, cost)
		return nil, err
	}

	job := &model.ArticleJob{
		ArticleID: article.ID,
		UserID:    userID,
		Cost:      cost,
		Status:    "queued",
	}
	if err := s.jobRepo.Create(job); err != nil {
		s.rollbackHold(userID, cost)
		return nil, err
	}

	msg := &queue.JobMessage{
		JobID:     job.ID,
		ArticleID: article.ID,
		UserID:    userID,
	}
	if err := s.queue.Push(ctx, msg); err != nil {
		s.rollbackHold(userID, cost)
		_ = s.articleRepo.UpdateStatus(article.ID, "failed")
		_ = s.jobRepo.UpdateStatus(job.ID, "failed")
		return nil, fmt.Errorf("failed to enqueue job: %w", err)
	}

	return &dto.GenerateArticleResponse{
		ArticleID:   article.ID,
		JobID:       job.ID,
		CreditsHeld: cost,
	}, nil
}

func (s *ArticleService) rollbackHold(userID, cost int64) {
	// 入队前失败，预留原路退回
	_ = s.creditService.ReleaseHold(userID, cost)
}

// Get 获取文章详情，只能看自己的
func (s *ArticleService) Get(userID, articleID int64) (*dto.ArticleDetail, error) {
	article, err := s.articleRepo.GetByID(articleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}
	if article.UserID != userID {
		return nil, ErrArticleNotFound
	}

	return &dto.ArticleDetail{
		ID:             article.ID,
		Title:          article.Title,
		Topic:          article.Topic,
		Keywords:       article.Keywords,
		Tone:           article.Tone,
		Length:         article.Length,
		Content:        article.Content,
		Model:          article.Model,
		Status:         article.Status,
		ErrorMessage:   article.ErrorMessage,
		CreditsCharged: article.CreditsCharged,
		CreatedAt:      article.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      article.UpdatedAt.Format(time.RFC3339),
	}, nil
}

// List 分页查询文章列表，status 为空时不过滤
func (s *ArticleService) List(userID int64, page, pageSize int, status string) ([]dto.ArticleListItem, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	articles, total, err := s.articleRepo.List(userID, page, pageSize, status)
	if err != nil {
		return nil, 0, err
	}

	items := make([]dto.ArticleListItem, 0, len(articles))
	for _, a := range articles {
		items = append(items, dto.ArticleListItem{
			ID:             a.ID,
			Title:          a.Title,
			Topic:          a.Topic,
			Length:         a.Length,
			Status:         a.Status,
			CreditsCharged: a.CreditsCharged,
			CreatedAt:      a.CreatedAt.Format(time.RFC3339),
		})
	}
	return items, total, nil
}

// Delete 删除文章，生成中的不允许删
func (s *ArticleService) Delete(userID, articleID int64) error {
	article, err := s.articleRepo.GetByID(articleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrArticleNotFound
		}
		return err
	}
	if article.UserID != userID {
		return ErrArticleNotFound
	}
	if article.Status == "generating" {
		return ErrArticleGenerating
	}

	return s.articleRepo.Delete(articleID)
}

// GetJobStatus 查询任务进度
func (s *ArticleService) GetJobStatus(userID, articleID int64) (*dto.JobStatusResponse, error) {
	article, err := s.articleRepo.GetByID(articleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}
	if article.UserID != userID {
		return nil, ErrArticleNotFound
	}

	job, err := s.jobRepo.GetByArticleID(articleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}

	resp := &dto.JobStatusResponse{
		JobID:          job.ID,
		ArticleID:      job.ArticleID,
		Status:         job.Status,
		CurrentStep:    job.CurrentStep,
		ElapsedSeconds: job.ElapsedSeconds,
		ErrorMessage:   job.ErrorMessage,
	}
	if job.StartedAt != nil {
		resp.StartedAt = job.StartedAt.Format(time.RFC3339)
	}
	return resp, nil
}
