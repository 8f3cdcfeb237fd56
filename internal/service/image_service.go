package service

import (
	"context"
	"fmt"
	"time"

	"github.com/inkwell-ai/inkwell-server/config"
	"github.com/inkwell-ai/inkwell-server/internal/model"
	"github.com/inkwell-ai/inkwell-server/internal/model/dto"
	"github.com/inkwell-ai/inkwell-server/internal/pkg/imagegen"
	"github.com/inkwell-ai/inkwell-server/internal/repository"
)

type ImageService struct {
	registry      *imagegen.Registry
	imageRepo     *repository.ImageRepository
	creditService *CreditService
	cfg           *config.Config
}

func NewImageService(registry *imagegen.Registry, imageRepo *repository.ImageRepository, creditService *CreditService, cfg *config.Config) *ImageService {
	return &ImageService{
		registry:      registry,
		imageRepo:     imageRepo,
		creditService: creditService,
		cfg:           cfg,
	}
}

// Estimate 计算生成费用，不扣积分
func (s *ImageService) Estimate(count int) *dto.EstimateResponse {
	if count < 1 {
		count = 1
	}
	return &dto.EstimateResponse{
		NumberOfImages: count,
		EstimatedCost:  int64(count) * s.cfg.Image.CostPerImage,
	}
}

// Generate 生成图片：先扣积分再调服务商，按请求数量计费。
// 单张下载/转存失败不回滚，数量记入 FailedCount
func (s *ImageService) Generate(ctx context.Context, userID int64, req *dto.GenerateImageRequest) (*dto.GenerateImageResponse, error) {
	count := req.NumberOfImages
	if count < 1 {
		count = 1
	}
	if count > s.cfg.Image.MaxPerRequest {
		count = s.cfg.Image.MaxPerRequest
	}

	cost := int64(count) * s.cfg.Image.CostPerImage
	description := fmt.Sprintf("生成 %d 张图片", count)

	if err := s.creditService.Charge(userID, cost, model.FeatureImageGeneration, description); err != nil {
		return nil, err
	}

	provider := s.registry.Get(req.ServiceType)
	result, err := provider.Generate(ctx, &imagegen.Request{
		UserID: userID,
		Prompt: req.Prompt,
		Style:  req.Style,
		Width:  req.Width,
		Height: req.Height,
		Count:  count,
	})
	if err != nil {
		// 服务商整体失败，退还积分
		refundErr := s.creditService.Refund(userID, cost, model.FeatureImageGeneration, "生成失败退款")
		if refundErr != nil {
			return nil, fmt.Errorf("generate failed: %v, refund failed: %w", err, refundErr)
		}
		return nil, err
	}

	if len(result.URLs) > 0 {
		images := make([]model.GeneratedImage, 0, len(result.URLs))
		perImage := cost / int64(count)
		for _, url := range result.URLs {
			images = append(images, model.GeneratedImage{
				UserID:         userID,
				Prompt:         req.Prompt,
				Style:          req.Style,
				Width:          req.Width,
				Height:         req.Height,
				Provider:       provider.Name(),
				OSSURL:         url,
				CreditsCharged: perImage,
			})
		}
		if err := s.imageRepo.CreateBatch(images); err != nil {
			return nil, err
		}
	}

	return &dto.GenerateImageResponse{
		URLs:        result.URLs,
		FailedCount: result.Failed,
		Provider:    provider.Name(),
		CreditsUsed: cost,
	}, nil
}

// ListHistory 分页查询生成历史
func (s *ImageService) ListHistory(userID int64, page, pageSize int) ([]dto.ImageListItem, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	images, total, err := s.imageRepo.ListByUser(userID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	items := make([]dto.ImageListItem, 0, len(images))
	for _, img := range images {
		items = append(items, dto.ImageListItem{
			ID:             img.ID,
			Prompt:         img.Prompt,
			Style:          img.Style,
			Provider:       img.Provider,
			URL:            img.OSSURL,
			CreditsCharged: img.CreditsCharged,
			CreatedAt:      img.CreatedAt.Format(time.RFC3339),
		})
	}
	return items, total, nil
}

// Providers 可用的图片服务商
func (s *ImageService) Providers() []string {
	return s.registry.Names()
}
