package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-ai/inkwell-server/internal/api/middleware"
	"github.com/inkwell-ai/inkwell-server/internal/model/dto"
	"github.com/inkwell-ai/inkwell-server/internal/pkg/response"
	"github.com/inkwell-ai/inkwell-server/internal/service"
)

type ImageHandler struct {
	imageService *service.ImageService
}

func NewImageHandler(imageService *service.ImageService) *ImageHandler {
	return &ImageHandler{
		imageService: imageService,
	}
}

// Generate 生成图片
// POST /api/v1/images/generate
func (h *ImageHandler) Generate(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.GenerateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.imageService.Generate(c.Request.Context(), userID, &req)
	if err != nil {
		var insufficient *service.InsufficientCreditsError
		switch {
		case errors.As(err, &insufficient):
			response.CreditError(c, insufficient.Error())
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "图片生成失败")
		}
		return
	}

	response.SuccessWithMessage(c, "生成成功", resp)
}

// Estimate 预估费用
// GET /api/v1/images/estimate
func (h *ImageHandler) Estimate(c *gin.Context) {
	if _, ok := middleware.GetUserID(c); !ok {
		response.AuthError(c, "")
		return
	}

	// count 为兼容旧客户端保留
	raw := c.Query("number_of_images")
	if raw == "" {
		raw = c.DefaultQuery("count", "1")
	}
	count, err := strconv.Atoi(raw)
	if err != nil || count < 1 {
		response.ParamError(c, "无效的数量")
		return
	}

	response.Success(c, h.imageService.Estimate(count))
}

// List 生成历史
// GET /api/v1/images
func (h *ImageHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	items, total, err := h.imageService.ListHistory(userID, page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}

// Providers 可用服务商
// GET /api/v1/images/providers
func (h *ImageHandler) Providers(c *gin.Context) {
	response.Success(c, gin.H{
		"providers": h.imageService.Providers(),
	})
}
