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

type ArticleHandler struct {
	articleService *service.ArticleService
}

func NewArticleHandler(articleService *service.ArticleService) *ArticleHandler {
	return &ArticleHandler{
		articleService: articleService,
	}
}

// Generate 提交文章生成任务
// POST /api/v1/articles/generate
func (h *ArticleHandler) Generate(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.GenerateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.articleService.Generate(c.Request.Context(), userID, &req)
	if err != nil {
		var insufficient *service.InsufficientCreditsError
		switch {
		case errors.As(err, &insufficient):
			response.CreditError(c, insufficient.Error())
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "任务提交失败")
		}
		return
	}

	response.SuccessWithMessage(c, "任务已提交", resp)
}

// List 文章列表
// GET /api/v1/articles
func (h *ArticleHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	status := c.Query("status")

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	items, total, err := h.articleService.List(userID, page, pageSize, status)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}

// Get 文章详情
// GET /api/v1/articles/:id
func (h *ArticleHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	articleID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的文章ID")
		return
	}

	detail, err := h.articleService.Get(userID, articleID)
	if err != nil {
		switch err {
		case service.ErrArticleNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, detail)
}

// Delete 删除文章
// DELETE /api/v1/articles/:id
func (h *ArticleHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	articleID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的文章ID")
		return
	}

	if err := h.articleService.Delete(userID, articleID); err != nil {
		switch err {
		case service.ErrArticleNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrArticleGenerating:
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}

// GetJobStatus 任务进度
// GET /api/v1/articles/:id/job-status
func (h *ArticleHandler) GetJobStatus(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	articleID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的文章ID")
		return
	}

	status, err := h.articleService.GetJobStatus(userID, articleID)
	if err != nil {
		switch err {
		case service.ErrArticleNotFound, service.ErrJobNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, status)
}
