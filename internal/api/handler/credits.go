package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-ai/inkwell-server/internal/api/middleware"
	"github.com/inkwell-ai/inkwell-server/internal/pkg/response"
	"github.com/inkwell-ai/inkwell-server/internal/service"
)

type CreditsHandler struct {
	creditService *service.CreditService
}

func NewCreditsHandler(creditService *service.CreditService) *CreditsHandler {
	return &CreditsHandler{
		creditService: creditService,
	}
}

// GetBalance 余额查询
// GET /api/v1/credits/balance
func (h *CreditsHandler) GetBalance(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	balance, err := h.creditService.GetBalance(userID)
	if err != nil {
		switch err {
		case service.ErrUserNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, balance)
}

// GetStats 消费统计
// GET /api/v1/credits/stats
func (h *CreditsHandler) GetStats(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	stats, err := h.creditService.GetStats(userID)
	if err != nil {
		switch err {
		case service.ErrUserNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, stats)
}

// ListTransactions 流水列表
// GET /api/v1/credits/transactions
func (h *CreditsHandler) ListTransactions(c *gin.Context) {
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

	items, total, err := h.creditService.ListTransactions(userID, page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}
