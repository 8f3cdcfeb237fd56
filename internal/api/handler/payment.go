package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/inkwell-ai/inkwell-server/internal/api/middleware"
	"github.com/inkwell-ai/inkwell-server/internal/model/dto"
	"github.com/inkwell-ai/inkwell-server/internal/pkg/response"
	"github.com/inkwell-ai/inkwell-server/internal/service"
)

type PaymentHandler struct {
	paymentService *service.PaymentService
}

func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// ListPlans 套餐列表，无需登录
// GET /api/v1/payment/plans
func (h *PaymentHandler) ListPlans(c *gin.Context) {
	response.Success(c, gin.H{
		"plans": h.paymentService.ListPlans(),
	})
}

// GetSubscription 订阅状态
// GET /api/v1/payment/subscription
func (h *PaymentHandler) GetSubscription(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	status, err := h.paymentService.GetSubscriptionStatus(userID)
	if err != nil {
		switch err {
		case service.ErrUserNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, status)
}

// CreateIntent 创建订阅支付意向
// POST /api/v1/payment/create-intent
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.paymentService.CreateIntent(userID, req.PlanID)
	if err != nil {
		switch err {
		case service.ErrPlanNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "创建支付失败")
		}
		return
	}

	response.Success(c, resp)
}

// BuyCredits 购买积分包
// POST /api/v1/payment/buy-credits
func (h *PaymentHandler) BuyCredits(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.BuyCreditsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.paymentService.BuyCredits(userID, req.PackID)
	if err != nil {
		switch err {
		case service.ErrPackNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "创建支付失败")
		}
		return
	}

	response.Success(c, resp)
}

// ProcessPayment 确认支付并发放
// POST /api/v1/payment/process
func (h *PaymentHandler) ProcessPayment(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.paymentService.ProcessPayment(c.Request.Context(), userID, req.PaymentIntentID)
	if err != nil {
		switch err {
		case service.ErrPaymentAlreadyProcessed:
			response.DuplicateError(c, err.Error())
		case service.ErrPaymentNotCompleted:
			response.ParamError(c, err.Error())
		case service.ErrPaymentMismatch:
			response.PermissionError(c, err.Error())
		case service.ErrPlanNotFound, service.ErrPackNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "支付处理失败")
		}
		return
	}

	response.SuccessWithMessage(c, "支付成功", resp)
}
