package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-ai/inkwell-server/internal/api/middleware"
	"github.com/inkwell-ai/inkwell-server/internal/model/dto"
	"github.com/inkwell-ai/inkwell-server/internal/pkg/response"
	"github.com/inkwell-ai/inkwell-server/internal/service"
)

type SettingsHandler struct {
	settingsService *service.SettingsService
}

func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
	}
}

// GetPreferences 偏好设置
// GET /api/v1/settings/preferences
func (h *SettingsHandler) GetPreferences(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	prefs, err := h.settingsService.GetPreferences(userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, gin.H{"settings": prefs})
}

// UpdatePreferences 更新偏好设置
// PUT /api/v1/settings/preferences
func (h *SettingsHandler) UpdatePreferences(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	if err := h.settingsService.UpdatePreferences(userID, req.Settings); err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "设置已保存", nil)
}

// GetNotifications 通知设置
// GET /api/v1/settings/notifications
func (h *SettingsHandler) GetNotifications(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	notifications, err := h.settingsService.GetNotifications(userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, gin.H{"settings": notifications})
}

// UpdateNotifications 更新通知设置
// PUT /api/v1/settings/notifications
func (h *SettingsHandler) UpdateNotifications(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	if err := h.settingsService.UpdateNotifications(userID, req.Settings); err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "设置已保存", nil)
}

// CreateAPIKey 创建 API Key
// POST /api/v1/settings/api-keys
func (h *SettingsHandler) CreateAPIKey(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.CreateAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.settingsService.CreateAPIKey(userID, req.Name)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "创建成功，请妥善保管密钥", resp)
}

// ListAPIKeys API Key 列表
// GET /api/v1/settings/api-keys
func (h *SettingsHandler) ListAPIKeys(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	items, err := h.settingsService.ListAPIKeys(userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, gin.H{"keys": items})
}

// DeleteAPIKey 删除 API Key
// DELETE /api/v1/settings/api-keys/:id
func (h *SettingsHandler) DeleteAPIKey(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	keyID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的 Key ID")
		return
	}

	if err := h.settingsService.DeleteAPIKey(userID, keyID); err != nil {
		switch err {
		case service.ErrAPIKeyNotFound:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}
