package handler

import (
	"fmt"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/inkwell-ai/inkwell-server/internal/model/dto"
	"github.com/inkwell-ai/inkwell-server/internal/pkg/response"
	"github.com/inkwell-ai/inkwell-server/internal/repository"
	"github.com/inkwell-ai/inkwell-server/internal/service"
	"github.com/inkwell-ai/inkwell-server/internal/testutil"
)

func setupSettingsHandler(t *testing.T) (*SettingsHandler, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	settingsService := service.NewSettingsService(
		repository.NewSettingsRepository(db),
		repository.NewAPIKeyRepository(db),
	)
	return NewSettingsHandler(settingsService), db
}

func TestSettingsHandler_PreferencesRoundTrip(t *testing.T) {
	handler, db := setupSettingsHandler(t)

	user := testutil.TestUser(t, db)

	router := gin.New()
	router.Use(mockAuth(user.ID))
	router.GET("/settings/preferences", handler.GetPreferences)
	router.PUT("/settings/preferences", handler.UpdatePreferences)

	w := performRequest(router, "PUT", "/settings/preferences", dto.UpdateSettingsRequest{
		Settings: map[string]interface{}{"theme": "dark"},
	})
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	w = performRequest(router, "GET", "/settings/preferences", nil)
	resp = parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	data := resp.Data.(map[string]interface{})
	settings := data["settings"].(map[string]interface{})
	assert.Equal(t, "dark", settings["theme"])
}

func TestSettingsHandler_UpdatePreferences_MissingBody(t *testing.T) {
	handler, db := setupSettingsHandler(t)

	user := testutil.TestUser(t, db)

	router := gin.New()
	router.Use(mockAuth(user.ID))
	router.PUT("/settings/preferences", handler.UpdatePreferences)

	w := performRequest(router, "PUT", "/settings/preferences", map[string]interface{}{})
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeParamError, resp.Code)
}

func TestSettingsHandler_APIKeyLifecycle(t *testing.T) {
	handler, db := setupSettingsHandler(t)

	user := testutil.TestUser(t, db)

	router := gin.New()
	router.Use(mockAuth(user.ID))
	router.POST("/settings/api-keys", handler.CreateAPIKey)
	router.GET("/settings/api-keys", handler.ListAPIKeys)
	router.DELETE("/settings/api-keys/:id", handler.DeleteAPIKey)

	w := performRequest(router, "POST", "/settings/api-keys", dto.CreateAPIKeyRequest{Name: "ci"})
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	data := resp.Data.(map[string]interface{})
	key := data["key"].(string)
	assert.True(t, strings.HasPrefix(key, "iw_"))
	keyID := int64(data["id"].(float64))

	// 列表只含前缀
	w = performRequest(router, "GET", "/settings/api-keys", nil)
	resp = parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)
	listData := resp.Data.(map[string]interface{})
	keys := listData["keys"].([]interface{})
	require.Len(t, keys, 1)
	item := keys[0].(map[string]interface{})
	assert.NotContains(t, item, "key")
	assert.NotContains(t, item, "key_hash")

	w = performRequest(router, "DELETE", fmt.Sprintf("/settings/api-keys/%d", keyID), nil)
	resp = parseResponse(t, w)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	w = performRequest(router, "DELETE", fmt.Sprintf("/settings/api-keys/%d", keyID), nil)
	resp = parseResponse(t, w)
	assert.Equal(t, response.CodeResourceNotFound, resp.Code)
}
