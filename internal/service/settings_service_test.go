package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/inkwell-ai/inkwell-server/internal/pkg/apikey"
	"github.com/inkwell-ai/inkwell-server/internal/repository"
	"github.com/inkwell-ai/inkwell-server/internal/testutil"
)

func setupSettingsService(t *testing.T) (*SettingsService, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	return NewSettingsService(
		repository.NewSettingsRepository(db),
		repository.NewAPIKeyRepository(db),
	), db
}

func TestSettingsService_Preferences_DefaultEmpty(t *testing.T) {
	service, db := setupSettingsService(t)

	user := testutil.TestUser(t, db)

	prefs, err := service.GetPreferences(user.ID)
	require.NoError(t, err)
	assert.Empty(t, prefs)
}

func TestSettingsService_UpdatePreferences(t *testing.T) {
	service, db := setupSettingsService(t)

	user := testutil.TestUser(t, db)

	err := service.UpdatePreferences(user.ID, map[string]interface{}{
		"theme":            "dark",
		"default_language": "zh-CN",
	})
	require.NoError(t, err)

	prefs, err := service.GetPreferences(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "dark", prefs["theme"])
	assert.Equal(t, "zh-CN", prefs["default_language"])

	// 整体覆盖，旧键被移除
	err = service.UpdatePreferences(user.ID, map[string]interface{}{"theme": "light"})
	require.NoError(t, err)

	prefs, err = service.GetPreferences(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "light", prefs["theme"])
	assert.NotContains(t, prefs, "default_language")
}

func TestSettingsService_Notifications_Independent(t *testing.T) {
	service, db := setupSettingsService(t)

	user := testutil.TestUser(t, db)

	require.NoError(t, service.UpdatePreferences(user.ID, map[string]interface{}{"theme": "dark"}))
	require.NoError(t, service.UpdateNotifications(user.ID, map[string]interface{}{"payment_receipts": false}))

	prefs, err := service.GetPreferences(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "dark", prefs["theme"])

	notifications, err := service.GetNotifications(user.ID)
	require.NoError(t, err)
	assert.Equal(t, false, notifications["payment_receipts"])
	assert.NotContains(t, notifications, "theme")
}

func TestSettingsService_CreateAPIKey(t *testing.T) {
	service, db := setupSettingsService(t)

	user := testutil.TestUser(t, db)

	resp, err := service.CreateAPIKey(user.ID, "ci-pipeline")
	require.NoError(t, err)
	assert.Equal(t, "ci-pipeline", resp.Name)
	assert.True(t, strings.HasPrefix(resp.Key, apikey.Prefix))
	assert.Equal(t, resp.Key[:len(resp.KeyPrefix)], resp.KeyPrefix)

	// 列表不含明文和哈希
	items, err := service.ListAPIKeys(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, resp.KeyPrefix, items[0].KeyPrefix)
}

func TestSettingsService_DeleteAPIKey(t *testing.T) {
	service, db := setupSettingsService(t)

	user := testutil.TestUser(t, db)
	other := testutil.TestUser(t, db)

	resp, err := service.CreateAPIKey(user.ID, "to-delete")
	require.NoError(t, err)

	// 删别人的 key 返回不存在
	err = service.DeleteAPIKey(other.ID, resp.ID)
	assert.ErrorIs(t, err, ErrAPIKeyNotFound)

	require.NoError(t, service.DeleteAPIKey(user.ID, resp.ID))

	items, err := service.ListAPIKeys(user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}
