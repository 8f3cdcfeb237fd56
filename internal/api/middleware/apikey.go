package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-ai/inkwell-server/internal/pkg/apikey"
	"github.com/inkwell-ai/inkwell-server/internal/pkg/response"
	"github.com/inkwell-ai/inkwell-server/internal/repository"
)

// AuthOrAPIKey 同时接受 JWT 和 API Key 两种认证方式。
// X-API-Key 头优先，没有时回退到 Authorization 头走 JWT
func AuthOrAPIKey(jwtSecret string, apiKeyRepo *repository.APIKeyRepository) gin.HandlerFunc {
	jwtAuth := Auth(jwtSecret)

	return func(c *gin.Context) {
		key := c.GetHeader("X-API-Key")
		if key == "" {
			jwtAuth(c)
			return
		}

		userID, ok := verifyAPIKey(key, apiKeyRepo)
		if !ok {
			response.AuthError(c, "API Key 无效")
			c.Abort()
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// verifyAPIKey 按展示前缀查出候选记录，逐条比对 bcrypt 哈希
func verifyAPIKey(key string, repo *repository.APIKeyRepository) (int64, bool) {
	if !strings.HasPrefix(key, apikey.Prefix) {
		return 0, false
	}

	prefix := apikey.DisplayPrefix(key)
	if prefix == "" {
		return 0, false
	}

	candidates, err := repo.ListByPrefix(prefix)
	if err != nil {
		return 0, false
	}

	for _, candidate := range candidates {
		if apikey.Verify(key, candidate.KeyHash) {
			_ = repo.TouchLastUsed(candidate.ID, time.Now())
			return candidate.UserID, true
		}
	}
	return 0, false
}
