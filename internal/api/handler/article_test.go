package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/inkwell-ai/inkwell-server/config"
	"github.com/inkwell-ai/inkwell-server/internal/model/dto"
	"github.com/inkwell-ai/inkwell-server/internal/pkg/queue"
	"github.com/inkwell-ai/inkwell-server/internal/pkg/response"
	"github.com/inkwell-ai/inkwell-server/internal/repository"
	"github.com/inkwell-ai/inkwell-server/internal/service"
	"github.com/inkwell-ai/inkwell-server/internal/testutil"
)

func setupArticleHandler(t *testing.T) (*ArticleHandler, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	cfg := &config.Config{
		Article: config.ArticleConfig{
			Model:        "gpt-4o-mini",
			CostByLength: map[string]int64{"short": 20, "medium": 40, "long": 80},
		},
	}

	creditService := service.NewCreditService(repository.NewCreditRepository(db), repository.NewUserRepository(db), nil, 0)
	articleService := service.NewArticleService(
		repository.NewArticleRepository(db),
		repository.NewJobRepository(db),
		creditService,
		queue.NewQueue(client, "test_article_jobs"),
		cfg,
	)
	return NewArticleHandler(articleService), db
}

func TestArticleHandler_Generate_Success(t *testing.T) {
	handler, db := setupArticleHandler(t)

	user := testutil.TestUser(t, db, testutil.WithCredits(100))

	router := gin.New()
	router.Use(mockAuth(user.ID))
	router.POST("/articles/generate", handler.Generate)

	w := performRequest(router, "POST", "/articles/generate", dto.GenerateArticleRequest{
		Topic:  "远程办公的利与弊",
		Length: "medium",
	})
	resp := parseResponse(t, w)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.NotZero(t, data["article_id"])
	assert.NotZero(t, data["job_id"])
	assert.Equal(t, float64(40), data["credits_held"])
}

func TestArticleHandler_Generate_InvalidLength(t *testing.T) {
	handler, db := setupArticleHandler(t)

	user := testutil.TestUser(t, db)

	router := gin.New()
	router.Use(mockAuth(user.ID))
	router.POST("/articles/generate", handler.Generate)

	w := performRequest(router, "POST", "/articles/generate", map[string]interface{}{
		"topic":  "test",
		"length": "gigantic",
	})
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeParamError, resp.Code)
}

func TestArticleHandler_Generate_InsufficientCredits(t *testing.T) {
	handler, db := setupArticleHandler(t)

	user := testutil.TestUser(t, db, testutil.WithCredits(10))

	router := gin.New()
	router.Use(mockAuth(user.ID))
	router.POST("/articles/generate", handler.Generate)

	w := performRequest(router, "POST", "/articles/generate", dto.GenerateArticleRequest{
		Topic:  "test",
		Length: "long",
	})
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeInsufficientCredits, resp.Code)
}

func TestArticleHandler_GetAndDelete(t *testing.T) {
	handler, db := setupArticleHandler(t)

	user := testutil.TestUser(t, db)
	article := testutil.TestArticle(t, db, user.ID, testutil.WithArticleStatus("completed"))

	router := gin.New()
	router.Use(mockAuth(user.ID))
	router.GET("/articles/:id", handler.Get)
	router.DELETE("/articles/:id", handler.Delete)

	w := performRequest(router, "GET", fmt.Sprintf("/articles/%d", article.ID), nil)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	w = performRequest(router, "DELETE", fmt.Sprintf("/articles/%d", article.ID), nil)
	resp = parseResponse(t, w)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	w = performRequest(router, "GET", fmt.Sprintf("/articles/%d", article.ID), nil)
	resp = parseResponse(t, w)
	assert.Equal(t, response.CodeResourceNotFound, resp.Code)
}

func TestArticleHandler_GetJobStatus(t *testing.T) {
	handler, db := setupArticleHandler(t)

	user := testutil.TestUser(t, db)
	article := testutil.TestArticle(t, db, user.ID)
	testutil.TestJob(t, db, user.ID, article.ID, 40, "processing")

	router := gin.New()
	router.Use(mockAuth(user.ID))
	router.GET("/articles/:id/job-status", handler.GetJobStatus)

	w := performRequest(router, "GET", fmt.Sprintf("/articles/%d/job-status", article.ID), nil)
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeSuccess, resp.Code)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "processing", data["status"])
}
