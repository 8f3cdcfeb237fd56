package api

import (
	"github.com/gin-gonic/gin"

	"github.com/inkwell-ai/inkwell-server/config"
	"github.com/inkwell-ai/inkwell-server/internal/api/handler"
	"github.com/inkwell-ai/inkwell-server/internal/api/middleware"
	"github.com/inkwell-ai/inkwell-server/internal/repository"
)

type Router struct {
	imageHandler     *handler.ImageHandler
	articleHandler   *handler.ArticleHandler
	creditsHandler   *handler.CreditsHandler
	paymentHandler   *handler.PaymentHandler
	settingsHandler  *handler.SettingsHandler
	websocketHandler *handler.WebSocketHandler
	apiKeyRepo       *repository.APIKeyRepository
	cfg              *config.Config
}

func NewRouter(
	imageHandler *handler.ImageHandler,
	articleHandler *handler.ArticleHandler,
	creditsHandler *handler.CreditsHandler,
	paymentHandler *handler.PaymentHandler,
	settingsHandler *handler.SettingsHandler,
	websocketHandler *handler.WebSocketHandler,
	apiKeyRepo *repository.APIKeyRepository,
	cfg *config.Config,
) *Router {
	return &Router{
		imageHandler:     imageHandler,
		articleHandler:   articleHandler,
		creditsHandler:   creditsHandler,
		paymentHandler:   paymentHandler,
		settingsHandler:  settingsHandler,
		websocketHandler: websocketHandler,
		apiKeyRepo:       apiKeyRepo,
		cfg:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	api := engine.Group("/api/v1")
	{
		// WebSocket
		api.GET("/ws", r.websocketHandler.Handle)

		// 公开接口
		api.GET("/payment/plans", r.paymentHandler.ListPlans)
		api.GET("/images/providers", r.imageHandler.Providers)

		// 生成接口同时接受 JWT 和 API Key
		generation := api.Group("")
		generation.Use(middleware.AuthOrAPIKey(r.cfg.JWT.Secret, r.apiKeyRepo))
		{
			images := generation.Group("/images")
			{
				images.POST("/generate", r.imageHandler.Generate)
				images.GET("/estimate", r.imageHandler.Estimate)
				images.GET("", r.imageHandler.List)
			}

			articles := generation.Group("/articles")
			{
				articles.POST("/generate", r.articleHandler.Generate)
				articles.GET("", r.articleHandler.List)
				articles.GET("/:id/job-status", r.articleHandler.GetJobStatus)
				articles.GET("/:id", r.articleHandler.Get)
				articles.DELETE("/:id", r.articleHandler.Delete)
			}
		}

		// 账户相关，仅限 JWT
		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			credits := authenticated.Group("/credits")
			{
				credits.GET("/balance", r.creditsHandler.GetBalance)
				credits.GET("/stats", r.creditsHandler.GetStats)
				credits.GET("/transactions", r.creditsHandler.ListTransactions)
			}

			payment := authenticated.Group("/payment")
			{
				payment.GET("/subscription", r.paymentHandler.GetSubscription)
				payment.POST("/create-intent", r.paymentHandler.CreateIntent)
				payment.POST("/buy-credits", r.paymentHandler.BuyCredits)
				payment.POST("/process", r.paymentHandler.ProcessPayment)
			}

			settings := authenticated.Group("/settings")
			{
				settings.GET("/preferences", r.settingsHandler.GetPreferences)
				settings.PUT("/preferences", r.settingsHandler.UpdatePreferences)
				settings.GET("/notifications", r.settingsHandler.GetNotifications)
				settings.PUT("/notifications", r.settingsHandler.UpdateNotifications)
				settings.POST("/api-keys", r.settingsHandler.CreateAPIKey)
				settings.GET("/api-keys", r.settingsHandler.ListAPIKeys)
				settings.DELETE("/api-keys/:id", r.settingsHandler.DeleteAPIKey)
			}
		}
	}

	return engine
}
