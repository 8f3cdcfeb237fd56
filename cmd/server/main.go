package main

import (
	"context"
	"fmt"
	"log"

	"github.com/inkwell-ai/inkwell-server/config"
	"github.com/inkwell-ai/inkwell-server/internal/api"
	"github.com/inkwell-ai/inkwell-server/internal/api/handler"
	"github.com/inkwell-ai/inkwell-server/internal/database"
	"github.com/inkwell-ai/inkwell-server/internal/pkg/email"
	"github.com/inkwell-ai/inkwell-server/internal/pkg/imagegen"
	"github.com/inkwell-ai/inkwell-server/internal/pkg/oss"
	"github.com/inkwell-ai/inkwell-server/internal/pkg/payment"
	"github.com/inkwell-ai/inkwell-server/internal/pkg/pubsub"
	"github.com/inkwell-ai/inkwell-server/internal/pkg/queue"
	"github.com/inkwell-ai/inkwell-server/internal/pkg/ws"
	"github.com/inkwell-ai/inkwell-server/internal/repository"
	"github.com/inkwell-ai/inkwell-server/internal/service"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	log.Println("Database connected")

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	// 初始化 OSS
	ossClient, err := oss.NewClient(&cfg.OSS)
	if err != nil {
		log.Fatalf("Failed to init OSS client: %v", err)
	}
	log.Println("OSS client initialized")

	// 初始化图片服务商
	registry := imagegen.NewRegistry(cfg.Image.DefaultProvider)
	if key := cfg.Image.Providers["openai"]; key != "" {
		registry.Register(imagegen.NewOpenAIProvider(key, ossClient))
	}
	if key := cfg.Image.Providers["stability"]; key != "" {
		registry.Register(imagegen.NewStabilityProvider(key, cfg.Image.StabilityEngine, ossClient))
	}
	log.Printf("Image providers registered: %v", registry.Names())

	// 初始化 Queue 和 WebSocket Hub
	jobQueue := queue.NewQueue(rdb, cfg.Queue.ArticleQueue)
	wsHub := ws.NewHub()

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	creditRepo := repository.NewCreditRepository(db)
	imageRepo := repository.NewImageRepository(db)
	articleRepo := repository.NewArticleRepository(db)
	jobRepo := repository.NewJobRepository(db)
	apiKeyRepo := repository.NewAPIKeyRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// 初始化 Service
	mailer := email.NewService(&cfg.Email)
	creditService := service.NewCreditService(creditRepo, userRepo, mailer, cfg.Credits.LowBalanceThreshold)
	imageService := service.NewImageService(registry, imageRepo, creditService, cfg)
	articleService := service.NewArticleService(articleRepo, jobRepo, creditService, jobQueue, cfg)
	paymentService := service.NewPaymentService(
		payment.NewStripeGateway(cfg.Stripe.SecretKey),
		userRepo, creditRepo, settingsRepo,
		mailer,
		cfg,
	)
	settingsService := service.NewSettingsService(settingsRepo, apiKeyRepo)

	// 初始化 Handler
	imageHandler := handler.NewImageHandler(imageService)
	articleHandler := handler.NewArticleHandler(articleService)
	creditsHandler := handler.NewCreditsHandler(creditService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	websocketHandler := handler.NewWebSocketHandler(wsHub, cfg.JWT.Secret)

	// 订阅任务进度，转发到用户的 WebSocket 连接
	go func() {
		subscriber := pubsub.NewSubscriber(rdb)
		err := subscriber.Subscribe(context.Background(), func(msg *pubsub.ProgressMessage) {
			if !wsHub.IsOnline(msg.UserID) {
				return
			}
			if err := wsHub.SendToUser(msg.UserID, &ws.Message{
				Type: msg.Type,
				Data: msg,
			}); err != nil {
				log.Printf("Failed to push progress to user %d: %v", msg.UserID, err)
			}
		})
		if err != nil {
			log.Printf("Progress subscriber stopped: %v", err)
		}
	}()

	// 初始化 Router
	router := api.NewRouter(
		imageHandler,
		articleHandler,
		creditsHandler,
		paymentHandler,
		settingsHandler,
		websocketHandler,
		apiKeyRepo,
		cfg,
	)
	engine := router.Setup()

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
