package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/inkwell-ai/inkwell-server/config"
	"github.com/inkwell-ai/inkwell-server/internal/database"
	"github.com/inkwell-ai/inkwell-server/internal/pkg/articlegen"
	"github.com/inkwell-ai/inkwell-server/internal/pkg/cron"
	"github.com/inkwell-ai/inkwell-server/internal/pkg/email"
	"github.com/inkwell-ai/inkwell-server/internal/pkg/payment"
	"github.com/inkwell-ai/inkwell-server/internal/pkg/pubsub"
	"github.com/inkwell-ai/inkwell-server/internal/pkg/queue"
	"github.com/inkwell-ai/inkwell-server/internal/repository"
	"github.com/inkwell-ai/inkwell-server/internal/service"
	"github.com/inkwell-ai/inkwell-server/internal/worker"
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

	// 初始化 Queue 和 Pub/Sub
	jobQueue := queue.NewQueue(rdb, cfg.Queue.ArticleQueue)
	publisher := pubsub.NewPublisher(rdb)

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	creditRepo := repository.NewCreditRepository(db)
	articleRepo := repository.NewArticleRepository(db)
	jobRepo := repository.NewJobRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// 文章生成器
	writer := articlegen.NewWriter(cfg.Article.APIKey, cfg.Article.Model)

	// 创建任务处理器
	processor := worker.NewProcessor(jobRepo, articleRepo, creditRepo, writer, publisher)

	// 创建 context 用于优雅关闭
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 监听退出信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Received shutdown signal")
		cancel()
	}()

	// 每日订阅续期
	paymentService := service.NewPaymentService(
		payment.NewStripeGateway(cfg.Stripe.SecretKey),
		userRepo, creditRepo, settingsRepo,
		email.NewService(&cfg.Email),
		cfg,
	)
	go cron.Daily(ctx, "subscription-renewal", func(ctx context.Context, now time.Time) error {
		renewed, err := paymentService.RenewDueSubscriptions(ctx, now)
		if err != nil {
			return err
		}
		if renewed > 0 {
			log.Printf("Renewed %d subscriptions", renewed)
		}
		return nil
	})

	log.Printf("Worker started, max workers: %d", cfg.Queue.MaxWorkers)

	// 启动 worker 循环
	var wg sync.WaitGroup
	for i := 0; i < cfg.Queue.MaxWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			processor.Run(ctx, jobQueue)
			log.Printf("Worker %d shutting down", workerID)
		}(i)
	}

	wg.Wait()
	log.Println("Worker shutdown complete")
}
