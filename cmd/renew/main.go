package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/inkwell-ai/inkwell-server/config"
	"github.com/inkwell-ai/inkwell-server/internal/database"
	"github.com/inkwell-ai/inkwell-server/internal/pkg/email"
	"github.com/inkwell-ai/inkwell-server/internal/pkg/payment"
	"github.com/inkwell-ai/inkwell-server/internal/repository"
	"github.com/inkwell-ai/inkwell-server/internal/service"
)

var (
	dryRun  = flag.Bool("dry-run", false, "Only list subscriptions due for renewal, don't grant credits")
	timeout = flag.Int("timeout", 300, "Seconds to wait before aborting")
)

func main() {
	flag.Parse()

	log.Println("🔄 Starting subscription renewal...")
	log.Printf("Mode: dry-run=%v", *dryRun)

	// 加载配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 连接数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(*timeout)*time.Second)
	defer cancel()

	userRepo := repository.NewUserRepository(db)
	now := time.Now().UTC()

	if *dryRun {
		users, err := userRepo.ListDueForRenewal(now)
		if err != nil {
			log.Fatalf("Failed to query due subscriptions: %v", err)
		}
		for _, u := range users {
			if u.PlanID == nil {
				continue
			}
			plan := cfg.FindPlan(*u.PlanID)
			if plan == nil {
				log.Printf("  - user %d: unknown plan %q, skipping", u.ID, *u.PlanID)
				continue
			}
			log.Printf("  - user %d: plan %s, +%d credits", u.ID, plan.Name, plan.MonthlyCredits)
		}
		log.Printf("\n⚠️  DRY RUN MODE - %d subscriptions due, no credits were granted", len(users))
		log.Println("   Run without -dry-run to apply")
		return
	}

	creditRepo := repository.NewCreditRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	paymentService := service.NewPaymentService(
		payment.NewStripeGateway(cfg.Stripe.SecretKey),
		userRepo, creditRepo, settingsRepo,
		email.NewService(&cfg.Email),
		cfg,
	)

	renewed, err := paymentService.RenewDueSubscriptions(ctx, now)
	if err != nil {
		log.Fatalf("Renewal failed: %v", err)
	}

	log.Printf("\n✅ Renewal completed, %d subscriptions renewed", renewed)
}
