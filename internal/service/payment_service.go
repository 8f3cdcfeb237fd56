package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/stripe/stripe-go/v76"
	"gorm.io/gorm"

	"github.com/inkwell-ai/inkwell-server/config"
	"github.com/inkwell-ai/inkwell-server/internal/model"
	"github.com/inkwell-ai/inkwell-server/internal/model/dto"
	"github.com/inkwell-ai/inkwell-server/internal/pkg/payment"
	"github.com/inkwell-ai/inkwell-server/internal/repository"
)

var (
	ErrPlanNotFound            = errors.New("套餐不存在")
	ErrPackNotFound            = errors.New("积分包不存在")
	ErrPaymentNotCompleted     = errors.New("支付尚未完成")
	ErrPaymentAlreadyProcessed = errors.New("该笔支付已入账")
	ErrPaymentMismatch         = errors.New("支付信息不匹配")
)

// Mailer 回执邮件发送，测试中可替换
type Mailer interface {
	SendPaymentReceipt(to, itemName string, amountCents, creditsGranted int64) error
	SendRenewalNotice(to, planName string, credits int64) error
}

type PaymentService struct {
	gateway      payment.Gateway
	userRepo     *repository.UserRepository
	creditRepo   *repository.CreditRepository
	settingsRepo *repository.SettingsRepository
	mailer       Mailer
	cfg          *config.Config
}

func NewPaymentService(gateway payment.Gateway, userRepo *repository.UserRepository, creditRepo *repository.CreditRepository, settingsRepo *repository.SettingsRepository, mailer Mailer, cfg *config.Config) *PaymentService {
	return &PaymentService{
		gateway:      gateway,
		userRepo:     userRepo,
		creditRepo:   creditRepo,
		settingsRepo: settingsRepo,
		mailer:       mailer,
		cfg:          cfg,
	}
}

// ListPlans 套餐列表
func (s *PaymentService) ListPlans() []dto.PlanItem {
	items := make([]dto.PlanItem, 0, len(s.cfg.Plans))
	for _, p := range s.cfg.Plans {
		items = append(items, dto.PlanItem{
			ID:             p.ID,
			Name:           p.Name,
			PriceCents:     p.PriceCents,
			MonthlyCredits: p.MonthlyCredits,
			IsLifetime:     p.IsLifetime,
			Features:       p.Features,
			Popular:        p.ID == config.PopularPlanID,
		})
	}
	return items
}

// GetSubscriptionStatus 订阅状态。终身套餐不返回剩余天数
func (s *PaymentService) GetSubscriptionStatus(userID int64) (*dto.SubscriptionStatus, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	status := &dto.SubscriptionStatus{
		Credits:         user.Credits,
		ReservedCredits: user.ReservedCredits,
	}

	if user.PlanID == nil {
		return status, nil
	}

	status.PlanID = *user.PlanID
	if plan := s.cfg.FindPlan(*user.PlanID); plan != nil {
		status.PlanName = plan.Name
	}

	if user.IsLifetime {
		status.Active = true
		status.IsLifetime = true
		return status, nil
	}

	if user.SubscriptionExpiresAt != nil {
		status.ExpiresAt = user.SubscriptionExpiresAt.Format(time.RFC3339)
		remaining := time.Until(*user.SubscriptionExpiresAt)
		if remaining > 0 {
			status.Active = true
			days := int((remaining + 24*time.Hour - time.Nanosecond) / (24 * time.Hour))
			status.DaysRemaining = &days
		} else {
			zero := 0
			status.DaysRemaining = &zero
		}
	}

	return status, nil
}

// CreateIntent 创建订阅支付意向
func (s *PaymentService) CreateIntent(userID int64, planID string) (*dto.CreateIntentResponse, error) {
	plan := s.cfg.FindPlan(planID)
	if plan == nil {
		return nil, ErrPlanNotFound
	}

	intent, err := s.gateway.CreateIntent(plan.PriceCents, s.cfg.Stripe.Currency, map[string]string{
		"user_id": fmt.Sprintf("%d", userID),
		"kind":    "plan",
		"item_id": plan.ID,
	})
	if err != nil {
		return nil, err
	}

	return &dto.CreateIntentResponse{
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		AmountCents:     plan.PriceCents,
		Currency:        s.cfg.Stripe.Currency,
	}, nil
}

// BuyCredits 创建积分包支付意向
func (s *PaymentService) BuyCredits(userID int64, packID string) (*dto.CreateIntentResponse, error) {
	pack := s.cfg.FindPack(packID)
	if pack == nil {
		return nil, ErrPackNotFound
	}

	intent, err := s.gateway.CreateIntent(pack.PriceCents, s.cfg.Stripe.Currency, map[string]string{
		"user_id": fmt.Sprintf("%d", userID),
		"kind":    "pack",
		"item_id": pack.ID,
	})
	if err != nil {
		return nil, err
	}

	return &dto.CreateIntentResponse{
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		AmountCents:     pack.PriceCents,
		Currency:        s.cfg.Stripe.Currency,
	}, nil
}

// ProcessPayment 确认支付并发放积分/激活订阅。
// 以支付意向 ID 作为幂等键，重复确认不会重复入账
func (s *PaymentService) ProcessPayment(ctx context.Context, userID int64, intentID string) (*dto.ProcessPaymentResponse, error) {
	exists, err := s.creditRepo.ExistsReference(intentID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrPaymentAlreadyProcessed
	}

	intent, err := s.gateway.GetIntent(intentID)
	if err != nil {
		return nil, err
	}
	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		return nil, ErrPaymentNotCompleted
	}
	if intent.Metadata["user_id"] != fmt.Sprintf("%d", userID) {
		return nil, ErrPaymentMismatch
	}

	kind := intent.Metadata["kind"]
	itemID := intent.Metadata["item_id"]

	switch kind {
	case "plan":
		return s.activatePlan(userID, itemID, intentID, intent.Amount)
	case "pack":
		return s.grantPack(userID, itemID, intentID, intent.Amount)
	default:
		return nil, ErrPaymentMismatch
	}
}

func (s *PaymentService) activatePlan(userID int64, planID, intentID string, amountCents int64) (*dto.ProcessPaymentResponse, error) {
	plan := s.cfg.FindPlan(planID)
	if plan == nil {
		return nil, ErrPlanNotFound
	}

	reference := intentID
	description := fmt.Sprintf("订阅套餐：%s", plan.Name)
	if err := s.creditRepo.Credit(userID, plan.MonthlyCredits, model.TxTypePurchase, "", description, &reference); err != nil {
		return nil, err
	}

	now := time.Now()
	var expiresAt *time.Time
	if !plan.IsLifetime {
		exp := now.AddDate(0, 1, 0)
		expiresAt = &exp
	}
	nextGrant := now.AddDate(0, 1, 0)
	if err := s.userRepo.SetSubscription(userID, plan.ID, expiresAt, plan.IsLifetime, nextGrant); err != nil {
		return nil, err
	}

	s.sendReceipt(userID, plan.Name, amountCents, plan.MonthlyCredits)

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	return &dto.ProcessPaymentResponse{
		PlanID:         plan.ID,
		CreditsGranted: plan.MonthlyCredits,
		Credits:        user.Credits,
	}, nil
}

func (s *PaymentService) grantPack(userID int64, packID, intentID string, amountCents int64) (*dto.ProcessPaymentResponse, error) {
	pack := s.cfg.FindPack(packID)
	if pack == nil {
		return nil, ErrPackNotFound
	}

	reference := intentID
	description := fmt.Sprintf("购买积分包：%s", pack.Name)
	if err := s.creditRepo.Credit(userID, pack.Credits, model.TxTypePurchase, "", description, &reference); err != nil {
		return nil, err
	}

	s.sendReceipt(userID, pack.Name, amountCents, pack.Credits)

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	return &dto.ProcessPaymentResponse{
		CreditsGranted: pack.Credits,
		Credits:        user.Credits,
	}, nil
}

// sendReceipt 发送支付回执，用户关闭通知或没有邮箱时跳过。
// 发送失败只记日志，不影响入账
func (s *PaymentService) sendReceipt(userID int64, itemName string, amountCents, credits int64) {
	if s.mailer == nil {
		return
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil || user.Email == nil {
		return
	}
	if !s.receiptsEnabled(userID) {
		return
	}

	if err := s.mailer.SendPaymentReceipt(*user.Email, itemName, amountCents, credits); err != nil {
		log.Printf("发送支付回执失败 user=%d: %v", userID, err)
	}
}

// receiptsEnabled 通知设置里 payment_receipts 显式为 false 才算关闭
func (s *PaymentService) receiptsEnabled(userID int64) bool {
	settings, err := s.settingsRepo.GetByUser(userID)
	if err != nil {
		return true
	}
	if v, ok := settings.Notifications["payment_receipts"]; ok {
		if enabled, ok := v.(bool); ok {
			return enabled
		}
	}
	return true
}

// RenewDueSubscriptions 发放到期订阅的月度积分并推进下次发放时间。
// 幂等键为 renewal:<用户>:<年月>，同一个月重跑不会重复发放
func (s *PaymentService) RenewDueSubscriptions(ctx context.Context, now time.Time) (int, error) {
	users, err := s.userRepo.ListDueForRenewal(now)
	if err != nil {
		return 0, err
	}

	renewed := 0
	for _, user := range users {
		select {
		case <-ctx.Done():
			return renewed, ctx.Err()
		default:
		}

		plan := s.cfg.FindPlan(*user.PlanID)
		if plan == nil {
			log.Printf("用户 %d 的套餐 %s 不在配置中，跳过发放", user.ID, *user.PlanID)
			continue
		}

		reference := fmt.Sprintf("renewal:%d:%s", user.ID, now.Format("2006-01"))
		description := fmt.Sprintf("月度积分发放：%s", plan.Name)
		err := s.creditRepo.Credit(user.ID, plan.MonthlyCredits, model.TxTypePurchase, "", description, &reference)
		if err != nil {
			log.Printf("用户 %d 月度发放失败: %v", user.ID, err)
			continue
		}

		if err := s.userRepo.AdvanceGrantTime(user.ID, now.AddDate(0, 1, 0)); err != nil {
			log.Printf("用户 %d 推进发放时间失败: %v", user.ID, err)
			continue
		}

		if s.mailer != nil && user.Email != nil && s.receiptsEnabled(user.ID) {
			if err := s.mailer.SendRenewalNotice(*user.Email, plan.Name, plan.MonthlyCredits); err != nil {
				log.Printf("用户 %d 续订通知发送失败: %v", user.ID, err)
			}
		}

		renewed++
	}

	return renewed, nil
}
