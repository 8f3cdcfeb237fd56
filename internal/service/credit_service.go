package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/inkwell-ai/inkwell-server/internal/model"
	"github.com/inkwell-ai/inkwell-server/internal/model/dto"
	"github.com/inkwell-ai/inkwell-server/internal/repository"
)

var ErrUserNotFound = errors.New("用户不存在")

// BalanceAlerter 余额预警通知，由 email.Service 实现
type BalanceAlerter interface {
	SendLowBalanceWarning(to string, credits int64) error
}

// InsufficientCreditsError 余额不足，携带所需和可用积分数
type InsufficientCreditsError struct {
	Required  int64
	Available int64
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("积分不足：需要 %d，可用 %d", e.Required, e.Available)
}

type CreditService struct {
	creditRepo *repository.CreditRepository
	userRepo   *repository.UserRepository

	alerter             BalanceAlerter
	lowBalanceThreshold int64
}

func NewCreditService(creditRepo *repository.CreditRepository, userRepo *repository.UserRepository, alerter BalanceAlerter, lowBalanceThreshold int64) *CreditService {
	return &CreditService{
		creditRepo:          creditRepo,
		userRepo:            userRepo,
		alerter:             alerter,
		lowBalanceThreshold: lowBalanceThreshold,
	}
}

// GetBalance 获取余额
func (s *CreditService) GetBalance(userID int64) (*dto.BalanceResponse, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &dto.BalanceResponse{
		Credits:         user.Credits,
		ReservedCredits: user.ReservedCredits,
	}, nil
}

// Charge 扣减积分并记流水。余额不足时返回 *InsufficientCreditsError
func (s *CreditService) Charge(userID, cost int64, feature, description string) error {
	err := s.creditRepo.DebitForUsage(userID, cost, feature, description)
	if err == nil {
		s.maybeWarnLowBalance(userID)
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	if errors.Is(err, repository.ErrInsufficientCredits) {
		user, uerr := s.userRepo.GetByID(userID)
		if uerr != nil {
			return err
		}
		return &InsufficientCreditsError{Required: cost, Available: user.Credits}
	}
	return err
}

// maybeWarnLowBalance 扣减后余额低于阈值时发送预警邮件，发送失败只记日志
func (s *CreditService) maybeWarnLowBalance(userID int64) {
	if s.alerter == nil || s.lowBalanceThreshold <= 0 {
		return
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil || user.Credits >= s.lowBalanceThreshold || user.Email == nil {
		return
	}

	if err := s.alerter.SendLowBalanceWarning(*user.Email, user.Credits); err != nil {
		log.Printf("Failed to send low balance warning to user %d: %v", userID, err)
	}
}

// Refund 退还积分并记退款流水
func (s *CreditService) Refund(userID, amount int64, feature, description string) error {
	return s.creditRepo.Credit(userID, amount, model.TxTypeRefund, feature, description, nil)
}

// Hold 预留积分，用于异步任务。余额不足时返回 *InsufficientCreditsError
func (s *CreditService) Hold(userID, cost int64) error {
	err := s.creditRepo.Reserve(userID, cost)
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrInsufficientCredits) {
		user, uerr := s.userRepo.GetByID(userID)
		if uerr != nil {
			if errors.Is(uerr, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		return &InsufficientCreditsError{Required: cost, Available: user.Credits}
	}
	return err
}

// SettleHold 结算预留积分
func (s *CreditService) SettleHold(userID, cost int64, feature, description string) error {
	return s.creditRepo.Settle(userID, cost, feature, description)
}

// ReleaseHold 释放预留积分
func (s *CreditService) ReleaseHold(userID, cost int64) error {
	return s.creditRepo.Release(userID, cost)
}

// GetStats 积分消费统计
func (s *CreditService) GetStats(userID int64) (*dto.CreditStats, error) {
	if _, err := s.userRepo.GetByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	entries, err := s.creditRepo.ListAllByUser(userID)
	if err != nil {
		return nil, err
	}

	return statsFromEntries(entries, time.Now()), nil
}

// statsFromEntries 根据全量流水算出统计数据。
// 消耗按绝对值累加，按功能分桶，没有功能标签的记入 other
func statsFromEntries(entries []model.CreditTransaction, now time.Time) *dto.CreditStats {
	stats := &dto.CreditStats{
		UsageByFeature: make(map[string]int64),
	}

	for _, e := range entries {
		if e.Amount < 0 {
			used := -e.Amount
			stats.UsedTotal += used
			if e.CreatedAt.Year() == now.Year() && e.CreatedAt.Month() == now.Month() {
				stats.UsedThisMonth += used
			}

			feature := e.Feature
			if feature == "" {
				feature = model.FeatureOther
			}
			stats.UsageByFeature[feature] += used
			continue
		}

		if e.Type == model.TxTypePurchase {
			stats.PurchasedTotal += e.Amount
		}
	}

	return stats
}

// ListTransactions 分页查询流水
func (s *CreditService) ListTransactions(userID int64, page, pageSize int) ([]dto.TransactionItem, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	entries, total, err := s.creditRepo.ListByUser(userID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	items := make([]dto.TransactionItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, dto.TransactionItem{
			ID:          e.ID,
			Amount:      e.Amount,
			Type:        e.Type,
			Feature:     e.Feature,
			Description: e.Description,
			CreatedAt:   e.CreatedAt.Format(time.RFC3339),
		})
	}
	return items, total, nil
}
