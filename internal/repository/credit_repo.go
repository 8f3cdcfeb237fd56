package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/inkwell-ai/inkwell-server/internal/model"
)

var (
	// ErrInsufficientCredits 余额不足，条件更新未命中
	ErrInsufficientCredits = errors.New("insufficient credits")
	// ErrInsufficientReserved 预留额度不足
	ErrInsufficientReserved = errors.New("insufficient reserved credits")
	// ErrInvalidAmount 金额必须为正数
	ErrInvalidAmount = errors.New("amount must be positive")
)

// CreditRepository 余额变更和流水必须落在同一个事务里，
// 扣减一律用条件更新，余额不会被并发请求扣成负数
type CreditRepository struct {
	db *gorm.DB
}

func NewCreditRepository(db *gorm.DB) *CreditRepository {
	return &CreditRepository{db: db}
}

// DebitForUsage 原子扣减余额并记一条消耗流水。
// 余额不足时返回 ErrInsufficientCredits，不产生任何变更
func (r *CreditRepository) DebitForUsage(userID, cost int64, feature, description string) error {
	if cost <= 0 {
		return ErrInvalidAmount
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.User{}).
			Where("id = ? AND credits >= ?", userID, cost).
			Update("credits", gorm.Expr("credits - ?", cost))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&model.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return gorm.ErrRecordNotFound
			}
			return ErrInsufficientCredits
		}

		entry := &model.CreditTransaction{
			UserID:      userID,
			Amount:      -cost,
			Type:        model.TxTypeUsage,
			Feature:     feature,
			Description: description,
		}
		return tx.Create(entry).Error
	})
}

// Credit 增加余额并记一条流水。reference 非空时作为幂等键，
// 重复入账返回 gorm.ErrDuplicatedKey 级别的错误由调用方识别
func (r *CreditRepository) Credit(userID, amount int64, txType, feature, description string, reference *string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		entry := &model.CreditTransaction{
			UserID:      userID,
			Amount:      amount,
			Type:        txType,
			Feature:     feature,
			Description: description,
			Reference:   reference,
		}
		// 先写流水，reference 唯一索引挡掉重复入账
		if err := tx.Create(entry).Error; err != nil {
			return err
		}

		res := tx.Model(&model.User{}).
			Where("id = ?", userID).
			Update("credits", gorm.Expr("credits + ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// Reserve 预留积分：可用余额划转到预留额度，不记流水。
// 余额不足时返回 ErrInsufficientCredits
func (r *CreditRepository) Reserve(userID, cost int64) error {
	if cost <= 0 {
		return ErrInvalidAmount
	}

	res := r.db.Model(&model.User{}).
		Where("id = ? AND credits >= ?", userID, cost).
		Updates(map[string]interface{}{
			"credits":          gorm.Expr("credits - ?", cost),
			"reserved_credits": gorm.Expr("reserved_credits + ?", cost),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientCredits
	}
	return nil
}

// Settle 结算预留积分：扣掉预留额度并记消耗流水
func (r *CreditRepository) Settle(userID, cost int64, feature, description string) error {
	if cost <= 0 {
		return ErrInvalidAmount
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.User{}).
			Where("id = ? AND reserved_credits >= ?", userID, cost).
			Update("reserved_credits", gorm.Expr("reserved_credits - ?", cost))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientReserved
		}

		entry := &model.CreditTransaction{
			UserID:      userID,
			Amount:      -cost,
			Type:        model.TxTypeUsage,
			Feature:     feature,
			Description: description,
		}
		return tx.Create(entry).Error
	})
}

// Release 释放预留积分：生成失败时退回可用余额，不记流水
func (r *CreditRepository) Release(userID, cost int64) error {
	if cost <= 0 {
		return ErrInvalidAmount
	}

	res := r.db.Model(&model.User{}).
		Where("id = ? AND reserved_credits >= ?", userID, cost).
		Updates(map[string]interface{}{
			"credits":          gorm.Expr("credits + ?", cost),
			"reserved_credits": gorm.Expr("reserved_credits - ?", cost),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientReserved
	}
	return nil
}

// ListByUser 分页查询流水，按创建时间倒序
func (r *CreditRepository) ListByUser(userID int64, page, pageSize int) ([]model.CreditTransaction, int64, error) {
	var total int64
	if err := r.db.Model(&model.CreditTransaction{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []model.CreditTransaction
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// ListAllByUser 查询用户全部流水，按创建时间正序，用于统计
func (r *CreditRepository) ListAllByUser(userID int64) ([]model.CreditTransaction, error) {
	var entries []model.CreditTransaction
	err := r.db.Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ExistsReference 检查幂等键是否已入账
func (r *CreditRepository) ExistsReference(reference string) (bool, error) {
	var count int64
	err := r.db.Model(&model.CreditTransaction{}).Where("reference = ?", reference).Count(&count).Error
	return count > 0, err
}
