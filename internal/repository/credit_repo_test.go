package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/inkwell-ai/inkwell-server/internal/model"
	"github.com/inkwell-ai/inkwell-server/internal/testutil"
)

func TestCreditRepository_DebitForUsage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCreditRepository(db)

	user := testutil.TestUser(t, db, testutil.WithCredits(100))

	err := repo.DebitForUsage(user.ID, 30, model.FeatureImageGeneration, "生成 1 张图片")
	require.NoError(t, err)

	var updated model.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.Equal(t, int64(70), updated.Credits)

	// 扣减和流水在同一事务内落库
	var entries []model.CreditTransaction
	require.NoError(t, db.Where("user_id = ?", user.ID).Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(-30), entries[0].Amount)
	assert.Equal(t, model.TxTypeUsage, entries[0].Type)
	assert.Equal(t, model.FeatureImageGeneration, entries[0].Feature)
}

func TestCreditRepository_DebitForUsage_Insufficient(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCreditRepository(db)

	user := testutil.TestUser(t, db, testutil.WithCredits(20))

	err := repo.DebitForUsage(user.ID, 50, model.FeatureImageGeneration, "生成 1 张图片")
	assert.ErrorIs(t, err, ErrInsufficientCredits)

	// 余额不变，也不能留下流水
	var updated model.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.Equal(t, int64(20), updated.Credits)

	var count int64
	require.NoError(t, db.Model(&model.CreditTransaction{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreditRepository_DebitForUsage_UserNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCreditRepository(db)

	err := repo.DebitForUsage(99999, 10, model.FeatureImageGeneration, "test")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCreditRepository_DebitForUsage_InvalidAmount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCreditRepository(db)

	user := testutil.TestUser(t, db)

	assert.ErrorIs(t, repo.DebitForUsage(user.ID, 0, "", ""), ErrInvalidAmount)
	assert.ErrorIs(t, repo.DebitForUsage(user.ID, -5, "", ""), ErrInvalidAmount)
}

func TestCreditRepository_Credit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCreditRepository(db)

	user := testutil.TestUser(t, db, testutil.WithCredits(50))

	err := repo.Credit(user.ID, 500, model.TxTypePurchase, "", "购买积分包：标准包", nil)
	require.NoError(t, err)

	var updated model.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.Equal(t, int64(550), updated.Credits)
}

func TestCreditRepository_Credit_DuplicateReference(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCreditRepository(db)

	user := testutil.TestUser(t, db, testutil.WithCredits(0))

	ref := "pi_test_123"
	require.NoError(t, repo.Credit(user.ID, 300, model.TxTypePurchase, "", "购买积分包", &ref))

	// 相同幂等键第二次入账被唯一索引挡掉，余额不变
	err := repo.Credit(user.ID, 300, model.TxTypePurchase, "", "购买积分包", &ref)
	assert.Error(t, err)

	var updated model.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.Equal(t, int64(300), updated.Credits)
}

func TestCreditRepository_ExistsReference(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCreditRepository(db)

	user := testutil.TestUser(t, db)

	ref := "pi_exists_check"
	require.NoError(t, repo.Credit(user.ID, 100, model.TxTypePurchase, "", "test", &ref))

	exists, err := repo.ExistsReference(ref)
	require.NoError(t, err)
	assert.True(t, exists)

	notExists, err := repo.ExistsReference("pi_never_seen")
	require.NoError(t, err)
	assert.False(t, notExists)
}

func TestCreditRepository_ReserveSettle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCreditRepository(db)

	user := testutil.TestUser(t, db, testutil.WithCredits(100))

	require.NoError(t, repo.Reserve(user.ID, 40))

	var held model.User
	require.NoError(t, db.First(&held, user.ID).Error)
	assert.Equal(t, int64(60), held.Credits)
	assert.Equal(t, int64(40), held.ReservedCredits)

	// 预留阶段不记流水
	var count int64
	require.NoError(t, db.Model(&model.CreditTransaction{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Zero(t, count)

	require.NoError(t, repo.Settle(user.ID, 40, model.FeatureArticleGeneration, "生成文章"))

	var settled model.User
	require.NoError(t, db.First(&settled, user.ID).Error)
	assert.Equal(t, int64(60), settled.Credits)
	assert.Zero(t, settled.ReservedCredits)

	var entries []model.CreditTransaction
	require.NoError(t, db.Where("user_id = ?", user.ID).Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(-40), entries[0].Amount)
	assert.Equal(t, model.TxTypeUsage, entries[0].Type)
}

func TestCreditRepository_ReserveRelease(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCreditRepository(db)

	user := testutil.TestUser(t, db, testutil.WithCredits(100))

	require.NoError(t, repo.Reserve(user.ID, 40))
	require.NoError(t, repo.Release(user.ID, 40))

	var updated model.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.Equal(t, int64(100), updated.Credits)
	assert.Zero(t, updated.ReservedCredits)

	var count int64
	require.NoError(t, db.Model(&model.CreditTransaction{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreditRepository_Reserve_Insufficient(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCreditRepository(db)

	user := testutil.TestUser(t, db, testutil.WithCredits(30))

	err := repo.Reserve(user.ID, 40)
	assert.ErrorIs(t, err, ErrInsufficientCredits)
}

func TestCreditRepository_Settle_ExceedsReserved(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCreditRepository(db)

	user := testutil.TestUser(t, db, testutil.WithCredits(100))
	require.NoError(t, repo.Reserve(user.ID, 20))

	err := repo.Settle(user.ID, 40, model.FeatureArticleGeneration, "生成文章")
	assert.ErrorIs(t, err, ErrInsufficientReserved)
}

func TestCreditRepository_ListByUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCreditRepository(db)

	user := testutil.TestUser(t, db, testutil.WithCredits(1000))
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.DebitForUsage(user.ID, 10, model.FeatureImageGeneration, "生成图片"))
	}

	entries, total, err := repo.ListByUser(user.ID, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, entries, 3)

	rest, _, err := repo.ListByUser(user.ID, 2, 3)
	require.NoError(t, err)
	assert.Len(t, rest, 2)
}
