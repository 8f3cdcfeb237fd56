package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/inkwell-ai/inkwell-server/internal/model"
	"github.com/inkwell-ai/inkwell-server/internal/pkg/articlegen"
	"github.com/inkwell-ai/inkwell-server/internal/pkg/pubsub"
	"github.com/inkwell-ai/inkwell-server/internal/pkg/queue"
	"github.com/inkwell-ai/inkwell-server/internal/repository"
	"github.com/inkwell-ai/inkwell-server/internal/testutil"
)

type fakeWriter struct {
	result *articlegen.WriteResult
	err    error
}

func (w *fakeWriter) Write(ctx context.Context, req *articlegen.WriteRequest) (*articlegen.WriteResult, error) {
	if w.err != nil {
		return nil, w.err
	}
	return w.result, nil
}

func setupProcessor(t *testing.T, writer ArticleWriter) (*Processor, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	processor := NewProcessor(
		repository.NewJobRepository(db),
		repository.NewArticleRepository(db),
		repository.NewCreditRepository(db),
		writer,
		pubsub.NewPublisher(client),
	)
	return processor, db
}

func TestProcessor_Process_Success(t *testing.T) {
	writer := &fakeWriter{
		result: &articlegen.WriteResult{
			Title:   "远程办公指南",
			Content: "## 引言\n远程办公已经成为常态……",
			Model:   "gpt-4o-mini",
		},
	}
	processor, db := setupProcessor(t, writer)

	// 用户有 60 可用 + 40 预留，模拟提交任务后的状态
	user := testutil.TestUser(t, db, testutil.WithCredits(60), testutil.WithReserved(40))
	article := testutil.TestArticle(t, db, user.ID)
	job := testutil.TestJob(t, db, user.ID, article.ID, 40, "queued")

	err := processor.Process(context.Background(), &queue.JobMessage{
		JobID:     job.ID,
		ArticleID: article.ID,
		UserID:    user.ID,
	})
	require.NoError(t, err)

	// 文章已保存
	got, err := repository.NewArticleRepository(db).GetByID(article.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", got.Status)
	assert.Equal(t, "远程办公指南", got.Title)
	assert.NotEmpty(t, got.Content)
	assert.Equal(t, int64(40), got.CreditsCharged)

	// 预留积分已结算并产生消耗流水
	gotUser, err := repository.NewUserRepository(db).GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(60), gotUser.Credits)
	assert.Equal(t, int64(0), gotUser.ReservedCredits)

	entries, total, err := repository.NewCreditRepository(db).ListByUser(user.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, int64(-40), entries[0].Amount)
	assert.Equal(t, model.FeatureArticleGeneration, entries[0].Feature)

	// Job 已完成
	gotJob, err := repository.NewJobRepository(db).GetByID(job.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", gotJob.Status)
	assert.NotNil(t, gotJob.CompletedAt)
}

func TestProcessor_Process_WriterFails_ReleasesCredits(t *testing.T) {
	writer := &fakeWriter{err: errors.New("llm unavailable")}
	processor, db := setupProcessor(t, writer)

	user := testutil.TestUser(t, db, testutil.WithCredits(60), testutil.WithReserved(40))
	article := testutil.TestArticle(t, db, user.ID)
	job := testutil.TestJob(t, db, user.ID, article.ID, 40, "queued")

	err := processor.Process(context.Background(), &queue.JobMessage{
		JobID:     job.ID,
		ArticleID: article.ID,
		UserID:    user.ID,
	})
	require.Error(t, err)

	// 文章标记失败
	got, gerr := repository.NewArticleRepository(db).GetByID(article.ID)
	require.NoError(t, gerr)
	assert.Equal(t, "failed", got.Status)
	assert.NotEmpty(t, got.ErrorMessage)

	// 预留积分退回，不记流水
	gotUser, uerr := repository.NewUserRepository(db).GetByID(user.ID)
	require.NoError(t, uerr)
	assert.Equal(t, int64(100), gotUser.Credits)
	assert.Equal(t, int64(0), gotUser.ReservedCredits)

	_, total, lerr := repository.NewCreditRepository(db).ListByUser(user.ID, 1, 10)
	require.NoError(t, lerr)
	assert.Equal(t, int64(0), total)
}

func TestProcessor_Process_MissingJob(t *testing.T) {
	processor, _ := setupProcessor(t, &fakeWriter{})

	err := processor.Process(context.Background(), &queue.JobMessage{JobID: 99999})
	assert.Error(t, err)
}
