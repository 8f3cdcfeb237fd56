package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/inkwell-ai/inkwell-server/internal/model"
	"github.com/inkwell-ai/inkwell-server/internal/pkg/articlegen"
	"github.com/inkwell-ai/inkwell-server/internal/pkg/pubsub"
	"github.com/inkwell-ai/inkwell-server/internal/pkg/queue"
	"github.com/inkwell-ai/inkwell-server/internal/repository"
)

// ArticleWriter 文章生成接口，测试中可替换
type ArticleWriter interface {
	Write(ctx context.Context, req *articlegen.WriteRequest) (*articlegen.WriteResult, error)
}

// Processor 文章生成任务处理器
type Processor struct {
	jobRepo     *repository.JobRepository
	articleRepo *repository.ArticleRepository
	creditRepo  *repository.CreditRepository
	writer      ArticleWriter
	publisher   *pubsub.Publisher
}

// NewProcessor 创建任务处理器
func NewProcessor(
	jobRepo *repository.JobRepository,
	articleRepo *repository.ArticleRepository,
	creditRepo *repository.CreditRepository,
	writer ArticleWriter,
	publisher *pubsub.Publisher,
) *Processor {
	return &Processor{
		jobRepo:     jobRepo,
		articleRepo: articleRepo,
		creditRepo:  creditRepo,
		writer:      writer,
		publisher:   publisher,
	}
}

// Process 处理文章生成任务。成功时结算预留积分，失败时释放
func (p *Processor) Process(ctx context.Context, msg *queue.JobMessage) error {
	job, err := p.jobRepo.GetByID(msg.JobID)
	if err != nil {
		return fmt.Errorf("failed to get job: %w", err)
	}

	article, err := p.articleRepo.GetByID(msg.ArticleID)
	if err != nil {
		return fmt.Errorf("failed to get article: %w", err)
	}

	// 更新状态为处理中
	now := time.Now()
	job.Status = "processing"
	job.StartedAt = &now
	p.jobRepo.Update(job)
	p.articleRepo.UpdateStatus(article.ID, "generating")

	publishProgress := func(step, status string, errMsg string) {
		p.publisher.PublishProgress(ctx, &pubsub.ProgressMessage{
			UserID:    msg.UserID,
			ArticleID: msg.ArticleID,
			JobID:     msg.JobID,
			Status:    status,
			Step:      step,
			Error:     errMsg,
		})
	}

	settled := false
	handleError := func(step string, err error) error {
		errMsg := err.Error()
		job.Status = "failed"
		job.ErrorMessage = errMsg
		job.CurrentStep = step
		completedAt := time.Now()
		job.CompletedAt = &completedAt
		job.ElapsedSeconds = int(completedAt.Sub(*job.StartedAt).Seconds())
		p.jobRepo.Update(job)

		article.Status = "failed"
		article.ErrorMessage = errMsg
		p.articleRepo.Update(article)

		// 预留积分退回余额，已结算的不再退
		if !settled {
			if rerr := p.creditRepo.Release(msg.UserID, job.Cost); rerr != nil {
				log.Printf("Job %d: failed to release credits: %v", job.ID, rerr)
			}
		}

		publishProgress(step, "failed", errMsg)
		return err
	}

	// Step 1: 生成文章
	log.Printf("Job %d: writing article for topic %q", job.ID, article.Topic)
	job.CurrentStep = "正在生成文章"
	p.jobRepo.Update(job)
	publishProgress(pubsub.StepWriting, "processing", "")

	result, err := p.writer.Write(ctx, &articlegen.WriteRequest{
		Topic:    article.Topic,
		Keywords: article.Keywords,
		Tone:     article.Tone,
		Length:   article.Length,
	})
	if err != nil {
		return handleError(pubsub.StepWriting, fmt.Errorf("generation failed: %w", err))
	}

	// Step 2: 保存结果并结算积分
	log.Printf("Job %d: saving article", job.ID)
	job.CurrentStep = "正在保存结果"
	p.jobRepo.Update(job)
	publishProgress(pubsub.StepSaving, "processing", "")

	description := fmt.Sprintf("生成文章：%s", article.Topic)
	if err := p.creditRepo.Settle(msg.UserID, job.Cost, model.FeatureArticleGeneration, description); err != nil {
		return handleError(pubsub.StepSaving, fmt.Errorf("failed to settle credits: %w", err))
	}
	settled = true

	article.Title = result.Title
	article.Content = result.Content
	article.Model = result.Model
	article.Status = "completed"
	article.CreditsCharged = job.Cost
	if err := p.articleRepo.Update(article); err != nil {
		return handleError(pubsub.StepDone, fmt.Errorf("failed to update article: %w", err))
	}

	// 更新 Job
	job.Status = "completed"
	job.CurrentStep = "生成完成"
	completedAt := time.Now()
	job.CompletedAt = &completedAt
	job.ElapsedSeconds = int(completedAt.Sub(*job.StartedAt).Seconds())
	p.jobRepo.Update(job)

	publishProgress(pubsub.StepDone, "completed", "")

	log.Printf("Job %d: completed in %d seconds, %d chars",
		job.ID, job.ElapsedSeconds, len(result.Content))

	return nil
}

// Run 循环消费队列直到 ctx 取消
func (p *Processor) Run(ctx context.Context, q *queue.Queue) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		msg, err := q.Pop(ctx, 5*time.Second)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("Failed to pop job: %v", err)
			time.Sleep(time.Second)
			continue
		}
		if msg == nil {
			continue
		}

		if err := p.Process(ctx, msg); err != nil {
			log.Printf("Job %d failed: %v", msg.JobID, err)
		}
	}
}
