package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"studysync-backend/internal/models"
)

const maxRetries = 3

// AssistantReplier posts the assistant's answer for a queued mention.
type AssistantReplier interface {
	ReplyInGroup(ctx context.Context, job *models.Job) error
}

type Pool struct {
	queue       Queue
	assistant   AssistantReplier
	logger      *zap.Logger
	workerCount int
	pollTimeout time.Duration
	jobTimeout  time.Duration
	backoff     func(attempt int) time.Duration
	stopChan    chan struct{}
	wg          sync.WaitGroup
}

func NewPool(queue Queue, assistant AssistantReplier, workerCount int, jobTimeout time.Duration, logger *zap.Logger) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}
	return &Pool{
		queue:       queue,
		assistant:   assistant,
		logger:      logger,
		workerCount: workerCount,
		pollTimeout: 5 * time.Second,
		jobTimeout:  jobTimeout,
		backoff: func(attempt int) time.Duration {
			return time.Duration(1<<uint(attempt)) * time.Second
		},
		stopChan: make(chan struct{}),
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	p.logger.Info("worker pool started", zap.Int("workers", p.workerCount))
}

// Stop signals the workers and waits for in-flight jobs to finish.
func (p *Pool) Stop() {
	close(p.stopChan)
	p.wg.Wait()
	p.logger.Info("worker pool stopped")
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-p.stopChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	for {
		select {
		case <-p.stopChan:
			p.logger.Debug("worker shutting down", zap.Int("worker", id))
			return
		default:
		}

		job, err := p.queue.Dequeue(ctx, p.pollTimeout)
		if err != nil {
			if ctx.Err() == nil {
				p.logger.Warn("dequeue failed", zap.Int("worker", id), zap.Error(err))
				time.Sleep(time.Second)
			}
			continue
		}
		if job == nil {
			continue
		}

		p.run(id, job)
	}
}

func (p *Pool) run(id int, job *models.Job) {
	ctx := context.Background()

	locked, err := p.queue.Claim(ctx, job.ID)
	if err != nil || !locked {
		return // Another worker has this job
	}

	p.logger.Info("processing job",
		zap.Int("worker", id),
		zap.String("job_id", job.ID),
		zap.String("type", job.Type))

	jobCtx := ctx
	if p.jobTimeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, p.jobTimeout)
		defer cancel()
	}

	err = p.process(jobCtx, job)
	// Release before a retry can be requeued.
	p.queue.Release(ctx, job.ID)

	if err != nil {
		p.handleFailure(job, err)
		return
	}
	p.logger.Info("job completed", zap.String("job_id", job.ID))
}

func (p *Pool) process(ctx context.Context, job *models.Job) error {
	switch job.Type {
	case models.JobAssistantReply:
		return p.assistant.ReplyInGroup(ctx, job)
	default:
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}

func (p *Pool) handleFailure(job *models.Job, err error) {
	job.RetryCount++

	if job.RetryCount >= maxRetries {
		p.logger.Error("job failed permanently",
			zap.String("job_id", job.ID),
			zap.Int("attempts", job.RetryCount),
			zap.Error(err))
		return
	}

	backoff := p.backoff(job.RetryCount)
	p.logger.Warn("job failed, retrying",
		zap.String("job_id", job.ID),
		zap.Int("attempt", job.RetryCount),
		zap.Duration("backoff", backoff),
		zap.Error(err))

	retry := *job
	time.AfterFunc(backoff, func() {
		if err := p.queue.Enqueue(context.Background(), &retry); err != nil {
			p.logger.Error("failed to requeue job", zap.String("job_id", retry.ID), zap.Error(err))
		}
	})
}
