package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"studysync-backend/internal/models"
)

// Queue is the job transport between the API and the worker pool.
type Queue interface {
	Enqueue(ctx context.Context, job *models.Job) error
	// Dequeue waits up to timeout for a job. It returns nil, nil on timeout.
	Dequeue(ctx context.Context, timeout time.Duration) (*models.Job, error)
	// Claim takes an exclusive lock on a job; false means another worker has it.
	Claim(ctx context.Context, jobID string) (bool, error)
	Release(ctx context.Context, jobID string)
}

func queueName(jobType string) string {
	return "queue:" + jobType
}

type RedisQueue struct {
	client  *redis.Client
	lockTTL time.Duration
}

func NewRedisQueue(client *redis.Client) *RedisQueue {
	return &RedisQueue{client: client, lockTTL: 5 * time.Minute}
}

func (q *RedisQueue) Enqueue(ctx context.Context, job *models.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode job: %w", err)
	}
	return q.client.LPush(ctx, queueName(job.Type), data).Err()
}

func (q *RedisQueue) Dequeue(ctx context.Context, timeout time.Duration) (*models.Job, error) {
	result, err := q.client.BLPop(ctx, timeout, queueName(models.JobAssistantReply)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(result) < 2 {
		return nil, nil
	}

	var job models.Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		return nil, fmt.Errorf("failed to parse job: %w", err)
	}
	return &job, nil
}

func (q *RedisQueue) Claim(ctx context.Context, jobID string) (bool, error) {
	return q.client.SetNX(ctx, "job_lock:"+jobID, "1", q.lockTTL).Result()
}

func (q *RedisQueue) Release(ctx context.Context, jobID string) {
	q.client.Del(ctx, "job_lock:"+jobID)
}

// MemoryQueue is the single-process queue used without redis.
type MemoryQueue struct {
	jobs    chan *models.Job
	mu      sync.Mutex
	claimed map[string]bool
}

func NewMemoryQueue(size int) *MemoryQueue {
	return &MemoryQueue{
		jobs:    make(chan *models.Job, size),
		claimed: make(map[string]bool),
	}
}

func (q *MemoryQueue) Enqueue(ctx context.Context, job *models.Job) error {
	select {
	case q.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return errors.New("job queue is full")
	}
}

func (q *MemoryQueue) Dequeue(ctx context.Context, timeout time.Duration) (*models.Job, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case job := <-q.jobs:
		return job, nil
	case <-timer.C:
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (q *MemoryQueue) Claim(_ context.Context, jobID string) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.claimed[jobID] {
		return false, nil
	}
	q.claimed[jobID] = true
	return true, nil
}

func (q *MemoryQueue) Release(_ context.Context, jobID string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.claimed, jobID)
}
