package services

import (
	"context"

	"studysync-backend/internal/models"
)

// Publisher pushes messages to connected websocket clients.
type Publisher interface {
	Broadcast(ctx context.Context, msg models.WSMessage) error
	PublishToGroup(ctx context.Context, groupID string, msg models.WSMessage) error
}

// JobQueue accepts background jobs for the worker pool.
type JobQueue interface {
	Enqueue(ctx context.Context, job *models.Job) error
}

type nopPublisher struct{}

func (nopPublisher) Broadcast(context.Context, models.WSMessage) error { return nil }

func (nopPublisher) PublishToGroup(context.Context, string, models.WSMessage) error { return nil }
