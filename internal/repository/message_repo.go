package repository

import (
	"context"

	"go.uber.org/zap"

	"studysync-backend/internal/models"
	"studysync-backend/internal/store"
)

type MessageRepo struct {
	store  store.Store
	logger *zap.Logger
}

func NewMessageRepo(s store.Store, logger *zap.Logger) *MessageRepo {
	return &MessageRepo{store: s, logger: logger}
}

func (r *MessageRepo) List(ctx context.Context, groupID string) ([]models.Message, error) {
	return load(ctx, r.store, r.logger, GroupMessagesKey(groupID), emptyList[models.Message]())
}

func (r *MessageRepo) Append(ctx context.Context, m models.Message) error {
	key := GroupMessagesKey(m.GroupID)
	return update(ctx, r.store, r.logger, key, key, emptyList[models.Message](), func(msgs []models.Message) ([]models.Message, error) {
		return append(msgs, m), nil
	})
}
