package repository

import (
	"context"

	"go.uber.org/zap"

	"studysync-backend/internal/models"
	"studysync-backend/internal/store"
)

type EventRepo struct {
	store  store.Store
	logger *zap.Logger
}

func NewEventRepo(s store.Store, logger *zap.Logger) *EventRepo {
	return &EventRepo{store: s, logger: logger}
}

func (r *EventRepo) List(ctx context.Context, userID string) ([]models.UserEvent, error) {
	return load(ctx, userStore(r.store, userID), r.logger, KeyUserEvents, emptyList[models.UserEvent]())
}

func (r *EventRepo) Add(ctx context.Context, userID string, e models.UserEvent) error {
	return r.update(ctx, userID, func(events []models.UserEvent) ([]models.UserEvent, error) {
		return append(events, e), nil
	})
}

func (r *EventRepo) Update(ctx context.Context, userID string, e models.UserEvent) error {
	return r.update(ctx, userID, func(events []models.UserEvent) ([]models.UserEvent, error) {
		for i := range events {
			if events[i].ID == e.ID {
				events[i] = e
				return events, nil
			}
		}
		return nil, ErrNotFound
	})
}

func (r *EventRepo) Delete(ctx context.Context, userID, id string) error {
	return r.update(ctx, userID, func(events []models.UserEvent) ([]models.UserEvent, error) {
		for i := range events {
			if events[i].ID == id {
				return append(events[:i], events[i+1:]...), nil
			}
		}
		return nil, ErrNotFound
	})
}

func (r *EventRepo) update(ctx context.Context, userID string, fn func([]models.UserEvent) ([]models.UserEvent, error)) error {
	return update(ctx, userStore(r.store, userID), r.logger, userLockName(userID, KeyUserEvents), KeyUserEvents,
		emptyList[models.UserEvent](), fn)
}
