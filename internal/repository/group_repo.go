package repository

import (
	"context"

	"go.uber.org/zap"

	"studysync-backend/internal/models"
	"studysync-backend/internal/store"
)

// GroupRepo persists the shared group list as one snapshot. Upserts within
// one process are serialized; writers in separate processes are
// last-write-wins.
type GroupRepo struct {
	store  store.Store
	logger *zap.Logger
}

func NewGroupRepo(s store.Store, logger *zap.Logger) *GroupRepo {
	return &GroupRepo{store: s, logger: logger}
}

func (r *GroupRepo) List(ctx context.Context) ([]models.StudyGroup, error) {
	return load(ctx, r.store, r.logger, KeySharedStudyGroups, emptyList[models.StudyGroup]())
}

func (r *GroupRepo) GetByID(ctx context.Context, id string) (*models.StudyGroup, error) {
	groups, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range groups {
		if groups[i].ID == id {
			return &groups[i], nil
		}
	}
	return nil, ErrNotFound
}

func (r *GroupRepo) SaveAll(ctx context.Context, groups []models.StudyGroup) error {
	unlock := lockKey(KeySharedStudyGroups)
	defer unlock()
	return store.SetJSON(ctx, r.store, KeySharedStudyGroups, groups)
}

// Upsert replaces the group with the same id or appends it.
func (r *GroupRepo) Upsert(ctx context.Context, g models.StudyGroup) error {
	return update(ctx, r.store, r.logger, KeySharedStudyGroups, KeySharedStudyGroups, emptyList[models.StudyGroup](), func(groups []models.StudyGroup) ([]models.StudyGroup, error) {
		for i := range groups {
			if groups[i].ID == g.ID {
				groups[i] = g
				return groups, nil
			}
		}
		return append(groups, g), nil
	})
}
