package repository

import (
	"context"

	"go.uber.org/zap"

	"studysync-backend/internal/models"
	"studysync-backend/internal/store"
)

type GoalRepo struct {
	store  store.Store
	logger *zap.Logger
}

func NewGoalRepo(s store.Store, logger *zap.Logger) *GoalRepo {
	return &GoalRepo{store: s, logger: logger}
}

func (r *GoalRepo) List(ctx context.Context, userID string) ([]models.StudyGoal, error) {
	return load(ctx, userStore(r.store, userID), r.logger, KeyStudyGoals, emptyList[models.StudyGoal]())
}

func (r *GoalRepo) GetByID(ctx context.Context, userID, id string) (*models.StudyGoal, error) {
	goals, err := r.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range goals {
		if goals[i].ID == id {
			return &goals[i], nil
		}
	}
	return nil, ErrNotFound
}

func (r *GoalRepo) Add(ctx context.Context, userID string, g models.StudyGoal) error {
	return r.update(ctx, userID, func(goals []models.StudyGoal) ([]models.StudyGoal, error) {
		return append(goals, g), nil
	})
}

func (r *GoalRepo) Update(ctx context.Context, userID string, g models.StudyGoal) error {
	return r.update(ctx, userID, func(goals []models.StudyGoal) ([]models.StudyGoal, error) {
		for i := range goals {
			if goals[i].ID == g.ID {
				goals[i] = g
				return goals, nil
			}
		}
		return nil, ErrNotFound
	})
}

func (r *GoalRepo) Delete(ctx context.Context, userID, id string) error {
	return r.update(ctx, userID, func(goals []models.StudyGoal) ([]models.StudyGoal, error) {
		for i := range goals {
			if goals[i].ID == id {
				return append(goals[:i], goals[i+1:]...), nil
			}
		}
		return nil, ErrNotFound
	})
}

func (r *GoalRepo) update(ctx context.Context, userID string, fn func([]models.StudyGoal) ([]models.StudyGoal, error)) error {
	return update(ctx, userStore(r.store, userID), r.logger, userLockName(userID, KeyStudyGoals), KeyStudyGoals,
		emptyList[models.StudyGoal](), fn)
}

// SessionRepo is the append-only study session log.
type SessionRepo struct {
	store  store.Store
	logger *zap.Logger
}

func NewSessionRepo(s store.Store, logger *zap.Logger) *SessionRepo {
	return &SessionRepo{store: s, logger: logger}
}

func (r *SessionRepo) List(ctx context.Context, userID string) ([]models.StudySession, error) {
	return load(ctx, userStore(r.store, userID), r.logger, KeyStudySessions, emptyList[models.StudySession]())
}

func (r *SessionRepo) Append(ctx context.Context, userID string, s models.StudySession) error {
	return update(ctx, userStore(r.store, userID), r.logger, userLockName(userID, KeyStudySessions), KeyStudySessions,
		emptyList[models.StudySession](), func(sessions []models.StudySession) ([]models.StudySession, error) {
			return append(sessions, s), nil
		})
}

type StatsRepo struct {
	store  store.Store
	logger *zap.Logger
}

func NewStatsRepo(s store.Store, logger *zap.Logger) *StatsRepo {
	return &StatsRepo{store: s, logger: logger}
}

func (r *StatsRepo) Get(ctx context.Context, userID string) (models.StudyStats, error) {
	return load(ctx, userStore(r.store, userID), r.logger, KeyStudyStats, func() models.StudyStats {
		return models.StudyStats{}
	})
}

func (r *StatsRepo) Save(ctx context.Context, userID string, s models.StudyStats) error {
	unlock := lockKey(userLockName(userID, KeyStudyStats))
	defer unlock()
	return store.SetJSON(ctx, userStore(r.store, userID), KeyStudyStats, s)
}

// Update applies fn to the stored stats under the key's lock and returns the
// value written.
func (r *StatsRepo) Update(ctx context.Context, userID string, fn func(models.StudyStats) models.StudyStats) (models.StudyStats, error) {
	var written models.StudyStats
	err := update(ctx, userStore(r.store, userID), r.logger, userLockName(userID, KeyStudyStats), KeyStudyStats,
		func() models.StudyStats { return models.StudyStats{} },
		func(s models.StudyStats) (models.StudyStats, error) {
			written = fn(s)
			return written, nil
		})
	return written, err
}
