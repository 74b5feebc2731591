package repository

import (
	"context"

	"go.uber.org/zap"

	"studysync-backend/internal/models"
	"studysync-backend/internal/store"
)

type CourseRepo struct {
	store  store.Store
	logger *zap.Logger
}

func NewCourseRepo(s store.Store, logger *zap.Logger) *CourseRepo {
	return &CourseRepo{store: s, logger: logger}
}

// List returns the seed courses followed by the user's own.
func (r *CourseRepo) List(ctx context.Context, userID string) ([]models.Course, error) {
	custom, err := r.custom(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]models.Course, 0, len(models.DefaultCourses)+len(custom))
	out = append(out, models.DefaultCourses...)
	return append(out, custom...), nil
}

func (r *CourseRepo) GetByID(ctx context.Context, userID, id string) (*models.Course, error) {
	courses, err := r.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, c := range courses {
		if c.ID == id {
			found := c
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (r *CourseRepo) Add(ctx context.Context, userID string, c models.Course) error {
	return r.update(ctx, userID, func(custom []models.Course) ([]models.Course, error) {
		return append(custom, c), nil
	})
}

func (r *CourseRepo) Delete(ctx context.Context, userID, id string) error {
	if models.IsDefaultCourse(id) {
		return ErrDefaultCourse
	}
	return r.update(ctx, userID, func(custom []models.Course) ([]models.Course, error) {
		for i := range custom {
			if custom[i].ID == id {
				return append(custom[:i], custom[i+1:]...), nil
			}
		}
		return nil, ErrNotFound
	})
}

func (r *CourseRepo) update(ctx context.Context, userID string, fn func([]models.Course) ([]models.Course, error)) error {
	return update(ctx, userStore(r.store, userID), r.logger, userLockName(userID, KeyUserCourses), KeyUserCourses,
		emptyList[models.Course](), fn)
}

func (r *CourseRepo) custom(ctx context.Context, userID string) ([]models.Course, error) {
	return load(ctx, userStore(r.store, userID), r.logger, KeyUserCourses, emptyList[models.Course]())
}
