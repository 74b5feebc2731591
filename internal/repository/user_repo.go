package repository

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"studysync-backend/internal/models"
	"studysync-backend/internal/store"
)

type UserRepo struct {
	store  store.Store
	logger *zap.Logger
}

func NewUserRepo(s store.Store, logger *zap.Logger) *UserRepo {
	return &UserRepo{store: s, logger: logger}
}

func (r *UserRepo) GetByID(ctx context.Context, userID string) (*models.User, error) {
	u, err := load(ctx, userStore(r.store, userID), r.logger, KeyUser, func() *models.User { return nil })
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	return u, nil
}

// Save writes the user's profile and refreshes their directory entry.
func (r *UserRepo) Save(ctx context.Context, u *models.User) error {
	if err := store.SetJSON(ctx, userStore(r.store, u.ID), KeyUser, u); err != nil {
		return err
	}
	return update(ctx, r.store, r.logger, KeyUserDirectory, KeyUserDirectory, emptyList[models.User](), func(dir []models.User) ([]models.User, error) {
		for i := range dir {
			if dir[i].ID == u.ID {
				dir[i] = *u
				return dir, nil
			}
		}
		return append(dir, *u), nil
	})
}

func (r *UserRepo) SetLoggedIn(ctx context.Context, userID string, loggedIn bool) error {
	return store.SetJSON(ctx, userStore(r.store, userID), KeyIsLoggedIn, loggedIn)
}

func (r *UserRepo) IsLoggedIn(ctx context.Context, userID string) (bool, error) {
	return load(ctx, userStore(r.store, userID), r.logger, KeyIsLoggedIn, func() bool { return false })
}

// Directory lists every user who has signed in, in first-login order.
func (r *UserRepo) Directory(ctx context.Context) ([]models.User, error) {
	return load(ctx, r.store, r.logger, KeyUserDirectory, emptyList[models.User]())
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	dir, err := r.Directory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read user directory: %w", err)
	}
	for _, u := range dir {
		if strings.EqualFold(u.Email, email) {
			found := u
			return &found, nil
		}
	}
	return nil, ErrNotFound
}
