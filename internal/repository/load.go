package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"studysync-backend/internal/store"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrDefaultCourse = errors.New("default courses cannot be deleted")
)

// load reads key, returning fallback() when the key is missing. A value that
// fails to decode is dropped and replaced by the fallback so a damaged entry
// never blocks the caller.
func load[T any](ctx context.Context, s store.Store, logger *zap.Logger, key string, fallback func() T) (T, error) {
	v, err := store.GetJSON[T](ctx, s, key)
	if err == nil {
		return v, nil
	}

	if errors.Is(err, store.ErrNotFound) {
		return fallback(), nil
	}

	var corrupt *store.CorruptValueError
	if errors.As(err, &corrupt) {
		logger.Warn("discarding corrupt stored value",
			zap.String("key", key),
			zap.Error(corrupt.Err))
		if delErr := s.Delete(ctx, key); delErr != nil {
			logger.Error("failed to delete corrupt value", zap.String("key", key), zap.Error(delErr))
		}
		return fallback(), nil
	}

	var zero T
	return zero, fmt.Errorf("failed to load %q: %w", key, err)
}

// keyLocks holds one mutex per store key. Every read-modify-write of a list
// goes through update so concurrent appends in this process are not lost.
var keyLocks sync.Map

func lockKey(name string) func() {
	v, _ := keyLocks.LoadOrStore(name, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// update loads key, applies fn and writes the result back while holding the
// key's lock. lockName must identify the key across scoped stores. An error
// from fn aborts the write.
func update[T any](ctx context.Context, s store.Store, logger *zap.Logger, lockName, key string, fallback func() T, fn func(T) (T, error)) error {
	unlock := lockKey(lockName)
	defer unlock()

	current, err := load(ctx, s, logger, key, fallback)
	if err != nil {
		return err
	}
	next, err := fn(current)
	if err != nil {
		return err
	}
	return store.SetJSON(ctx, s, key, next)
}

func userLockName(userID, key string) string {
	return store.SessionPrefix(userID) + key
}

func emptyList[T any]() func() []T {
	return func() []T { return []T{} }
}

func userStore(s store.Store, userID string) store.Store {
	return store.Scoped(s, store.SessionPrefix(userID))
}
