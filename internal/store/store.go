// Package store is the key-value persistence layer. Values are JSON documents
// addressed by the flat key layout the client application uses.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("key not found in store")

// Store is a raw key-value backend.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// CorruptValueError reports a stored value that could not be decoded.
type CorruptValueError struct {
	Key string
	Err error
}

func (e *CorruptValueError) Error() string {
	return fmt.Sprintf("corrupt value at key %q: %v", e.Key, e.Err)
}

func (e *CorruptValueError) Unwrap() error { return e.Err }

// GetJSON loads and decodes the value at key.
func GetJSON[T any](ctx context.Context, s Store, key string) (T, error) {
	var out T
	raw, err := s.Get(ctx, key)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		var zero T
		return zero, &CorruptValueError{Key: key, Err: err}
	}
	return out, nil
}

// SetJSON encodes value and stores it at key.
func SetJSON(ctx context.Context, s Store, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}
	return s.Set(ctx, key, data)
}

type scoped struct {
	inner  Store
	prefix string
}

// Scoped namespaces every key under prefix. It gives each signed-in user the
// private key space a browser's local storage would have.
func Scoped(s Store, prefix string) Store {
	return &scoped{inner: s, prefix: prefix}
}

// SessionPrefix is the key prefix of a user's private keys.
func SessionPrefix(userID string) string {
	return "session:" + userID + ":"
}

func (s *scoped) Get(ctx context.Context, key string) ([]byte, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *scoped) Set(ctx context.Context, key string, value []byte) error {
	return s.inner.Set(ctx, s.prefix+key, value)
}

func (s *scoped) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}
