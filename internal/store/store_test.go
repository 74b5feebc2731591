package store

import (
	"context"
	"errors"
	"testing"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestMemoryStore_GetMissing(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_ValuesAreCopied(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	in := []byte("abc")
	if err := s.Set(ctx, "k", in); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	in[0] = 'z'

	got, _ := s.Get(ctx, "k")
	if string(got) != "abc" {
		t.Fatalf("stored value was aliased: %q", got)
	}
}

func TestJSONRoundTripAndDelete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := SetJSON(ctx, s, "sample", sample{Name: "a", Count: 2}); err != nil {
		t.Fatalf("SetJSON failed: %v", err)
	}

	got, err := GetJSON[sample](ctx, s, "sample")
	if err != nil {
		t.Fatalf("GetJSON failed: %v", err)
	}
	if got.Name != "a" || got.Count != 2 {
		t.Fatalf("unexpected value: %+v", got)
	}

	if err := s.Delete(ctx, "sample"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := GetJSON[sample](ctx, s, "sample"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestGetJSON_CorruptValue(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	_ = s.Set(ctx, "broken", []byte("{not json"))

	_, err := GetJSON[[]sample](ctx, s, "broken")

	var corrupt *CorruptValueError
	if !errors.As(err, &corrupt) {
		t.Fatalf("expected CorruptValueError, got %v", err)
	}
	if corrupt.Key != "broken" {
		t.Fatalf("expected key 'broken', got %q", corrupt.Key)
	}
}

func TestScoped_IsolatesKeys(t *testing.T) {
	base := NewMemoryStore()
	ctx := context.Background()

	alice := Scoped(base, SessionPrefix("alice"))
	bob := Scoped(base, SessionPrefix("bob"))

	_ = alice.Set(ctx, "studyGoals", []byte("[1]"))

	if _, err := bob.Get(ctx, "studyGoals"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected bob to see no goals, got %v", err)
	}

	raw, err := base.Get(ctx, "session:alice:studyGoals")
	if err != nil || string(raw) != "[1]" {
		t.Fatalf("expected prefixed key in base store, got %q, %v", raw, err)
	}
}
