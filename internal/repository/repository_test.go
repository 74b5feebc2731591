package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"studysync-backend/internal/models"
	"studysync-backend/internal/store"
)

func newTestStore() *store.MemoryStore {
	return store.NewMemoryStore()
}

func TestLoad_CorruptValueFallsBackAndIsDropped(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	if err := s.Set(ctx, KeySharedStudyGroups, []byte("{not json")); err != nil {
		t.Fatal(err)
	}

	repo := NewGroupRepo(s, zap.NewNop())
	groups, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("expected recovery, got %v", err)
	}
	if groups == nil || len(groups) != 0 {
		t.Errorf("expected empty list, got %v", groups)
	}
	if _, err := s.Get(ctx, KeySharedStudyGroups); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("corrupt value should have been removed, got %v", err)
	}
}

func TestLoad_CorruptStatsResetToZero(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	_ = s.Set(ctx, store.SessionPrefix("u1")+KeyStudyStats, []byte(`{"totalHours":"lots"}`))

	stats, err := NewStatsRepo(s, zap.NewNop()).Get(ctx, "u1")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if stats.TotalHours != 0 {
		t.Errorf("expected zero stats, got %+v", stats)
	}
}

func TestUserRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepo(newTestStore(), zap.NewNop())

	if _, err := repo.GetByID(ctx, "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	u := &models.User{ID: "u1", Name: "Ada", Email: "ada@example.com"}
	if err := repo.Save(ctx, u); err != nil {
		t.Fatal(err)
	}
	u.Name = "Ada L."
	if err := repo.Save(ctx, u); err != nil {
		t.Fatal(err)
	}

	got, err := repo.GetByID(ctx, "u1")
	if err != nil || got.Name != "Ada L." {
		t.Fatalf("GetByID = %+v, %v", got, err)
	}

	dir, err := repo.Directory(ctx)
	if err != nil || len(dir) != 1 || dir[0].Name != "Ada L." {
		t.Errorf("directory = %+v, %v", dir, err)
	}

	byEmail, err := repo.GetByEmail(ctx, "ADA@example.com")
	if err != nil || byEmail.ID != "u1" {
		t.Errorf("GetByEmail = %+v, %v", byEmail, err)
	}

	if ok, _ := repo.IsLoggedIn(ctx, "u1"); ok {
		t.Error("expected logged out by default")
	}
	_ = repo.SetLoggedIn(ctx, "u1", true)
	if ok, _ := repo.IsLoggedIn(ctx, "u1"); !ok {
		t.Error("expected logged in")
	}
}

func TestCourseRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewCourseRepo(newTestStore(), zap.NewNop())

	courses, err := repo.List(ctx, "u1")
	if err != nil || len(courses) != len(models.DefaultCourses) {
		t.Fatalf("List = %d courses, %v", len(courses), err)
	}

	custom := models.Course{ID: "c-1", Code: "ART200", Name: "Modern Art", Subject: models.SubjectArts}
	if err := repo.Add(ctx, "u1", custom); err != nil {
		t.Fatal(err)
	}

	if got, err := repo.GetByID(ctx, "u1", "c-1"); err != nil || got.Code != "ART200" {
		t.Errorf("GetByID = %+v, %v", got, err)
	}
	if others, _ := repo.List(ctx, "u2"); len(others) != len(models.DefaultCourses) {
		t.Errorf("custom course leaked to another user")
	}

	if err := repo.Delete(ctx, "u1", "1"); !errors.Is(err, ErrDefaultCourse) {
		t.Errorf("deleting a default course: got %v", err)
	}
	if err := repo.Delete(ctx, "u1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleting a missing course: got %v", err)
	}
	if err := repo.Delete(ctx, "u1", "c-1"); err != nil {
		t.Fatal(err)
	}
	if courses, _ := repo.List(ctx, "u1"); len(courses) != len(models.DefaultCourses) {
		t.Errorf("expected custom course removed, got %d courses", len(courses))
	}
}

func TestGroupRepo_Upsert(t *testing.T) {
	ctx := context.Background()
	repo := NewGroupRepo(newTestStore(), zap.NewNop())

	_ = repo.Upsert(ctx, models.StudyGroup{ID: "a", Name: "First"})
	_ = repo.Upsert(ctx, models.StudyGroup{ID: "b", Name: "Second"})
	_ = repo.Upsert(ctx, models.StudyGroup{ID: "a", Name: "First, renamed"})

	groups, err := repo.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 2 || groups[0].Name != "First, renamed" || groups[1].ID != "b" {
		t.Errorf("unexpected groups %+v", groups)
	}
	if _, err := repo.GetByID(ctx, "zzz"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMessageRepo_AppendIsPerGroup(t *testing.T) {
	ctx := context.Background()
	repo := NewMessageRepo(newTestStore(), zap.NewNop())

	_ = repo.Append(ctx, models.Message{ID: "1", GroupID: "g1", Content: "hi"})
	_ = repo.Append(ctx, models.Message{ID: "2", GroupID: "g1", Content: "there"})
	_ = repo.Append(ctx, models.Message{ID: "3", GroupID: "g2", Content: "other"})

	g1, _ := repo.List(ctx, "g1")
	if len(g1) != 2 || g1[0].ID != "1" || g1[1].ID != "2" {
		t.Errorf("g1 messages = %+v", g1)
	}
	g2, _ := repo.List(ctx, "g2")
	if len(g2) != 1 {
		t.Errorf("g2 messages = %+v", g2)
	}
}

func TestEventRepo_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepo(newTestStore(), zap.NewNop())
	d := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

	_ = repo.Add(ctx, "u1", models.UserEvent{ID: "e1", Title: "Exam", Date: d})
	_ = repo.Add(ctx, "u1", models.UserEvent{ID: "e2", Title: "Review", Date: d})

	if err := repo.Update(ctx, "u1", models.UserEvent{ID: "e1", Title: "Final exam", Date: d}); err != nil {
		t.Fatal(err)
	}
	if err := repo.Update(ctx, "u1", models.UserEvent{ID: "nope"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, "u1", "e2"); err != nil {
		t.Fatal(err)
	}

	events, _ := repo.List(ctx, "u1")
	if len(events) != 1 || events[0].Title != "Final exam" {
		t.Errorf("events = %+v", events)
	}
}

func TestGoalAndSessionRepos(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	goals := NewGoalRepo(s, zap.NewNop())
	sessions := NewSessionRepo(s, zap.NewNop())

	_ = goals.Add(ctx, "u1", models.StudyGoal{ID: "g1", Title: "Read", TargetHours: 5})
	g, err := goals.GetByID(ctx, "u1", "g1")
	if err != nil {
		t.Fatal(err)
	}
	g.CompletedHours = 2
	if err := goals.Update(ctx, "u1", *g); err != nil {
		t.Fatal(err)
	}
	if got, _ := goals.GetByID(ctx, "u1", "g1"); got.CompletedHours != 2 {
		t.Errorf("completedHours = %v", got.CompletedHours)
	}
	if err := goals.Delete(ctx, "u1", "g1"); err != nil {
		t.Fatal(err)
	}
	if list, _ := goals.List(ctx, "u1"); len(list) != 0 {
		t.Errorf("expected no goals, got %d", len(list))
	}

	_ = sessions.Append(ctx, "u1", models.StudySession{ID: "s1", Duration: 30})
	_ = sessions.Append(ctx, "u1", models.StudySession{ID: "s2", Duration: 45})
	list, _ := sessions.List(ctx, "u1")
	if len(list) != 2 || list[1].ID != "s2" {
		t.Errorf("sessions = %+v", list)
	}
}

func TestConcurrentAppendsAreNotLost(t *testing.T) {
	const writers = 40
	ctx := context.Background()

	tests := []struct {
		name   string
		append func(s store.Store, i int) error
		count  func(s store.Store) int
	}{
		{
			name: "messages",
			append: func(s store.Store, i int) error {
				return NewMessageRepo(s, zap.NewNop()).Append(ctx, models.Message{ID: fmt.Sprint(i), GroupID: "g1"})
			},
			count: func(s store.Store) int {
				list, _ := NewMessageRepo(s, zap.NewNop()).List(ctx, "g1")
				return len(list)
			},
		},
		{
			name: "events",
			append: func(s store.Store, i int) error {
				return NewEventRepo(s, zap.NewNop()).Add(ctx, "u1", models.UserEvent{ID: fmt.Sprint(i)})
			},
			count: func(s store.Store) int {
				list, _ := NewEventRepo(s, zap.NewNop()).List(ctx, "u1")
				return len(list)
			},
		},
		{
			name: "sessions",
			append: func(s store.Store, i int) error {
				return NewSessionRepo(s, zap.NewNop()).Append(ctx, "u1", models.StudySession{ID: fmt.Sprint(i)})
			},
			count: func(s store.Store) int {
				list, _ := NewSessionRepo(s, zap.NewNop()).List(ctx, "u1")
				return len(list)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore()
			var wg sync.WaitGroup
			for i := 0; i < writers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					if err := tt.append(s, i); err != nil {
						t.Errorf("append %d: %v", i, err)
					}
				}(i)
			}
			wg.Wait()
			if got := tt.count(s); got != writers {
				t.Errorf("wrote %d, stored %d", writers, got)
			}
		})
	}
}

func TestStatsRepo_UpdateIsSerialized(t *testing.T) {
	ctx := context.Background()
	repo := NewStatsRepo(newTestStore(), zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.Update(ctx, "u1", func(cur models.StudyStats) models.StudyStats {
				cur.TotalHours++
				return cur
			})
		}()
	}
	wg.Wait()

	got, _ := repo.Get(ctx, "u1")
	if got.TotalHours != 30 {
		t.Errorf("TotalHours = %v, want 30", got.TotalHours)
	}
}
