package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"studysync-backend/internal/models"
	"studysync-backend/internal/repository"
	"studysync-backend/internal/store"
)

type recordingPublisher struct {
	mu        sync.Mutex
	broadcast []models.WSMessage
	group     map[string][]models.WSMessage
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{group: make(map[string][]models.WSMessage)}
}

func (p *recordingPublisher) Broadcast(_ context.Context, msg models.WSMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.broadcast = append(p.broadcast, msg)
	return nil
}

func (p *recordingPublisher) PublishToGroup(_ context.Context, groupID string, msg models.WSMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.group[groupID] = append(p.group[groupID], msg)
	return nil
}

type recordingQueue struct {
	jobs []*models.Job
}

func (q *recordingQueue) Enqueue(_ context.Context, job *models.Job) error {
	q.jobs = append(q.jobs, job)
	return nil
}

type stubGenerator struct {
	text  string
	err   error
	delay time.Duration
	calls int
}

func (g *stubGenerator) Generate(ctx context.Context, _ []models.ChatMessage, _ string) (string, error) {
	g.calls++
	if g.delay > 0 {
		select {
		case <-time.After(g.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return g.text, g.err
}

type testEnv struct {
	store     *store.MemoryStore
	publisher *recordingPublisher
	queue     *recordingQueue
	groupRepo *repository.GroupRepo
	courses   *repository.CourseRepo
	groups    *GroupService
	now       time.Time
}

func newTestEnv() *testEnv {
	logger := zap.NewNop()
	s := store.NewMemoryStore()
	pub := newRecordingPublisher()
	groupRepo := repository.NewGroupRepo(s, logger)
	courses := repository.NewCourseRepo(s, logger)
	now := time.Date(2025, time.March, 12, 10, 0, 0, 0, time.UTC)

	groups := NewGroupService(groupRepo, courses, pub, logger)
	groups.now = func() time.Time { return now }

	return &testEnv{
		store:     s,
		publisher: pub,
		queue:     &recordingQueue{},
		groupRepo: groupRepo,
		courses:   courses,
		groups:    groups,
		now:       now,
	}
}

var (
	alice = models.User{ID: "u1", Name: "Alice", Email: "alice@example.com"}
	bob   = models.User{ID: "u2", Name: "Bob", Email: "bob@example.com"}
	carol = models.User{ID: "u3", Name: "Carol", Email: "carol@example.com"}
)

func validGroupRequest() models.CreateGroupRequest {
	return models.CreateGroupRequest{
		Name:       "Calc study",
		CourseID:   "1",
		Tags:       []models.StudyTag{models.TagExam},
		MaxMembers: 2,
		TimeSlots:  []models.TimeSlot{{Day: "Wednesday", StartTime: "18:00", EndTime: "20:00"}},
		Location:   "Library",
		IsPublic:   true,
	}
}
