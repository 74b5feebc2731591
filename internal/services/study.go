package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"studysync-backend/internal/models"
	"studysync-backend/internal/repository"
	"studysync-backend/internal/stats"
)

// StudyService owns the session log, the stats accumulator and goals.
type StudyService struct {
	sessions *repository.SessionRepo
	stats    *repository.StatsRepo
	goals    *repository.GoalRepo
	logger   *zap.Logger
	now      func() time.Time
}

func NewStudyService(sessions *repository.SessionRepo, statsRepo *repository.StatsRepo, goals *repository.GoalRepo, logger *zap.Logger) *StudyService {
	return &StudyService{
		sessions: sessions,
		stats:    statsRepo,
		goals:    goals,
		logger:   logger,
		now:      time.Now,
	}
}

// LogSession appends a session and folds it into the stored stats.
func (s *StudyService) LogSession(ctx context.Context, userID string, req models.LogSessionRequest) (*models.StudySession, *models.StudyStats, error) {
	if err := ValidateStruct(req); err != nil {
		return nil, nil, err
	}

	now := s.now()
	date := now
	if req.Date != "" {
		d, err := time.ParseInLocation("2006-01-02", req.Date, now.Location())
		if err != nil {
			return nil, nil, &ValidationError{Fields: map[string]string{"date": "date must match the format 2006-01-02"}}
		}
		date = d
	}

	tags := req.Tags
	if tags == nil {
		tags = []models.StudyTag{}
	}
	session := models.StudySession{
		ID:       uuid.NewString(),
		Date:     date,
		Duration: req.Duration,
		CourseID: req.CourseID,
		Tags:     tags,
	}
	if err := s.sessions.Append(ctx, userID, session); err != nil {
		return nil, nil, fmt.Errorf("failed to save session: %w", err)
	}

	updated, err := s.stats.Update(ctx, userID, func(current models.StudyStats) models.StudyStats {
		return stats.Record(current, session, now)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to save stats: %w", err)
	}

	view := stats.Current(updated, now)
	return &session, &view, nil
}

func (s *StudyService) ListSessions(ctx context.Context, userID string) ([]models.StudySession, error) {
	return s.sessions.List(ctx, userID)
}

func (s *StudyService) Stats(ctx context.Context, userID string) (*models.StudyStats, error) {
	current, err := s.stats.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	view := stats.Current(current, s.now())
	return &view, nil
}

// RebuildStats recomputes the accumulator from the session log and replaces
// the stored value.
func (s *StudyService) RebuildStats(ctx context.Context, userID string) (*models.StudyStats, error) {
	sessions, err := s.sessions.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	rebuilt := stats.Rebuild(sessions, now)
	if err := s.stats.Save(ctx, userID, rebuilt); err != nil {
		return nil, fmt.Errorf("failed to save stats: %w", err)
	}
	s.logger.Info("study stats rebuilt", zap.String("user_id", userID), zap.Int("sessions", len(sessions)))

	view := stats.Current(rebuilt, now)
	return &view, nil
}

func (s *StudyService) ListGoals(ctx context.Context, userID string) ([]models.StudyGoal, error) {
	return s.goals.List(ctx, userID)
}

func (s *StudyService) CreateGoal(ctx context.Context, userID string, req models.CreateGoalRequest) (*models.StudyGoal, error) {
	if err := ValidateStruct(req); err != nil {
		return nil, err
	}
	deadline, err := time.Parse("2006-01-02", req.Deadline)
	if err != nil {
		return nil, &ValidationError{Fields: map[string]string{"deadline": "deadline must match the format 2006-01-02"}}
	}

	goal := models.StudyGoal{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(req.Title),
		TargetHours: req.TargetHours,
		Deadline:    deadline,
	}
	if err := s.goals.Add(ctx, userID, goal); err != nil {
		return nil, fmt.Errorf("failed to save goal: %w", err)
	}
	return &goal, nil
}

func (s *StudyService) AddGoalProgress(ctx context.Context, userID, goalID string, req models.GoalProgressRequest) (*models.StudyGoal, error) {
	if err := ValidateStruct(req); err != nil {
		return nil, err
	}
	goal, err := s.goals.GetByID(ctx, userID, goalID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Message: "Goal not found"}
	}
	if err != nil {
		return nil, err
	}

	updated, changed := stats.AddProgress(*goal, req.Hours)
	if changed {
		if err := s.goals.Update(ctx, userID, updated); err != nil {
			return nil, fmt.Errorf("failed to save goal: %w", err)
		}
	}
	return &updated, nil
}

func (s *StudyService) DeleteGoal(ctx context.Context, userID, goalID string) error {
	err := s.goals.Delete(ctx, userID, goalID)
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Message: "Goal not found"}
	}
	return err
}
