package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"studysync-backend/internal/calendar"
	"studysync-backend/internal/models"
	"studysync-backend/internal/repository"
)

// CalendarService combines a user's events with the groups they belong to.
type CalendarService struct {
	groups *GroupService
	events *repository.EventRepo
	mapper *calendar.Mapper
	logger *zap.Logger
	now    func() time.Time
}

func NewCalendarService(groups *GroupService, events *repository.EventRepo, mapper *calendar.Mapper, logger *zap.Logger) *CalendarService {
	return &CalendarService{
		groups: groups,
		events: events,
		mapper: mapper,
		logger: logger,
		now:    time.Now,
	}
}

func (s *CalendarService) load(ctx context.Context, user models.User) ([]models.StudyGroup, []models.UserEvent, error) {
	mine, err := s.groups.Mine(ctx, &user)
	if err != nil {
		return nil, nil, err
	}
	events, err := s.events.List(ctx, user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load events: %w", err)
	}
	return mine, events, nil
}

func (s *CalendarService) View(ctx context.Context, user models.User, view calendar.ViewType, focus time.Time) (*calendar.View, error) {
	mine, events, err := s.load(ctx, user)
	if err != nil {
		return nil, err
	}
	v := s.mapper.Build(view, focus, s.now(), mine, events)
	return &v, nil
}

func (s *CalendarService) Day(ctx context.Context, user models.User, date time.Time) (*calendar.Items, error) {
	mine, events, err := s.load(ctx, user)
	if err != nil {
		return nil, err
	}
	items := s.mapper.ItemsOnDate(date, mine, events)
	return &items, nil
}

// Navigate moves focus one step and renders the resulting view.
func (s *CalendarService) Navigate(ctx context.Context, user models.User, view calendar.ViewType, focus time.Time, dir calendar.Direction) (*calendar.View, error) {
	next := calendar.Navigate(view, focus, dir, s.now())
	return s.View(ctx, user, view, next)
}

func (s *CalendarService) ExportICS(ctx context.Context, user models.User) (string, error) {
	mine, events, err := s.load(ctx, user)
	if err != nil {
		return "", err
	}
	return s.mapper.ExportICS(user.Name+" - StudySync", mine, events, s.now()), nil
}

func (s *CalendarService) ListEvents(ctx context.Context, userID string) ([]models.UserEvent, error) {
	return s.events.List(ctx, userID)
}

func (s *CalendarService) CreateEvent(ctx context.Context, userID string, req models.EventRequest) (*models.UserEvent, error) {
	e, err := eventFromRequest(uuid.NewString(), req)
	if err != nil {
		return nil, err
	}
	if err := s.events.Add(ctx, userID, *e); err != nil {
		return nil, fmt.Errorf("failed to save event: %w", err)
	}
	return e, nil
}

func (s *CalendarService) UpdateEvent(ctx context.Context, userID, id string, req models.EventRequest) (*models.UserEvent, error) {
	e, err := eventFromRequest(id, req)
	if err != nil {
		return nil, err
	}
	err = s.events.Update(ctx, userID, *e)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Message: "Event not found"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save event: %w", err)
	}
	return e, nil
}

func (s *CalendarService) DeleteEvent(ctx context.Context, userID, id string) error {
	err := s.events.Delete(ctx, userID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Message: "Event not found"}
	}
	return err
}

func eventFromRequest(id string, req models.EventRequest) (*models.UserEvent, error) {
	if err := ValidateStruct(req); err != nil {
		return nil, err
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, &ValidationError{Fields: map[string]string{"date": "date must match the format 2006-01-02"}}
	}
	return &models.UserEvent{
		ID:          id,
		Title:       strings.TrimSpace(req.Title),
		Date:        date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Description: req.Description,
	}, nil
}
