package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"studysync-backend/internal/groups"
	"studysync-backend/internal/models"
	"studysync-backend/internal/repository"
)

// GroupService runs the filter and membership engines over the shared group
// snapshot. Read-modify-write cycles are serialized within the process;
// across processes the snapshot is last-write-wins.
type GroupService struct {
	mu        sync.Mutex
	groups    *repository.GroupRepo
	courses   *repository.CourseRepo
	publisher Publisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewGroupService(groupRepo *repository.GroupRepo, courses *repository.CourseRepo, publisher Publisher, logger *zap.Logger) *GroupService {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	return &GroupService{
		groups:    groupRepo,
		courses:   courses,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// List returns the groups visible to viewer under f. viewer may be nil.
func (s *GroupService) List(ctx context.Context, viewer *models.User, f groups.Filter) ([]models.StudyGroup, error) {
	all, err := s.groups.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load groups: %w", err)
	}
	return groups.Apply(viewer, all, f), nil
}

// Mine is the member-only view used by the calendar.
func (s *GroupService) Mine(ctx context.Context, viewer *models.User) ([]models.StudyGroup, error) {
	return s.List(ctx, viewer, groups.Filter{Mode: groups.ModeMine})
}

func (s *GroupService) Get(ctx context.Context, id string) (*models.StudyGroup, error) {
	g, err := s.groups.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Message: "Study group not found"}
	}
	return g, err
}

func (s *GroupService) Create(ctx context.Context, creator models.User, req models.CreateGroupRequest) (*models.StudyGroup, error) {
	if err := ValidateStruct(req); err != nil {
		return nil, err
	}

	var course *models.Course
	if req.CourseID != "" {
		c, err := s.courses.GetByID(ctx, creator.ID, req.CourseID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			// leaves course nil, reported as missing_course below
		case err != nil:
			return nil, fmt.Errorf("failed to load course: %w", err)
		default:
			course = c
		}
	}

	g, err := groups.Create(groups.Draft{
		Name:         req.Name,
		Course:       course,
		Description:  req.Description,
		Tags:         req.Tags,
		MaxMembers:   req.MaxMembers,
		TimeSlots:    req.TimeSlots,
		Location:     req.Location,
		IsPublic:     req.IsPublic,
		InvitedUsers: req.InvitedUsers,
	}, creator, s.now())
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	err = s.groups.Upsert(ctx, *g)
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to save group: %w", err)
	}

	s.logger.Info("study group created",
		zap.String("group_id", g.ID),
		zap.String("created_by", creator.ID),
		zap.Bool("public", g.IsPublic))
	s.notify(ctx, g)
	return g, nil
}

func (s *GroupService) Join(ctx context.Context, groupID string, user models.User) (*models.MembershipResponse, error) {
	return s.mutate(ctx, groupID, func(g *models.StudyGroup) bool {
		return groups.Join(g, user)
	}, user.ID)
}

func (s *GroupService) Leave(ctx context.Context, groupID string, user models.User) (*models.MembershipResponse, error) {
	return s.mutate(ctx, groupID, func(g *models.StudyGroup) bool {
		return groups.Leave(g, user.ID)
	}, user.ID)
}

func (s *GroupService) CanJoin(ctx context.Context, groupID, userID string) (*models.MembershipResponse, error) {
	g, err := s.Get(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return &models.MembershipResponse{Group: g, CanJoin: groups.CanJoin(g, userID)}, nil
}

func (s *GroupService) mutate(ctx context.Context, groupID string, apply func(*models.StudyGroup) bool, userID string) (*models.MembershipResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.Get(ctx, groupID)
	if err != nil {
		return nil, err
	}

	changed := apply(g)
	if changed {
		if err := s.groups.Upsert(ctx, *g); err != nil {
			return nil, fmt.Errorf("failed to save group: %w", err)
		}
		s.notify(ctx, g)
	}

	return &models.MembershipResponse{
		Group:   g,
		Changed: changed,
		CanJoin: groups.CanJoin(g, userID),
	}, nil
}

func (s *GroupService) notify(ctx context.Context, g *models.StudyGroup) {
	msg := models.WSMessage{Type: models.WSGroupUpdated, Payload: g}
	if err := s.publisher.PublishToGroup(ctx, g.ID, msg); err != nil {
		s.logger.Warn("failed to publish group update", zap.String("group_id", g.ID), zap.Error(err))
	}
}
