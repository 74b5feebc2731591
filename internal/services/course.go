package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"studysync-backend/internal/models"
	"studysync-backend/internal/repository"
)

type CourseService struct {
	courses *repository.CourseRepo
	logger  *zap.Logger
}

func NewCourseService(courses *repository.CourseRepo, logger *zap.Logger) *CourseService {
	return &CourseService{courses: courses, logger: logger}
}

func (s *CourseService) List(ctx context.Context, userID string) ([]models.Course, error) {
	return s.courses.List(ctx, userID)
}

func (s *CourseService) Create(ctx context.Context, userID string, req models.CreateCourseRequest) (*models.Course, error) {
	if err := ValidateStruct(req); err != nil {
		return nil, err
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	existing, err := s.courses.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, c := range existing {
		if strings.EqualFold(c.Code, code) {
			return nil, &ConflictError{Message: "A course with this code already exists"}
		}
	}

	course := models.Course{
		ID:      uuid.NewString(),
		Code:    code,
		Name:    strings.TrimSpace(req.Name),
		Subject: models.Subject(req.Subject),
	}
	if err := s.courses.Add(ctx, userID, course); err != nil {
		return nil, err
	}
	return &course, nil
}

func (s *CourseService) Delete(ctx context.Context, userID, id string) error {
	err := s.courses.Delete(ctx, userID, id)
	switch {
	case errors.Is(err, repository.ErrDefaultCourse):
		return &ForbiddenError{Message: "Default courses cannot be deleted"}
	case errors.Is(err, repository.ErrNotFound):
		return &NotFoundError{Message: "Course not found"}
	}
	return err
}
