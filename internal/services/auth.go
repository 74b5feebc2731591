package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"studysync-backend/internal/middleware"
	"studysync-backend/internal/models"
	"studysync-backend/internal/repository"
)

// AuthService implements the mocked sign-in. There are no passwords: the
// email identifies the user and a returning email resumes the same account.
type AuthService struct {
	users   *repository.UserRepo
	jwtAuth *middleware.JWTAuth
	logger  *zap.Logger
}

func NewAuthService(users *repository.UserRepo, jwtAuth *middleware.JWTAuth, logger *zap.Logger) *AuthService {
	return &AuthService{users: users, jwtAuth: jwtAuth, logger: logger}
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthTokens, error) {
	if err := ValidateStruct(req); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	name := strings.TrimSpace(req.Name)

	user, err := s.users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		if name == "" {
			name = strings.SplitN(email, "@", 2)[0]
		}
		user = &models.User{ID: uuid.NewString(), Name: name, Email: email}
		s.logger.Info("registering new user", zap.String("user_id", user.ID))
	case err != nil:
		return nil, fmt.Errorf("failed to look up user: %w", err)
	case name != "" && name != user.Name:
		user.Name = name
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	if err := s.users.SetLoggedIn(ctx, user.ID, true); err != nil {
		return nil, fmt.Errorf("failed to mark user logged in: %w", err)
	}

	token, err := s.jwtAuth.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &models.AuthTokens{
		AccessToken: token,
		ExpiresIn:   int(s.jwtAuth.TTL.Seconds()),
		User:        user,
	}, nil
}

func (s *AuthService) Logout(ctx context.Context, userID string) error {
	return s.users.SetLoggedIn(ctx, userID, false)
}

// CurrentUser resolves the signed-in user. A token for a logged-out session
// is rejected.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &UnauthorizedError{Message: "Unknown user"}
	}
	if err != nil {
		return nil, err
	}

	loggedIn, err := s.users.IsLoggedIn(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !loggedIn {
		return nil, &UnauthorizedError{Message: "Session has ended. Please sign in again."}
	}
	return user, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.User, error) {
	if err := ValidateStruct(req); err != nil {
		return nil, err
	}
	user, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, &ValidationError{Fields: map[string]string{"name": "name cannot be empty"}}
		}
		user.Name = name
	}
	if req.Avatar != nil {
		user.Avatar = req.Avatar
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return user, nil
}

// Directory lists known users, used to pick invitees for private groups.
func (s *AuthService) Directory(ctx context.Context) ([]models.User, error) {
	return s.users.Directory(ctx)
}

// Custom error types
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "Validation error" }

type ConflictError struct{ Message string }

func (e *ConflictError) Error() string { return e.Message }

type NotFoundError struct{ Message string }

func (e *NotFoundError) Error() string { return e.Message }

type UnauthorizedError struct{ Message string }

func (e *UnauthorizedError) Error() string { return e.Message }

type ForbiddenError struct{ Message string }

func (e *ForbiddenError) Error() string { return e.Message }

type RateLimitError struct{ Message string }

func (e *RateLimitError) Error() string { return e.Message }
