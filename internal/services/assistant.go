package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"studysync-backend/internal/models"
)

// Reasons reported when the local responder answers instead of the generator.
const (
	FallbackUnavailable = "unavailable"
	FallbackTimeout     = "timeout"
	FallbackSafetyBlock = "safety_block"
	FallbackEmpty       = "empty_response"
	FallbackError       = "error"
)

// AssistantService answers chat prompts with the external generator and
// falls back to the local responder on any failure.
type AssistantService struct {
	generator TextGenerator
	local     *LocalResponder
	timeout   time.Duration
	logger    *zap.Logger
}

// NewAssistantService accepts a nil generator, in which case every reply is
// local.
func NewAssistantService(generator TextGenerator, timeout time.Duration, logger *zap.Logger) *AssistantService {
	return &AssistantService{
		generator: generator,
		local:     NewLocalResponder(),
		timeout:   timeout,
		logger:    logger,
	}
}

func (s *AssistantService) Reply(ctx context.Context, req models.ChatRequest) (*models.AssistantReply, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, &ValidationError{Fields: map[string]string{"message": "Message is required"}}
	}

	if s.generator == nil {
		return s.localReply(message, FallbackUnavailable), nil
	}

	genCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	text, err := s.generator.Generate(genCtx, req.History, message)
	if err != nil {
		reason := fallbackReason(err)
		s.logger.Warn("assistant generator failed, using local responder",
			zap.String("reason", reason),
			zap.Error(err))
		return s.localReply(message, reason), nil
	}
	if strings.TrimSpace(text) == "" {
		s.logger.Warn("assistant generator returned empty text, using local responder")
		return s.localReply(message, FallbackEmpty), nil
	}

	return &models.AssistantReply{Reply: text}, nil
}

func (s *AssistantService) localReply(message, reason string) *models.AssistantReply {
	return &models.AssistantReply{
		Reply:           s.local.Respond(message),
		IsLocalResponse: true,
		FallbackReason:  reason,
	}
}

func fallbackReason(err error) string {
	var blocked *SafetyBlockError
	switch {
	case errors.As(err, &blocked):
		return FallbackSafetyBlock
	case errors.Is(err, context.DeadlineExceeded):
		return FallbackTimeout
	default:
		return FallbackError
	}
}
