package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"studysync-backend/internal/models"
	"studysync-backend/internal/repository"
)

// AssistantUser is the author of assistant messages in group chats.
var AssistantUser = models.User{ID: "assistant", Name: "Study Assistant", Email: "assistant@studysync.local"}

var mentionPattern = regexp.MustCompile(`(?i)(^|\s)@assistant\b`)

// ChatService manages group message logs.
type ChatService struct {
	messages  *repository.MessageRepo
	groups    *GroupService
	assistant *AssistantService
	queue     JobQueue
	publisher Publisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewChatService(
	messages *repository.MessageRepo,
	groups *GroupService,
	assistant *AssistantService,
	queue JobQueue,
	publisher Publisher,
	logger *zap.Logger,
) *ChatService {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	return &ChatService{
		messages:  messages,
		groups:    groups,
		assistant: assistant,
		queue:     queue,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// List returns the group's messages, or only those after since when set.
func (s *ChatService) List(ctx context.Context, groupID string, since *time.Time) ([]models.Message, error) {
	if _, err := s.groups.Get(ctx, groupID); err != nil {
		return nil, err
	}
	msgs, err := s.messages.List(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if since == nil {
		return msgs, nil
	}
	out := make([]models.Message, 0, len(msgs))
	for _, m := range msgs {
		if m.Timestamp.After(*since) {
			out = append(out, m)
		}
	}
	return out, nil
}

// Send appends a message. A message mentioning @assistant also queues an
// assistant reply for the group.
func (s *ChatService) Send(ctx context.Context, groupID string, user models.User, req models.SendMessageRequest) (*models.Message, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, &ValidationError{Fields: map[string]string{"content": "Message cannot be empty"}}
	}
	if err := ValidateStruct(req); err != nil {
		return nil, err
	}
	if _, err := s.groups.Get(ctx, groupID); err != nil {
		return nil, err
	}

	msg := models.Message{
		ID:        uuid.NewString(),
		GroupID:   groupID,
		UserID:    user.ID,
		User:      user,
		Content:   content,
		Timestamp: s.now(),
	}
	if err := s.append(ctx, msg); err != nil {
		return nil, err
	}

	if prompt, ok := AssistantPrompt(content); ok && s.queue != nil {
		job := &models.Job{
			ID:        uuid.NewString(),
			Type:      models.JobAssistantReply,
			GroupID:   groupID,
			Prompt:    prompt,
			CreatedAt: s.now(),
		}
		if err := s.queue.Enqueue(ctx, job); err != nil {
			s.logger.Error("failed to queue assistant reply", zap.String("group_id", groupID), zap.Error(err))
		}
	}

	return &msg, nil
}

// ReplyInGroup generates the assistant's answer to a queued mention and posts
// it to the group.
func (s *ChatService) ReplyInGroup(ctx context.Context, job *models.Job) error {
	history, err := s.recentHistory(ctx, job.GroupID, 10)
	if err != nil {
		return err
	}

	reply, err := s.assistant.Reply(ctx, models.ChatRequest{Message: job.Prompt, History: history})
	if err != nil {
		return err
	}

	msg := models.Message{
		ID:              uuid.NewString(),
		GroupID:         job.GroupID,
		UserID:          AssistantUser.ID,
		User:            AssistantUser,
		Content:         reply.Reply,
		Timestamp:       s.now(),
		IsAssistant:     true,
		IsLocalResponse: reply.IsLocalResponse,
	}
	return s.append(ctx, msg)
}

func (s *ChatService) append(ctx context.Context, msg models.Message) error {
	if err := s.messages.Append(ctx, msg); err != nil {
		return fmt.Errorf("failed to save message: %w", err)
	}
	if err := s.publisher.PublishToGroup(ctx, msg.GroupID, models.WSMessage{Type: models.WSNewMessage, Payload: msg}); err != nil {
		s.logger.Warn("failed to publish message", zap.String("group_id", msg.GroupID), zap.Error(err))
	}
	return nil
}

// recentHistory maps the last n messages to assistant turns.
func (s *ChatService) recentHistory(ctx context.Context, groupID string, n int) ([]models.ChatMessage, error) {
	msgs, err := s.messages.List(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if len(msgs) > n {
		msgs = msgs[len(msgs)-n:]
	}
	history := make([]models.ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		role := "user"
		if m.IsAssistant {
			role = "assistant"
		}
		history = append(history, models.ChatMessage{Role: role, Content: m.Content})
	}
	return history, nil
}

// AssistantPrompt reports whether content mentions @assistant and returns
// the text with the mention removed.
func AssistantPrompt(content string) (string, bool) {
	if !mentionPattern.MatchString(content) {
		return "", false
	}
	prompt := strings.Join(strings.Fields(mentionPattern.ReplaceAllString(content, " ")), " ")
	if prompt == "" {
		prompt = "Hello"
	}
	return prompt, true
}
