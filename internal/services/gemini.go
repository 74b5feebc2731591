package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"studysync-backend/internal/models"
)

const assistantInstruction = `You are StudySync's study assistant. You help students plan study sessions,
organize study groups, prepare for exams and understand course material.
Keep answers short, practical and friendly. Use plain text, no markdown headings.`

// TextGenerator produces an assistant reply for message given the prior turns.
type TextGenerator interface {
	Generate(ctx context.Context, history []models.ChatMessage, message string) (string, error)
}

// SafetyBlockError reports a prompt or reply withheld by the provider's
// safety filters.
type SafetyBlockError struct {
	Reason string
}

func (e *SafetyBlockError) Error() string {
	return "response blocked by safety filters: " + e.Reason
}

type GeminiGenerator struct {
	client   *genai.Client
	model    *genai.GenerativeModel
	logger   *zap.Logger
	rateChan chan struct{} // Token bucket
	rateWait time.Duration
}

func NewGeminiGenerator(apiKey, modelName string, concurrentReqs int, logger *zap.Logger) (*GeminiGenerator, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.7)
	model.SetTopP(0.95)
	model.SetMaxOutputTokens(1024)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(assistantInstruction)}}

	if concurrentReqs < 1 {
		concurrentReqs = 1
	}
	// Token bucket for rate limiting
	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	return &GeminiGenerator{
		client:   client,
		model:    model,
		logger:   logger,
		rateChan: rateChan,
		rateWait: 30 * time.Second,
	}, nil
}

func (g *GeminiGenerator) Close() {
	g.client.Close()
}

// acquireRate blocks until a rate slot is available
func (g *GeminiGenerator) acquireRate(ctx context.Context) error {
	select {
	case <-g.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(g.rateWait):
		return &RateLimitError{Message: "timeout waiting for Gemini rate slot"}
	}
}

func (g *GeminiGenerator) releaseRate() {
	g.rateChan <- struct{}{}
}

func (g *GeminiGenerator) Generate(ctx context.Context, history []models.ChatMessage, message string) (string, error) {
	if err := g.acquireRate(ctx); err != nil {
		return "", err
	}
	defer g.releaseRate()

	cs := g.model.StartChat()
	for _, turn := range history {
		if strings.TrimSpace(turn.Content) == "" {
			continue
		}
		role := "user"
		if turn.Role == "assistant" {
			role = "model"
		}
		cs.History = append(cs.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(turn.Content)},
		})
	}

	resp, err := cs.SendMessage(ctx, genai.Text(message))
	if err != nil {
		var blocked *genai.BlockedError
		if errors.As(err, &blocked) {
			return "", &SafetyBlockError{Reason: blockReason(blocked)}
		}
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	for i, cand := range resp.Candidates {
		if cand.FinishReason == genai.FinishReasonSafety {
			return "", &SafetyBlockError{Reason: cand.FinishReason.String()}
		}
		if cand.FinishReason != genai.FinishReasonStop {
			g.logger.Debug("gemini candidate finished early",
				zap.Int("candidate", i),
				zap.String("finish_reason", cand.FinishReason.String()))
		}
	}

	return strings.TrimSpace(extractText(resp)), nil
}

func blockReason(b *genai.BlockedError) string {
	if b.PromptFeedback != nil {
		return b.PromptFeedback.BlockReason.String()
	}
	if b.Candidate != nil {
		return b.Candidate.FinishReason.String()
	}
	return "unknown"
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
