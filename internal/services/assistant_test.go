package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"studysync-backend/internal/models"
)

func TestAssistantReply_FallsBackOnGeneratorFailure(t *testing.T) {
	tests := []struct {
		name       string
		generator  TextGenerator
		timeout    time.Duration
		wantReason string
	}{
		{"no generator", nil, time.Second, FallbackUnavailable},
		{"api error", &stubGenerator{err: errors.New("503 from upstream")}, time.Second, FallbackError},
		{"safety block", &stubGenerator{err: &SafetyBlockError{Reason: "SAFETY"}}, time.Second, FallbackSafetyBlock},
		{"timeout", &stubGenerator{text: "late", delay: time.Second}, 10 * time.Millisecond, FallbackTimeout},
		{"empty text", &stubGenerator{text: "   "}, time.Second, FallbackEmpty},
		{"rate slot timeout", &stubGenerator{err: &RateLimitError{Message: "busy"}}, time.Second, FallbackError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewAssistantService(tt.generator, tt.timeout, zap.NewNop())
			reply, err := svc.Reply(context.Background(), models.ChatRequest{Message: "How should I prepare for my exam?"})
			if err != nil {
				t.Fatalf("expected fallback, got error %v", err)
			}
			if !reply.IsLocalResponse {
				t.Error("expected isLocalResponse=true")
			}
			if strings.TrimSpace(reply.Reply) == "" {
				t.Error("fallback reply must not be empty")
			}
			if reply.FallbackReason != tt.wantReason {
				t.Errorf("reason = %q, want %q", reply.FallbackReason, tt.wantReason)
			}
		})
	}
}

func TestAssistantReply_UsesGenerator(t *testing.T) {
	gen := &stubGenerator{text: "Review chapter 3."}
	svc := NewAssistantService(gen, time.Second, zap.NewNop())

	reply, err := svc.Reply(context.Background(), models.ChatRequest{Message: "what next?"})
	if err != nil {
		t.Fatal(err)
	}
	if reply.IsLocalResponse || reply.Reply != "Review chapter 3." {
		t.Errorf("unexpected reply %+v", reply)
	}
	if gen.calls != 1 {
		t.Errorf("generator called %d times", gen.calls)
	}
}

func TestAssistantReply_EmptyMessage(t *testing.T) {
	svc := NewAssistantService(&stubGenerator{text: "x"}, time.Second, zap.NewNop())
	_, err := svc.Reply(context.Background(), models.ChatRequest{Message: "  \n"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestLocalResponder_NeverEmpty(t *testing.T) {
	r := NewLocalResponder()
	inputs := []string{"", "hello", "EXAM tomorrow", "zzz qqq", "I keep procrastinating", "any tips for flashcards?", "🙂"}
	for _, in := range inputs {
		if strings.TrimSpace(r.Respond(in)) == "" {
			t.Errorf("empty response for %q", in)
		}
	}
}

func TestLocalResponder_IsDeterministic(t *testing.T) {
	r := NewLocalResponder()
	a := r.Respond("help me plan my exam schedule")
	b := r.Respond("help me plan my exam schedule")
	if a != b {
		t.Error("same input produced different responses")
	}
	if r.Respond("flashcards please") == r.Respond("unrelated words") {
		t.Error("keyword rule should differ from the generic fallback")
	}
}
