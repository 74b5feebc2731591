package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"studysync-backend/internal/models"
	"studysync-backend/internal/repository"
)

func newChatService(env *testEnv, gen TextGenerator) (*ChatService, *repository.MessageRepo) {
	logger := zap.NewNop()
	msgs := repository.NewMessageRepo(env.store, logger)
	assistant := NewAssistantService(gen, time.Second, logger)
	svc := NewChatService(msgs, env.groups, assistant, env.queue, env.publisher, logger)
	svc.now = func() time.Time { return env.now }
	return svc, msgs
}

func TestChatService_SendRejectsEmpty(t *testing.T) {
	env := newTestEnv()
	svc, msgs := newChatService(env, nil)
	g, _ := env.groups.Create(context.Background(), alice, validGroupRequest())

	for _, content := range []string{"", "   ", "\n\t"} {
		_, err := svc.Send(context.Background(), g.ID, alice, models.SendMessageRequest{Content: content})
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("content %q: expected ValidationError, got %v", content, err)
		}
	}
	if list, _ := msgs.List(context.Background(), g.ID); len(list) != 0 {
		t.Errorf("no message should be stored, got %d", len(list))
	}
}

func TestChatService_SendUnknownGroup(t *testing.T) {
	env := newTestEnv()
	svc, _ := newChatService(env, nil)
	_, err := svc.Send(context.Background(), "missing", alice, models.SendMessageRequest{Content: "hi"})
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestChatService_SendAndList(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	svc, _ := newChatService(env, nil)
	g, _ := env.groups.Create(ctx, alice, validGroupRequest())

	first, err := svc.Send(ctx, g.ID, alice, models.SendMessageRequest{Content: "  see you at 6  "})
	if err != nil {
		t.Fatal(err)
	}
	if first.Content != "see you at 6" || first.User.ID != alice.ID {
		t.Errorf("unexpected message %+v", first)
	}

	env.now = env.now.Add(time.Minute)
	svc.now = func() time.Time { return env.now }
	if _, err := svc.Send(ctx, g.ID, bob, models.SendMessageRequest{Content: "ok"}); err != nil {
		t.Fatal(err)
	}

	all, _ := svc.List(ctx, g.ID, nil)
	if len(all) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(all))
	}
	since := first.Timestamp
	newer, _ := svc.List(ctx, g.ID, &since)
	if len(newer) != 1 || newer[0].UserID != bob.ID {
		t.Errorf("since filter returned %+v", newer)
	}

	pushes := 0
	for _, m := range env.publisher.group[g.ID] {
		if m.Type == models.WSNewMessage {
			pushes++
		}
	}
	if pushes != 2 {
		t.Errorf("expected 2 new_message pushes, got %d", pushes)
	}
	if len(env.queue.jobs) != 0 {
		t.Errorf("no assistant job expected, got %d", len(env.queue.jobs))
	}
}

func TestChatService_ConcurrentSendsAreAllStored(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	svc, msgs := newChatService(env, nil)
	g, _ := env.groups.Create(ctx, alice, validGroupRequest())

	const senders = 50
	var wg sync.WaitGroup
	errs := make(chan error, senders)
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := svc.Send(ctx, g.ID, bob, models.SendMessageRequest{Content: fmt.Sprintf("msg %d", i)}); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("send failed: %v", err)
	}

	stored, err := msgs.List(ctx, g.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != senders {
		t.Fatalf("sent %d, stored %d", senders, len(stored))
	}
	seen := make(map[string]bool, senders)
	for _, m := range stored {
		seen[m.Content] = true
	}
	for i := 0; i < senders; i++ {
		if !seen[fmt.Sprintf("msg %d", i)] {
			t.Errorf("message %d missing", i)
		}
	}
}

func TestChatService_MentionQueuesAssistantJob(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	svc, _ := newChatService(env, nil)
	g, _ := env.groups.Create(ctx, alice, validGroupRequest())

	if _, err := svc.Send(ctx, g.ID, alice, models.SendMessageRequest{Content: "@assistant how do I study for finals?"}); err != nil {
		t.Fatal(err)
	}
	if len(env.queue.jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(env.queue.jobs))
	}
	job := env.queue.jobs[0]
	if job.Type != models.JobAssistantReply || job.GroupID != g.ID || job.Prompt != "how do I study for finals?" {
		t.Errorf("unexpected job %+v", job)
	}
}

func TestChatService_ReplyInGroupFallsBackLocally(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	svc, msgs := newChatService(env, &stubGenerator{err: errors.New("connection refused")})
	g, _ := env.groups.Create(ctx, alice, validGroupRequest())

	err := svc.ReplyInGroup(ctx, &models.Job{Type: models.JobAssistantReply, GroupID: g.ID, Prompt: "exam tips?"})
	if err != nil {
		t.Fatal(err)
	}

	list, _ := msgs.List(ctx, g.ID)
	if len(list) != 1 {
		t.Fatalf("expected assistant message, got %d", len(list))
	}
	reply := list[0]
	if !reply.IsAssistant || !reply.IsLocalResponse || strings.TrimSpace(reply.Content) == "" {
		t.Errorf("unexpected assistant message %+v", reply)
	}
	if reply.UserID != AssistantUser.ID {
		t.Errorf("author = %q", reply.UserID)
	}
}

func TestAssistantPrompt(t *testing.T) {
	tests := []struct {
		in     string
		prompt string
		ok     bool
	}{
		{"@assistant explain limits", "explain limits", true},
		{"hey @Assistant what's next", "hey what's next", true},
		{"@assistant", "Hello", true},
		{"email me at bob@assistant.io", "", false},
		{"no mention here", "", false},
	}
	for _, tt := range tests {
		prompt, ok := AssistantPrompt(tt.in)
		if ok != tt.ok || prompt != tt.prompt {
			t.Errorf("AssistantPrompt(%q) = %q, %v; want %q, %v", tt.in, prompt, ok, tt.prompt, tt.ok)
		}
	}
}
