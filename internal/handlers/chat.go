package handlers

import (
	"context"
	"net/http"

	"studysync-backend/internal/models"
)

type assistantService interface {
	Reply(ctx context.Context, req models.ChatRequest) (*models.AssistantReply, error)
}

// ChatHandler is the direct one-on-one assistant conversation. Group chat
// mentions go through the job queue instead.
type ChatHandler struct {
	assistant assistantService
}

func NewChatHandler(assistant assistantService) *ChatHandler {
	return &ChatHandler{assistant: assistant}
}

func (h *ChatHandler) AskQuestion(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if !decodeBody(w, r, &req) {
		return
	}

	reply, err := h.assistant.Reply(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, reply)
}
