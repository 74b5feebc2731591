package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"studysync-backend/internal/models"
)

type messageService interface {
	List(ctx context.Context, groupID string, since *time.Time) ([]models.Message, error)
	Send(ctx context.Context, groupID string, user models.User, req models.SendMessageRequest) (*models.Message, error)
}

type MessageHandler struct {
	messages messageService
	users    userResolver
}

func NewMessageHandler(messages messageService, users userResolver) *MessageHandler {
	return &MessageHandler{messages: messages, users: users}
}

// List returns the group's chat log. ?since=<RFC3339> limits it to newer
// messages for polling clients.
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(w, r, h.users); !ok {
		return
	}

	var since *time.Time
	if raw := r.URL.Query().Get("since"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Invalid since parameter",
				map[string]string{"since": "since must be an RFC3339 timestamp"}, r))
			return
		}
		since = &t
	}

	msgs, err := h.messages.List(r.Context(), chi.URLParam(r, "id"), since)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"messages": msgs})
}

func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.users)
	if !ok {
		return
	}

	var req models.SendMessageRequest
	if !decodeBody(w, r, &req) {
		return
	}

	msg, err := h.messages.Send(r.Context(), chi.URLParam(r, "id"), *user, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}
