package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"studysync-backend/internal/middleware"
	"studysync-backend/internal/models"
)

type studyService interface {
	LogSession(ctx context.Context, userID string, req models.LogSessionRequest) (*models.StudySession, *models.StudyStats, error)
	ListSessions(ctx context.Context, userID string) ([]models.StudySession, error)
	Stats(ctx context.Context, userID string) (*models.StudyStats, error)
	RebuildStats(ctx context.Context, userID string) (*models.StudyStats, error)
	ListGoals(ctx context.Context, userID string) ([]models.StudyGoal, error)
	CreateGoal(ctx context.Context, userID string, req models.CreateGoalRequest) (*models.StudyGoal, error)
	AddGoalProgress(ctx context.Context, userID, goalID string, req models.GoalProgressRequest) (*models.StudyGoal, error)
	DeleteGoal(ctx context.Context, userID, goalID string) error
}

type StudySessionHandler struct {
	study studyService
}

func NewStudySessionHandler(study studyService) *StudySessionHandler {
	return &StudySessionHandler{study: study}
}

func (h *StudySessionHandler) Log(w http.ResponseWriter, r *http.Request) {
	var req models.LogSessionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	session, stats, err := h.study.LogSession(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"session": session,
		"stats":   stats,
	})
}

func (h *StudySessionHandler) List(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.study.ListSessions(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions})
}

func (h *StudySessionHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.study.Stats(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *StudySessionHandler) RebuildStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.study.RebuildStats(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *StudySessionHandler) ListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := h.study.ListGoals(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"goals": goals})
}

func (h *StudySessionHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var req models.CreateGoalRequest
	if !decodeBody(w, r, &req) {
		return
	}

	goal, err := h.study.CreateGoal(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, goal)
}

func (h *StudySessionHandler) AddGoalProgress(w http.ResponseWriter, r *http.Request) {
	var req models.GoalProgressRequest
	if !decodeBody(w, r, &req) {
		return
	}

	goal, err := h.study.AddGoalProgress(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

func (h *StudySessionHandler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := h.study.DeleteGoal(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
