package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"studysync-backend/internal/groups"
	"studysync-backend/internal/middleware"
	"studysync-backend/internal/models"
)

type groupService interface {
	List(ctx context.Context, viewer *models.User, f groups.Filter) ([]models.StudyGroup, error)
	Get(ctx context.Context, id string) (*models.StudyGroup, error)
	Create(ctx context.Context, creator models.User, req models.CreateGroupRequest) (*models.StudyGroup, error)
	Join(ctx context.Context, groupID string, user models.User) (*models.MembershipResponse, error)
	Leave(ctx context.Context, groupID string, user models.User) (*models.MembershipResponse, error)
	CanJoin(ctx context.Context, groupID, userID string) (*models.MembershipResponse, error)
}

type GroupHandler struct {
	groups groupService
	users  userResolver
}

func NewGroupHandler(groups groupService, users userResolver) *GroupHandler {
	return &GroupHandler{groups: groups, users: users}
}

// List serves both the discovery page (mode=all) and My Groups (mode=mine).
// The token is optional; an anonymous caller only sees public groups.
func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	mode, err := groups.ParseMode(q.Get("mode"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Invalid listing mode",
			map[string]string{"mode": "mode must be one of: all mine"}, r))
		return
	}
	tags, err := groups.ParseTags(q.Get("tags"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Invalid tag filter",
			map[string]string{"tags": "tags must be any of: " + tagList()}, r))
		return
	}

	var viewer *models.User
	if userID := middleware.GetUserID(r.Context()); userID != "" {
		if user, err := h.users.CurrentUser(r.Context(), userID); err == nil {
			viewer = user
		}
	}

	list, err := h.groups.List(r.Context(), viewer, groups.Filter{
		Mode:       mode,
		CourseID:   q.Get("course"),
		Tags:       tags,
		SearchText: q.Get("q"),
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"groups": list,
		"mode":   mode.String(),
	})
}

func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	g, err := h.groups.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.users)
	if !ok {
		return
	}

	var req models.CreateGroupRequest
	if !decodeBody(w, r, &req) {
		return
	}

	g, err := h.groups.Create(r.Context(), *user, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (h *GroupHandler) Join(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.users)
	if !ok {
		return
	}

	resp, err := h.groups.Join(r.Context(), chi.URLParam(r, "id"), *user)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *GroupHandler) Leave(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.users)
	if !ok {
		return
	}

	resp, err := h.groups.Leave(r.Context(), chi.URLParam(r, "id"), *user)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *GroupHandler) CanJoin(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.users)
	if !ok {
		return
	}

	resp, err := h.groups.CanJoin(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func tagList() string {
	names := make([]string, len(models.StudyTags))
	for i, tag := range models.StudyTags {
		names[i] = string(tag)
	}
	return strings.Join(names, " ")
}
