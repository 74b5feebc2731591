package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"studysync-backend/internal/middleware"
	"studysync-backend/internal/models"
)

type courseService interface {
	List(ctx context.Context, userID string) ([]models.Course, error)
	Create(ctx context.Context, userID string, req models.CreateCourseRequest) (*models.Course, error)
	Delete(ctx context.Context, userID, id string) error
}

type CourseHandler struct {
	courses courseService
}

func NewCourseHandler(courses courseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courses.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"courses": courses})
}

func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCourseRequest
	if !decodeBody(w, r, &req) {
		return
	}

	course, err := h.courses.Create(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, course)
}

func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.courses.Delete(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
