package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"studysync-backend/internal/calendar"
	"studysync-backend/internal/middleware"
	"studysync-backend/internal/models"
)

type calendarService interface {
	View(ctx context.Context, user models.User, view calendar.ViewType, focus time.Time) (*calendar.View, error)
	Day(ctx context.Context, user models.User, date time.Time) (*calendar.Items, error)
	Navigate(ctx context.Context, user models.User, view calendar.ViewType, focus time.Time, dir calendar.Direction) (*calendar.View, error)
	ExportICS(ctx context.Context, user models.User) (string, error)
	ListEvents(ctx context.Context, userID string) ([]models.UserEvent, error)
	CreateEvent(ctx context.Context, userID string, req models.EventRequest) (*models.UserEvent, error)
	UpdateEvent(ctx context.Context, userID, id string, req models.EventRequest) (*models.UserEvent, error)
	DeleteEvent(ctx context.Context, userID, id string) error
}

const dateLayout = "2006-01-02"

type CalendarHandler struct {
	calendar calendarService
	users    userResolver
	now      func() time.Time
}

func NewCalendarHandler(calendar calendarService, users userResolver) *CalendarHandler {
	return &CalendarHandler{calendar: calendar, users: users, now: time.Now}
}

// View renders ?view=day|week|month around ?date=YYYY-MM-DD (default today).
func (h *CalendarHandler) View(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.users)
	if !ok {
		return
	}
	view, focus, ok := h.viewParams(w, r)
	if !ok {
		return
	}

	v, err := h.calendar.View(r.Context(), *user, view, focus)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *CalendarHandler) Day(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.users)
	if !ok {
		return
	}
	date, ok := h.dateParam(w, r)
	if !ok {
		return
	}

	items, err := h.calendar.Day(r.Context(), *user, date)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Navigate applies ?dir=prev|next|today to the view described by the other
// parameters and returns the new view.
func (h *CalendarHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.users)
	if !ok {
		return
	}
	view, focus, ok := h.viewParams(w, r)
	if !ok {
		return
	}
	dir, err := calendar.ParseDirection(r.URL.Query().Get("dir"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Invalid direction",
			map[string]string{"dir": "dir must be one of: prev next today"}, r))
		return
	}

	v, err := h.calendar.Navigate(r.Context(), *user, view, focus, dir)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *CalendarHandler) ExportICS(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.users)
	if !ok {
		return
	}

	ics, err := h.calendar.ExportICS(r.Context(), *user)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="studysync.ics"`)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(ics))
}

func (h *CalendarHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.calendar.ListEvents(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"events": events})
}

func (h *CalendarHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req models.EventRequest
	if !decodeBody(w, r, &req) {
		return
	}

	event, err := h.calendar.CreateEvent(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

func (h *CalendarHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req models.EventRequest
	if !decodeBody(w, r, &req) {
		return
	}

	event, err := h.calendar.UpdateEvent(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *CalendarHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.calendar.DeleteEvent(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CalendarHandler) viewParams(w http.ResponseWriter, r *http.Request) (calendar.ViewType, time.Time, bool) {
	view, err := calendar.ParseViewType(r.URL.Query().Get("view"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Invalid view",
			map[string]string{"view": "view must be one of: day week month"}, r))
		return 0, time.Time{}, false
	}
	focus, ok := h.dateParam(w, r)
	return view, focus, ok
}

func (h *CalendarHandler) dateParam(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return calendar.StartOfDay(h.now()), true
	}
	date, err := time.Parse(dateLayout, raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Invalid date",
			map[string]string{"date": "date must match the format 2006-01-02"}, r))
		return time.Time{}, false
	}
	return date, true
}
