package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"studysync-backend/internal/handlers"
	"studysync-backend/internal/middleware"
	"studysync-backend/internal/websocket"
)

// clientRoutes maps the SPA's top-level pages onto the API calls that back
// them.
var clientRoutes = map[string]string{
	"/":          "/api/v1/groups?mode=all",
	"/my-groups": "/api/v1/groups?mode=mine",
	"/calendar":  "/api/v1/calendar",
}

type Handlers struct {
	Auth         *handlers.AuthHandler
	Course       *handlers.CourseHandler
	Group        *handlers.GroupHandler
	Message      *handlers.MessageHandler
	Calendar     *handlers.CalendarHandler
	StudySession *handlers.StudySessionHandler
	Chat         *handlers.ChatHandler
	Sync         *handlers.SyncHandler
}

func New(
	jwtAuth *middleware.JWTAuth,
	h Handlers,
	wsHub *websocket.Hub,
	logger *zap.Logger,
	frontendOrigins ...string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.CORS(frontendOrigins...))

	// Auth rate limiter (10 req/min per IP)
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	for path, target := range clientRoutes {
		target := target
		r.Get(path, func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, target, http.StatusTemporaryRedirect)
		})
	}

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Auth Routes ────
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/login", h.Auth.Login)

			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/logout", h.Auth.Logout)
			})
		})

		// ──── User Routes ────
		r.Route("/user", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/me", h.Auth.Me)
			r.Put("/me", h.Auth.UpdateProfile)
			r.Get("/directory", h.Auth.Directory)
		})

		// ──── Course Routes ────
		r.Route("/courses", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", h.Course.List)
			r.Post("/", h.Course.Create)
			r.Delete("/{id}", h.Course.Delete)
		})

		// ──── Study Group Routes ────
		r.Route("/groups", func(r chi.Router) {
			// Browsing works signed out
			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Optional)
				r.Get("/", h.Group.List)
				r.Get("/{id}", h.Group.Get)
			})

			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/", h.Group.Create)
				r.Post("/{id}/join", h.Group.Join)
				r.Post("/{id}/leave", h.Group.Leave)
				r.Get("/{id}/can-join", h.Group.CanJoin)
				r.Get("/{id}/messages", h.Message.List)
				r.Post("/{id}/messages", h.Message.Send)
			})
		})

		// ──── Calendar Routes ────
		r.Route("/calendar", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", h.Calendar.View)
			r.Get("/day", h.Calendar.Day)
			r.Get("/navigate", h.Calendar.Navigate)
			r.Get("/export.ics", h.Calendar.ExportICS)
		})

		r.Route("/events", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", h.Calendar.ListEvents)
			r.Post("/", h.Calendar.CreateEvent)
			r.Put("/{id}", h.Calendar.UpdateEvent)
			r.Delete("/{id}", h.Calendar.DeleteEvent)
		})

		// ──── Study Tracking Routes ────
		r.Route("/study-sessions", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", h.StudySession.List)
			r.Post("/", h.StudySession.Log)
		})

		r.Route("/stats", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", h.StudySession.Stats)
			r.Post("/rebuild", h.StudySession.RebuildStats)
		})

		r.Route("/goals", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", h.StudySession.ListGoals)
			r.Post("/", h.StudySession.CreateGoal)
			r.Post("/{id}/progress", h.StudySession.AddGoalProgress)
			r.Delete("/{id}", h.StudySession.DeleteGoal)
		})

		// ──── Assistant Routes ────
		r.Route("/assistant", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/chat", h.Chat.AskQuestion)
		})

		// ──── Sync ────
		r.Get("/sync/version", h.Sync.Version)

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
