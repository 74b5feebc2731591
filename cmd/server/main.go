package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"studysync-backend/internal/calendar"
	"studysync-backend/internal/config"
	"studysync-backend/internal/database"
	"studysync-backend/internal/handlers"
	"studysync-backend/internal/logger"
	"studysync-backend/internal/middleware"
	"studysync-backend/internal/repository"
	"studysync-backend/internal/router"
	"studysync-backend/internal/services"
	"studysync-backend/internal/store"
	"studysync-backend/internal/websocket"
	"studysync-backend/internal/worker"
)

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()

	zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("✗ Logger initialization failed: %v", err)
	}
	defer zlog.Sync()

	if err := cfg.Validate(); err != nil {
		zlog.Fatal("invalid configuration", zap.Error(err))
	}
	zlog.Info("Starting StudySync backend", zap.String("env", cfg.Env), zap.String("store", cfg.StoreBackend))

	rootCtx, stopRoot := context.WithCancel(context.Background())
	defer stopRoot()

	// ──── Step 2: Redis (optional) ────
	var redisClients *database.RedisClients
	if cfg.RedisURL != "" {
		redisClients, err = database.NewRedisClients(rootCtx, cfg.RedisURL)
		if err != nil {
			zlog.Fatal("Redis connection failed", zap.Error(err))
		}
		defer redisClients.Close()
		zlog.Info("Redis connected")
	}

	// ──── Step 3: Entity Store ────
	var kv store.Store
	switch cfg.StoreBackend {
	case config.StorePostgres:
		pool, err := database.NewPostgresPool(rootCtx, cfg.DatabaseURL, database.PoolOptions{
			MaxConns:        cfg.DBMaxConns,
			MinConns:        cfg.DBMinConns,
			MaxConnLifetime: cfg.DBConnMaxLifetime,
			MaxConnIdleTime: cfg.DBConnMaxIdleTime,
		})
		if err != nil {
			zlog.Fatal("PostgreSQL connection failed", zap.Error(err))
		}
		defer pool.Close()
		if err := database.RunMigrations(rootCtx, pool, "migrations", zlog); err != nil {
			zlog.Fatal("Database migration failed", zap.Error(err))
		}
		kv = store.NewPostgresStore(pool)
	case config.StoreRedis:
		kv = store.NewRedisStore(redisClients.Data, "studysync")
	default:
		kv = store.NewMemoryStore()
		zlog.Warn("Using in-memory store; data is lost on restart")
	}

	// ──── Initialize Repositories ────
	userRepo := repository.NewUserRepo(kv, zlog)
	courseRepo := repository.NewCourseRepo(kv, zlog)
	groupRepo := repository.NewGroupRepo(kv, zlog)
	messageRepo := repository.NewMessageRepo(kv, zlog)
	eventRepo := repository.NewEventRepo(kv, zlog)
	goalRepo := repository.NewGoalRepo(kv, zlog)
	sessionRepo := repository.NewSessionRepo(kv, zlog)
	statsRepo := repository.NewStatsRepo(kv, zlog)

	// ──── Step 4: WebSocket Hub ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret, cfg.TokenTTL)
	wsHub := newHub(redisClients, jwtAuth, zlog)
	go wsHub.Run(rootCtx)

	// ──── Step 5: Assistant ────
	var generator services.TextGenerator
	if cfg.GeminiAPIKey != "" {
		gemini, err := services.NewGeminiGenerator(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiConcurrentReqs, zlog)
		if err != nil {
			zlog.Fatal("Gemini client initialization failed", zap.Error(err))
		}
		defer gemini.Close()
		generator = gemini
		zlog.Info("Gemini client initialized", zap.String("model", cfg.GeminiModel))
	} else {
		zlog.Warn("GEMINI_API_KEY not set; assistant answers locally")
	}

	// ──── Step 6: Job Queue ────
	var queue worker.Queue
	if redisClients != nil {
		queue = worker.NewRedisQueue(redisClients.Queue)
	} else {
		queue = worker.NewMemoryQueue(256)
	}

	// ──── Initialize Services ────
	authService := services.NewAuthService(userRepo, jwtAuth, zlog)
	groupService := services.NewGroupService(groupRepo, courseRepo, wsHub, zlog)
	courseService := services.NewCourseService(courseRepo, zlog)
	studyService := services.NewStudyService(sessionRepo, statsRepo, goalRepo, zlog)
	calendarService := services.NewCalendarService(groupService, eventRepo, calendar.NewMapper(zlog), zlog)
	assistantService := services.NewAssistantService(generator, cfg.AssistantTimeout, zlog)
	chatService := services.NewChatService(messageRepo, groupService, assistantService, queue, wsHub, zlog)
	syncService := services.NewSyncService(groupRepo, wsHub, cfg.SyncPollInterval, zlog)

	// ──── Step 7: Background Work ────
	workerPool := worker.NewPool(queue, chatService, cfg.WorkerCount, cfg.AssistantTimeout+5*time.Second, zlog)
	workerPool.Start()

	if err := syncService.Start(); err != nil {
		zlog.Fatal("Group sync failed to start", zap.Error(err))
	}

	// ──── Step 8: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		router.Handlers{
			Auth:         handlers.NewAuthHandler(authService),
			Course:       handlers.NewCourseHandler(courseService),
			Group:        handlers.NewGroupHandler(groupService, authService),
			Message:      handlers.NewMessageHandler(chatService, authService),
			Calendar:     handlers.NewCalendarHandler(calendarService, authService),
			StudySession: handlers.NewStudySessionHandler(studyService),
			Chat:         handlers.NewChatHandler(assistantService),
			Sync:         handlers.NewSyncHandler(syncService),
		},
		wsHub,
		zlog,
		cfg.FrontendOrigins()...,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		zlog.Info("Shutting down...")
		syncService.Stop()
		workerPool.Stop()
		stopRoot()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	zlog.Info("StudySync backend ready",
		zap.String("api", fmt.Sprintf("http://localhost:%s/api/v1", cfg.Port)),
		zap.String("ws", fmt.Sprintf("ws://localhost:%s/api/v1/ws", cfg.Port)))

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		zlog.Fatal("Server error", zap.Error(err))
	}
}

// newHub fans out over redis pub/sub when redis is configured so several
// instances share websocket traffic.
func newHub(clients *database.RedisClients, jwtAuth *middleware.JWTAuth, logger *zap.Logger) *websocket.Hub {
	if clients == nil {
		return websocket.NewHub(nil, jwtAuth, logger)
	}
	return websocket.NewHub(clients.PubSub, jwtAuth, logger)
}
