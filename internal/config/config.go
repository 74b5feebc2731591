package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Logging
	LogLevel  string
	LogFormat string

	// Persistence
	StoreBackend string
	DatabaseURL  string
	RedisURL     string

	// PostgreSQL pool
	DBMaxConns        int
	DBMinConns        int
	DBConnMaxLifetime time.Duration
	DBConnMaxIdleTime time.Duration

	// JWT
	JWTSecret string
	TokenTTL  time.Duration

	// Gemini AI
	GeminiAPIKey         string
	GeminiModel          string
	GeminiConcurrentReqs int
	AssistantTimeout     time.Duration

	// Background work
	SyncPollInterval time.Duration
	WorkerCount      int

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	env := getEnvOrDefault("ENV", "development")
	defaultFormat := "json"
	if env == "development" {
		defaultFormat = "console"
	}

	cfg := &Config{
		Port:                 getEnvOrDefault("PORT", "8080"),
		Env:                  env,
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", defaultFormat),
		StoreBackend:         strings.ToLower(getEnvOrDefault("STORE_BACKEND", StoreMemory)),
		DatabaseURL:          getEnvOrDefault("DATABASE_URL", ""),
		RedisURL:             getEnvOrDefault("REDIS_URL", ""),
		DBMaxConns:           getEnvAsIntOrDefault("DB_MAX_CONNS", 10),
		DBMinConns:           getEnvAsIntOrDefault("DB_MIN_CONNS", 2),
		DBConnMaxLifetime:    getEnvAsDurationOrDefault("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		DBConnMaxIdleTime:    getEnvAsDurationOrDefault("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
		JWTSecret:            mustGetEnv("JWT_SECRET"),
		TokenTTL:             getEnvAsDurationOrDefault("TOKEN_TTL", 24*time.Hour),
		GeminiAPIKey:         getEnvOrDefault("GEMINI_API_KEY", ""),
		GeminiModel:          getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiConcurrentReqs: getEnvAsIntOrDefault("GEMINI_CONCURRENT_REQUESTS", 5),
		AssistantTimeout:     getEnvAsDurationOrDefault("ASSISTANT_TIMEOUT", 15*time.Second),
		SyncPollInterval:     getEnvAsDurationOrDefault("SYNC_POLL_INTERVAL", 3*time.Second),
		WorkerCount:          getEnvAsIntOrDefault("WORKER_COUNT", 2),
		FrontendURL:          getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	return cfg
}

// Validate checks that the selected backends have what they need.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreMemory:
	case StoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("STORE_BACKEND=redis requires REDIS_URL")
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("STORE_BACKEND=postgres requires DATABASE_URL")
		}
		if c.DBMaxConns < 1 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
			return fmt.Errorf("DB_MIN_CONNS (%d) must be between 0 and DB_MAX_CONNS (%d), and DB_MAX_CONNS at least 1", c.DBMinConns, c.DBMaxConns)
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q (want memory, redis or postgres)", c.StoreBackend)
	}
	if c.WorkerCount < 1 {
		return fmt.Errorf("WORKER_COUNT must be at least 1")
	}
	return nil
}

// FrontendOrigins splits FRONTEND_URL on commas.
func (c *Config) FrontendOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.FrontendURL, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}
