package config

import (
	"os"
	"testing"
	"time"
)

func TestGetEnvOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal string
		expected   string
	}{
		{"uses env value", "TEST_VAR_1", "hello", "default", "hello"},
		{"uses default when empty", "TEST_VAR_2", "", "default", "default"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			result := getEnvOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, result)
			}
		})
	}
}

func TestGetEnvAsIntOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal int
		expected   int
	}{
		{"parses integer", "TEST_INT_1", "42", 10, 42},
		{"uses default for empty", "TEST_INT_2", "", 10, 10},
		{"uses default for non-numeric", "TEST_INT_3", "abc", 10, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			result := getEnvAsIntOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, result)
			}
		})
	}
}

func TestMustGetEnv_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for missing required env var")
		}
	}()

	os.Unsetenv("NONEXISTENT_REQUIRED_VAR")
	mustGetEnv("NONEXISTENT_REQUIRED_VAR")
}

func TestMustGetEnv_ReturnsValue(t *testing.T) {
	os.Setenv("TEST_REQUIRED", "value123")
	defer os.Unsetenv("TEST_REQUIRED")

	result := mustGetEnv("TEST_REQUIRED")
	if result != "value123" {
		t.Errorf("Expected 'value123', got %q", result)
	}
}

func TestGetEnvAsDurationOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal time.Duration
		expected   time.Duration
	}{
		{"parses duration", "TEST_DUR_1", "250ms", time.Second, 250 * time.Millisecond},
		{"uses default for empty", "TEST_DUR_2", "", time.Second, time.Second},
		{"uses default for garbage", "TEST_DUR_3", "soon", time.Second, time.Second},
		{"uses default for negative", "TEST_DUR_4", "-5s", time.Second, time.Second},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			result := getEnvAsDurationOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %v, got %v", tc.expected, result)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ENV", "")
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("SYNC_POLL_INTERVAL", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("DB_MAX_CONNS", "")
	t.Setenv("DB_MIN_CONNS", "")
	t.Setenv("DB_CONN_MAX_LIFETIME", "")

	cfg := Load()
	if cfg.StoreBackend != StoreMemory {
		t.Errorf("Expected memory backend, got %q", cfg.StoreBackend)
	}
	if cfg.LogFormat != "console" {
		t.Errorf("Expected console log format in development, got %q", cfg.LogFormat)
	}
	if cfg.SyncPollInterval != 3*time.Second {
		t.Errorf("Expected 3s poll interval, got %v", cfg.SyncPollInterval)
	}
	if cfg.GeminiAPIKey != "" {
		t.Errorf("Expected no Gemini key, got %q", cfg.GeminiAPIKey)
	}
	if cfg.DBMaxConns != 10 || cfg.DBMinConns != 2 || cfg.DBConnMaxLifetime != 30*time.Minute {
		t.Errorf("Unexpected pool defaults: max=%d min=%d lifetime=%v", cfg.DBMaxConns, cfg.DBMinConns, cfg.DBConnMaxLifetime)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected defaults to validate, got %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory needs nothing", Config{StoreBackend: StoreMemory, WorkerCount: 1}, false},
		{"redis without url", Config{StoreBackend: StoreRedis, WorkerCount: 1}, true},
		{"redis with url", Config{StoreBackend: StoreRedis, RedisURL: "redis://localhost:6379", WorkerCount: 1}, false},
		{"postgres without url", Config{StoreBackend: StorePostgres, WorkerCount: 1}, true},
		{"postgres pool", Config{StoreBackend: StorePostgres, DatabaseURL: "postgres://x", DBMaxConns: 10, DBMinConns: 2, WorkerCount: 1}, false},
		{"postgres min above max", Config{StoreBackend: StorePostgres, DatabaseURL: "postgres://x", DBMaxConns: 2, DBMinConns: 5, WorkerCount: 1}, true},
		{"postgres no conns", Config{StoreBackend: StorePostgres, DatabaseURL: "postgres://x", WorkerCount: 1}, true},
		{"unknown backend", Config{StoreBackend: "sqlite", WorkerCount: 1}, true},
		{"no workers", Config{StoreBackend: StoreMemory}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestConfig_FrontendOrigins(t *testing.T) {
	cfg := Config{FrontendURL: "http://a.test, http://b.test,,"}
	got := cfg.FrontendOrigins()
	if len(got) != 2 || got[0] != "http://a.test" || got[1] != "http://b.test" {
		t.Errorf("Unexpected origins: %v", got)
	}
}

func TestLoad_PoolSizingFromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_MAX_CONNS", "25")
	t.Setenv("DB_MIN_CONNS", "4")
	t.Setenv("DB_CONN_MAX_IDLE_TIME", "90s")

	cfg := Load()
	if cfg.DBMaxConns != 25 || cfg.DBMinConns != 4 {
		t.Errorf("Expected 25/4 conns, got %d/%d", cfg.DBMaxConns, cfg.DBMinConns)
	}
	if cfg.DBConnMaxIdleTime != 90*time.Second {
		t.Errorf("Expected 90s idle time, got %v", cfg.DBConnMaxIdleTime)
	}
}
