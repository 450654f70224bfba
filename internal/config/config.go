package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/vytor/flashdeck/internal/logger"
)

type Config struct {
	Addr                  string
	DBPath                string
	LogLevel              string
	ReviewRefreshSeconds  int
	HistoryWorkerCount    int
	HistoryQueueSize      int
	RequestTimeoutSeconds int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                  envOr("ADDR", ":8080"),
		DBPath:                envOr("DB_PATH", "file:flashdeck.db"),
		LogLevel:              envOr("LOG_LEVEL", "INFO"),
		ReviewRefreshSeconds:  envIntOr("REVIEW_REFRESH_SECONDS", 60),
		HistoryWorkerCount:    envIntOr("HISTORY_WORKER_COUNT", 1),
		HistoryQueueSize:      envIntOr("HISTORY_QUEUE_SIZE", 64),
		RequestTimeoutSeconds: envIntOr("REQUEST_TIMEOUT_SECONDS", 15),
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("ADDR cannot be empty"))
	}
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("DB_PATH cannot be empty"))
	}
	if _, ok := logger.LookupLevel(c.LogLevel); !ok {
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR (got %q)", c.LogLevel))
	}
	if c.ReviewRefreshSeconds < 0 {
		errs = append(errs, fmt.Errorf("REVIEW_REFRESH_SECONDS must be >= 0 (got %d)", c.ReviewRefreshSeconds))
	}
	if c.HistoryWorkerCount < 1 {
		errs = append(errs, fmt.Errorf("HISTORY_WORKER_COUNT must be >= 1 (got %d)", c.HistoryWorkerCount))
	}
	if c.HistoryQueueSize < 1 {
		errs = append(errs, fmt.Errorf("HISTORY_QUEUE_SIZE must be >= 1 (got %d)", c.HistoryQueueSize))
	}
	if c.RequestTimeoutSeconds < 1 {
		errs = append(errs, fmt.Errorf("REQUEST_TIMEOUT_SECONDS must be >= 1 (got %d)", c.RequestTimeoutSeconds))
	}
	return errors.Join(errs...)
}

func (c Config) ReviewRefreshWindow() time.Duration {
	return time.Duration(c.ReviewRefreshSeconds) * time.Second
}

func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
