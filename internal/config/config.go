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
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreSQLite   = "sqlite"
	StoreFile     = "file"
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

type Config struct {
	Addr                 string
	StoreDriver          string
	DBPath               string
	ProgressFile         string
	RedisURL             string
	RedisKeyPrefix       string
	DatabaseURL          string
	ContentPath          string
	LogLevel             string
	LogFormat            string
	SearchAppID          string
	SearchAPIKey         string
	SearchAdminKey       string
	SearchTopicsIndex    string
	SearchQuestionsIndex string
	SearchTimeoutMS      int
	StoreTimeoutMS       int
	IndexWorkerCount     int
	IndexQueueSize       int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                 envOr("ADDR", ":8080"),
		StoreDriver:          strings.ToLower(envOr("STORE_DRIVER", StoreSQLite)),
		DBPath:               envOr("DB_PATH", "file:studystream.db"),
		ProgressFile:         envOr("PROGRESS_FILE", "studystream-progress.json"),
		RedisURL:             envOr("REDIS_URL", ""),
		RedisKeyPrefix:       envOr("REDIS_KEY_PREFIX", "studystream:"),
		DatabaseURL:          envOr("DATABASE_URL", ""),
		ContentPath:          envOr("CONTENT_PATH", ""),
		LogLevel:             envOr("LOG_LEVEL", "INFO"),
		LogFormat:            envOr("LOG_FORMAT", "text"),
		SearchAppID:          envOr("SEARCH_APP_ID", ""),
		SearchAPIKey:         envOr("SEARCH_API_KEY", ""),
		SearchAdminKey:       envOr("SEARCH_ADMIN_KEY", ""),
		SearchTopicsIndex:    envOr("SEARCH_TOPICS_INDEX", "study_topics"),
		SearchQuestionsIndex: envOr("SEARCH_QUESTIONS_INDEX", "practice_questions"),
		SearchTimeoutMS:      envIntOr("SEARCH_TIMEOUT_MS", 3000),
		StoreTimeoutMS:       envIntOr("STORE_TIMEOUT_MS", 5000),
		IndexWorkerCount:     envIntOr("INDEX_WORKER_COUNT", 1),
		IndexQueueSize:       envIntOr("INDEX_QUEUE_SIZE", 8),
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	if c.Addr == "" {
		errs = append(errs, errors.New("ADDR cannot be empty"))
	}

	switch c.StoreDriver {
	case StoreSQLite:
		if c.DBPath == "" {
			errs = append(errs, errors.New("DB_PATH cannot be empty when STORE_DRIVER=sqlite"))
		}
	case StoreFile:
		if c.ProgressFile == "" {
			errs = append(errs, errors.New("PROGRESS_FILE cannot be empty when STORE_DRIVER=file"))
		}
	case StoreRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL is required when STORE_DRIVER=redis"))
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when STORE_DRIVER=postgres"))
		}
	case StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER %q is not one of sqlite, file, memory, redis, postgres", c.StoreDriver))
	}

	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL %q must be DEBUG, INFO, WARN or ERROR", c.LogLevel))
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT %q must be text or json", c.LogFormat))
	}

	if c.SearchAppID != "" && c.SearchAPIKey == "" {
		errs = append(errs, errors.New("SEARCH_API_KEY is required when SEARCH_APP_ID is set"))
	}
	if c.SearchTimeoutMS <= 0 {
		errs = append(errs, fmt.Errorf("SEARCH_TIMEOUT_MS must be positive, got %d", c.SearchTimeoutMS))
	}
	if c.StoreTimeoutMS <= 0 {
		errs = append(errs, fmt.Errorf("STORE_TIMEOUT_MS must be positive, got %d", c.StoreTimeoutMS))
	}
	if c.IndexWorkerCount <= 0 {
		errs = append(errs, fmt.Errorf("INDEX_WORKER_COUNT must be positive, got %d", c.IndexWorkerCount))
	}
	if c.IndexQueueSize <= 0 {
		errs = append(errs, fmt.Errorf("INDEX_QUEUE_SIZE must be positive, got %d", c.IndexQueueSize))
	}

	return errors.Join(errs...)
}

// SearchEnabled reports whether remote search credentials are configured.
func (c Config) SearchEnabled() bool {
	return c.SearchAppID != "" && c.SearchAPIKey != ""
}

func (c Config) SearchTimeout() time.Duration {
	return time.Duration(c.SearchTimeoutMS) * time.Millisecond
}

func (c Config) StoreTimeout() time.Duration {
	return time.Duration(c.StoreTimeoutMS) * time.Millisecond
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
