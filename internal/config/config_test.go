package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/studystream/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:                 ":8080",
		StoreDriver:          config.StoreSQLite,
		DBPath:               "test.db",
		LogLevel:             "INFO",
		LogFormat:            "text",
		SearchTopicsIndex:    "study_topics",
		SearchQuestionsIndex: "practice_questions",
		SearchTimeoutMS:      3000,
		StoreTimeoutMS:       5000,
		IndexWorkerCount:     1,
		IndexQueueSize:       8,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_EmptyAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR cannot be empty")
}

func TestValidate_StoreDrivers(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(*config.Config)
		expectedError string
	}{
		{
			name:          "sqlite without path",
			mutate:        func(c *config.Config) { c.DBPath = "" },
			expectedError: "DB_PATH",
		},
		{
			name: "file without path",
			mutate: func(c *config.Config) {
				c.StoreDriver = config.StoreFile
				c.ProgressFile = ""
			},
			expectedError: "PROGRESS_FILE",
		},
		{
			name:          "redis without url",
			mutate:        func(c *config.Config) { c.StoreDriver = config.StoreRedis },
			expectedError: "REDIS_URL",
		},
		{
			name:          "postgres without url",
			mutate:        func(c *config.Config) { c.StoreDriver = config.StorePostgres },
			expectedError: "DATABASE_URL",
		},
		{
			name:          "unknown driver",
			mutate:        func(c *config.Config) { c.StoreDriver = "mongo" },
			expectedError: "STORE_DRIVER",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedError)
		})
	}
}

func TestValidate_MemoryDriverNeedsNothing(t *testing.T) {
	cfg := validConfig()
	cfg.StoreDriver = config.StoreMemory
	cfg.DBPath = ""

	assert.NoError(t, cfg.Validate())
}

func TestValidate_LogLevel(t *testing.T) {
	tests := []struct {
		level string
		ok    bool
	}{
		{"DEBUG", true},
		{"info", true},
		{"WARN", true},
		{"ERROR", true},
		{"INVALID", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.LogLevel = tt.level

			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "LOG_LEVEL")
			}
		})
	}
}

func TestValidate_SearchKeyRequiredWithAppID(t *testing.T) {
	cfg := validConfig()
	cfg.SearchAppID = "APP123"

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "SEARCH_API_KEY")

	cfg.SearchAPIKey = "key"
	assert.NoError(t, cfg.Validate())
	assert.True(t, cfg.SearchEnabled())
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := config.Config{
		StoreDriver: "nope",
		LogLevel:    "INVALID",
		LogFormat:   "xml",
	}

	err := cfg.Validate()
	require.Error(t, err)

	errStr := err.Error()
	assert.Contains(t, errStr, "ADDR cannot be empty")
	assert.Contains(t, errStr, "STORE_DRIVER")
	assert.Contains(t, errStr, "LOG_LEVEL")
	assert.Contains(t, errStr, "LOG_FORMAT")
	assert.Contains(t, errStr, "SEARCH_TIMEOUT_MS")
	assert.Contains(t, errStr, "STORE_TIMEOUT_MS")
	assert.Contains(t, errStr, "INDEX_WORKER_COUNT")
	assert.Contains(t, errStr, "INDEX_QUEUE_SIZE")
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("STORE_DRIVER", "FILE")
	t.Setenv("SEARCH_TIMEOUT_MS", "250")
	t.Setenv("INDEX_QUEUE_SIZE", "not-a-number")

	cfg := config.Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, config.StoreFile, cfg.StoreDriver)
	assert.Equal(t, 250*time.Millisecond, cfg.SearchTimeout())
	assert.Equal(t, 8, cfg.IndexQueueSize)
	assert.Equal(t, "study_topics", cfg.SearchTopicsIndex)
}
