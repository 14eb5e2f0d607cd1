package main

import (
	"context"
	"fmt"

	"github.com/vytor/studystream/internal/config"
	"github.com/vytor/studystream/internal/db"
	"github.com/vytor/studystream/internal/repository"
	"github.com/vytor/studystream/internal/repository/file"
	"github.com/vytor/studystream/internal/repository/memory"
	"github.com/vytor/studystream/internal/repository/postgres"
	"github.com/vytor/studystream/internal/repository/redis"
	"github.com/vytor/studystream/internal/repository/sqlite"
)

// openStore opens the key-value backend selected by STORE_DRIVER.
func openStore(ctx context.Context, cfg config.Config) (repository.KeyValueStore, error) {
	switch cfg.StoreDriver {
	case config.StoreSQLite:
		database, err := db.Open(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		return sqlite.NewKeyValueStore(database), nil
	case config.StoreFile:
		return file.NewStore(cfg.ProgressFile), nil
	case config.StoreMemory:
		return memory.NewStore(), nil
	case config.StoreRedis:
		store, err := redis.New(ctx, cfg.RedisURL, cfg.RedisKeyPrefix)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.StorePostgres:
		store, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
