package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/vytor/studystream/internal/db"
	"github.com/vytor/studystream/internal/logger"
	"github.com/vytor/studystream/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

const upsertSuffix = "ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at"

type kvStore struct {
	db *db.DB
}

// NewKeyValueStore creates a KeyValueStore over the kv_entries table.
func NewKeyValueStore(database *db.DB) repository.KeyValueStore {
	return &kvStore{db: database}
}

func (r *kvStore) Get(ctx context.Context, key string) (string, bool, error) {
	log := logger.FromContext(ctx).WithPrefix("repo")

	query, args, err := sqlBuilder.
		Select("value").
		From("kv_entries").
		Where(squirrel.Eq{"key": key}).
		ToSql()
	if err != nil {
		return "", false, err
	}

	var value string
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		log.Error("failed to read key %s: %v", key, err)
		return "", false, err
	}
	return value, true, nil
}

func (r *kvStore) Set(ctx context.Context, key, value string) error {
	return r.SetMany(ctx, map[string]string{key: value})
}

func (r *kvStore) SetMany(ctx context.Context, entries map[string]string) error {
	if len(entries) == 0 {
		return nil
	}
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	now := time.Now().UTC()
	insert := sqlBuilder.Insert("kv_entries").Columns("key", "value", "updated_at")
	for _, k := range keys {
		insert = insert.Values(k, entries[k], now)
	}
	query, args, err := insert.Suffix(upsertSuffix).ToSql()
	if err != nil {
		return err
	}

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, query, args...)
		return err
	})
}

func (r *kvStore) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *kvStore) Close() error {
	return r.db.Close()
}
