package repository

import (
	"context"
)

// KeyValueStore is the persisted string key-value store that backs learner
// progress. Implementations must treat a missing key as ("", false, nil).
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// SetMany writes all entries atomically where the backend supports it.
	SetMany(ctx context.Context, entries map[string]string) error
	Ping(ctx context.Context) error
	Close() error
}
