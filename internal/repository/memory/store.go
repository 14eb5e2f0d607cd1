// Package memory provides an in-process KeyValueStore for tests and
// ephemeral sessions.
package memory

import (
	"context"
	"sync"

	"github.com/vytor/studystream/internal/repository"
)

type store struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewStore returns an empty in-memory store.
func NewStore() repository.KeyValueStore {
	return &store{data: make(map[string]string)}
}

func (s *store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *store) SetMany(_ context.Context, entries map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range entries {
		s.data[k] = v
	}
	return nil
}

func (s *store) Ping(context.Context) error { return nil }

func (s *store) Close() error { return nil }
