// Package file stores progress keys in a single JSON document on disk.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vytor/studystream/internal/logger"
	"github.com/vytor/studystream/internal/repository"
)

var errCorrupt = errors.New("corrupt progress file")

type store struct {
	path string
	mu   sync.Mutex
	log  *logger.Logger
}

// NewStore returns a store backed by the JSON file at path. The file and its
// directory are created on first write.
func NewStore(path string) repository.KeyValueStore {
	return &store{
		path: path,
		log:  logger.Default().WithPrefix("file-store").WithField("path", path),
	}
}

func (s *store) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return "", false, err
	}
	v, ok := data[key]
	return v, ok, nil
}

func (s *store) Set(ctx context.Context, key, value string) error {
	return s.SetMany(ctx, map[string]string{key: value})
}

func (s *store) SetMany(ctx context.Context, entries map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if errors.Is(err, errCorrupt) {
		// The write replaces the whole document; keep the unreadable one aside.
		s.log.Warn("%v, starting a new file", err)
		if rerr := os.Rename(s.path, s.path+".corrupt"); rerr != nil {
			s.log.Warn("failed to move corrupt progress file aside: %v", rerr)
		}
		data = make(map[string]string)
	} else if err != nil {
		return err
	}
	for k, v := range entries {
		data[k] = v
	}
	return s.write(data)
}

func (s *store) Ping(context.Context) error {
	dir := filepath.Dir(s.path)
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("progress directory %s: %w", dir, err)
	}
	return nil
}

func (s *store) Close() error { return nil }

// read returns an empty map when the file does not exist yet.
func (s *store) read() (map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("error reading progress file: %w", err)
	}

	data := make(map[string]string)
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", errCorrupt, err)
	}
	return data, nil
}

// write replaces the file through a temp file and rename so readers never see
// a partial document.
func (s *store) write(data map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("error creating progress directory: %w", err)
	}
	raw, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		return fmt.Errorf("error marshaling progress data: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".progress-*.json")
	if err != nil {
		return fmt.Errorf("error creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("error writing progress file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error writing progress file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("error replacing progress file: %w", err)
	}
	s.log.Debug("wrote %d keys", len(data))
	return nil
}
