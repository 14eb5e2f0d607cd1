package progress

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/vytor/studystream/internal/errors"
	"github.com/vytor/studystream/internal/logger"
	"github.com/vytor/studystream/internal/models"
	"github.com/vytor/studystream/internal/repository"
)

// Persisted keys. The names are shared with existing learner data and must not change.
const (
	KeyProgress       = "studyProgress"
	KeyCorrectAnswers = "correctAnswers"
	KeyStreak         = "studyStreak"
)

// DefaultTimeout bounds a single backend call when no WithTimeout option is given.
const DefaultTimeout = 5 * time.Second

// CompletionThreshold is the percentage at which a topic counts as completed.
const CompletionThreshold = 70

// Store is the single owner of learner progress. Mutations update memory first
// and then persist; a failed write never rolls memory back.
type Store struct {
	kv  repository.KeyValueStore
	log *logger.Logger

	mu           sync.Mutex
	records      map[string]int
	totalCorrect int
	streak       int

	// saveMu orders writes so the last mutation's snapshot is the last one written.
	saveMu          sync.Mutex
	maxRetries      uint64
	initialInterval time.Duration
	timeout         time.Duration
}

type Option func(*Store)

// WithRetry sets how many times a failed save is retried and the first delay.
func WithRetry(maxRetries uint64, initialInterval time.Duration) Option {
	return func(s *Store) {
		s.maxRetries = maxRetries
		s.initialInterval = initialInterval
	}
}

// WithTimeout bounds every individual backend call.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.timeout = d
	}
}

// Load reads the three progress keys. It never fails: a missing key yields its
// default and an unreadable or corrupt one is logged and replaced by its default.
func Load(ctx context.Context, kv repository.KeyValueStore, opts ...Option) *Store {
	s := &Store{
		kv:              kv,
		log:             logger.FromContext(ctx).WithPrefix("progress"),
		records:         make(map[string]int),
		maxRetries:      2,
		initialInterval: 200 * time.Millisecond,
		timeout:         DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	if raw, ok := s.read(ctx, KeyProgress); ok {
		var records map[string]int
		if err := json.Unmarshal([]byte(raw), &records); err != nil {
			s.log.Warn("corrupt %s value, starting empty: %v", KeyProgress, err)
		} else {
			for id, pct := range records {
				if pct < 0 || pct > 100 {
					s.log.Warn("dropping out-of-range progress %d for topic %s", pct, id)
					continue
				}
				s.records[id] = pct
			}
		}
	}
	s.totalCorrect = s.readCount(ctx, KeyCorrectAnswers)
	s.streak = s.readCount(ctx, KeyStreak)

	s.log.Info("progress loaded: %d topics, %d correct answers, streak %d",
		len(s.records), s.totalCorrect, s.streak)
	return s
}

func (s *Store) read(ctx context.Context, key string) (string, bool) {
	ctx, cancel := s.kvContext(ctx)
	defer cancel()

	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.log.Warn("%v", errors.NewPersistenceError("load "+key, err))
		return "", false
	}
	return raw, ok
}

func (s *Store) readCount(ctx context.Context, key string) int {
	raw, ok := s.read(ctx, key)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		s.log.Warn("corrupt %s value %q, using 0", key, raw)
		return 0
	}
	return n
}

// RecordCompletion stores max(existing, percentage) for the topic and persists.
// It returns the best percentage now held. Out-of-range input is rejected
// without mutation; a persistence error leaves the in-memory update in place.
func (s *Store) RecordCompletion(ctx context.Context, topicID string, percentage int) (int, error) {
	if topicID == "" {
		return 0, errors.NewValidationError("topic_id", "must not be empty")
	}
	if percentage < 0 || percentage > 100 {
		return 0, errors.NewValidationError("percentage", "must be between 0 and 100")
	}

	s.mu.Lock()
	best := s.records[topicID]
	if percentage > best {
		best = percentage
	}
	s.records[topicID] = best
	s.mu.Unlock()

	logger.FromContext(ctx).Debug("recorded completion: topic=%s score=%d best=%d", topicID, percentage, best)
	return best, s.Save(ctx)
}

// RecordCorrectAnswer increments the lifetime correct-answer counter and persists.
func (s *Store) RecordCorrectAnswer(ctx context.Context) error {
	s.mu.Lock()
	s.totalCorrect++
	s.mu.Unlock()
	return s.Save(ctx)
}

// Save writes the three keys, retrying transient failures with exponential backoff.
func (s *Store) Save(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	entries, err := s.encode()
	if err != nil {
		return errors.NewPersistenceError("encode", err)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.initialInterval
	policy := backoff.WithContext(backoff.WithMaxRetries(b, s.maxRetries), ctx)

	attempt := 0
	err = backoff.Retry(func() error {
		attempt++
		callCtx, cancel := s.kvContext(ctx)
		defer cancel()
		err := s.kv.SetMany(callCtx, entries)
		if err != nil {
			s.log.Debug("save attempt %d failed: %v", attempt, err)
		}
		return err
	}, policy)
	if err != nil {
		perr := errors.NewPersistenceError("save", err)
		s.log.Warn("%v", perr)
		return perr
	}
	return nil
}

// kvContext derives the per-call context for a backend operation.
func (s *Store) kvContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Store) encode() (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(s.records)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		KeyProgress:       string(raw),
		KeyCorrectAnswers: strconv.Itoa(s.totalCorrect),
		KeyStreak:         strconv.Itoa(s.streak),
	}, nil
}

// Percentage returns the best percentage for a topic, 0 if never completed.
func (s *Store) Percentage(topicID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records[topicID]
}

// CompletedTopicCount counts topics whose best percentage is at least threshold.
func (s *Store) CompletedTopicCount(threshold int) int {
	return s.Snapshot().CompletedCount(threshold)
}

func (s *Store) TotalCorrectAnswers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalCorrect
}

func (s *Store) StreakDays() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streak
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make(map[string]int, len(s.records))
	for k, v := range s.records {
		records[k] = v
	}
	return Snapshot{ProgressSnapshot: models.ProgressSnapshot{
		Records:             records,
		TotalCorrectAnswers: s.totalCorrect,
		StreakDays:          s.streak,
	}}
}

// Ping checks the backing store.
func (s *Store) Ping(ctx context.Context) error {
	return s.kv.Ping(ctx)
}
