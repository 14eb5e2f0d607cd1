// Package search talks to the hosted Algolia search API: topic and question
// queries for the catalog, and index maintenance for the indexer.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/vytor/studystream/internal/errors"
	"github.com/vytor/studystream/internal/logger"
	"github.com/vytor/studystream/internal/models"
)

const (
	DefaultTopicsIndex    = "study_topics"
	DefaultQuestionsIndex = "practice_questions"

	topicHitsPerPage     = 20
	questionHitsPerPage  = 10
	suggestedHitsPerPage = 3
)

type Client struct {
	appID          string
	searchKey      string
	adminKey       string
	searchURL      string
	writeURL       string
	topicsIndex    string
	questionsIndex string
	httpClient     *http.Client
	maxRetries     uint64
	retryInterval  time.Duration
	log            *logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points both the query and write hosts at url (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.searchURL = strings.TrimRight(url, "/")
		c.writeURL = strings.TrimRight(url, "/")
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds every HTTP request. It sets the timeout on a copy so a
// shared client passed through WithHTTPClient is left untouched.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := http.Client{}
		if c.httpClient != nil {
			hc = *c.httpClient
		}
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// WithAdminKey enables the write operations used by the indexer.
func WithAdminKey(key string) Option {
	return func(c *Client) {
		c.adminKey = key
	}
}

func WithIndexNames(topics, questions string) Option {
	return func(c *Client) {
		if topics != "" {
			c.topicsIndex = topics
		}
		if questions != "" {
			c.questionsIndex = questions
		}
	}
}

// WithRetry sets how many times transient failures are retried.
func WithRetry(maxRetries uint64, initialInterval time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.retryInterval = initialInterval
	}
}

// New creates a client for the given application using a search-only key.
func New(appID, searchKey string, opts ...Option) (*Client, error) {
	if appID == "" || searchKey == "" {
		return nil, fmt.Errorf("search application id and key are required")
	}
	c := &Client{
		appID:          appID,
		searchKey:      searchKey,
		searchURL:      fmt.Sprintf("https://%s-dsn.algolia.net/1", appID),
		writeURL:       fmt.Sprintf("https://%s.algolia.net/1", appID),
		topicsIndex:    DefaultTopicsIndex,
		questionsIndex: DefaultQuestionsIndex,
		httpClient:     &http.Client{Timeout: 3 * time.Second},
		maxRetries:     2,
		retryInterval:  100 * time.Millisecond,
		log:            logger.Default().WithPrefix("search"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type queryRequest struct {
	Query       string `json:"query"`
	Filters     string `json:"filters,omitempty"`
	HitsPerPage int    `json:"hitsPerPage"`
}

type queryResponse[T any] struct {
	Hits   []T `json:"hits"`
	NbHits int `json:"nbHits"`
}

// SearchTopics runs a full-text topic query. Any failure is reported as a
// SearchUnavailable error so callers can fall back to local filtering.
func (c *Client) SearchTopics(ctx context.Context, query string, filter models.SearchFilter) ([]models.TopicSummary, error) {
	log := logger.FromContext(ctx).WithPrefix("search")
	log.Debug("searching topics: query=%q subject=%q difficulty=%s", query, filter.Subject, filter.Difficulty)

	var resp queryResponse[TopicRecord]
	req := queryRequest{Query: query, Filters: BuildFilters(filter), HitsPerPage: topicHitsPerPage}
	if err := c.query(ctx, c.topicsIndex, req, &resp); err != nil {
		return nil, err
	}

	out := make([]models.TopicSummary, 0, len(resp.Hits))
	for _, h := range resp.Hits {
		out = append(out, h.summary())
	}
	log.Debug("topic search returned %d hits", len(out))
	return out, nil
}

// RelatedQuestions returns practice questions for a topic, optionally at one difficulty.
func (c *Client) RelatedQuestions(ctx context.Context, topicID string, difficulty models.Difficulty) ([]models.QuestionHit, error) {
	filters := []string{fmt.Sprintf("topicId:%q", topicID)}
	if difficulty.Valid() {
		filters = append(filters, fmt.Sprintf("difficulty:%q", difficulty.String()))
	}

	var resp queryResponse[QuestionRecord]
	req := queryRequest{Filters: strings.Join(filters, " AND "), HitsPerPage: questionHitsPerPage}
	if err := c.query(ctx, c.questionsIndex, req, &resp); err != nil {
		return nil, err
	}

	out := make([]models.QuestionHit, 0, len(resp.Hits))
	for _, h := range resp.Hits {
		out = append(out, h.hit())
	}
	return out, nil
}

// SuggestedTopics returns a few topics in subject other than excludeID.
func (c *Client) SuggestedTopics(ctx context.Context, subject, excludeID string) ([]models.TopicSummary, error) {
	var filters []string
	if subject != "" && subject != models.AllSubjects {
		filters = append(filters, fmt.Sprintf("subject:%q", subject))
	}
	if excludeID != "" {
		filters = append(filters, fmt.Sprintf("NOT objectID:%q", excludeID))
	}

	var resp queryResponse[TopicRecord]
	req := queryRequest{Filters: strings.Join(filters, " AND "), HitsPerPage: suggestedHitsPerPage}
	if err := c.query(ctx, c.topicsIndex, req, &resp); err != nil {
		return nil, err
	}

	out := make([]models.TopicSummary, 0, len(resp.Hits))
	for _, h := range resp.Hits {
		out = append(out, h.summary())
	}
	return out, nil
}

// BuildFilters renders a SearchFilter in the service's filter syntax.
func BuildFilters(f models.SearchFilter) string {
	var parts []string
	if f.HasSubject() {
		parts = append(parts, fmt.Sprintf("subject:%q", f.Subject))
	}
	if f.Difficulty.Valid() {
		parts = append(parts, fmt.Sprintf("difficulty:%q", f.Difficulty.String()))
	}
	return strings.Join(parts, " AND ")
}

func (c *Client) query(ctx context.Context, index string, req queryRequest, out any) error {
	path := "/indexes/" + url.PathEscape(index) + "/query"
	if err := c.do(ctx, http.MethodPost, c.searchURL, path, c.searchKey, req, out); err != nil {
		return errors.NewSearchUnavailableError(err)
	}
	return nil
}

// statusError is a non-2xx response from the service.
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("search API error %d: %s", e.status, e.body)
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// do sends one JSON request, retrying network errors, 429 and 5xx responses.
func (c *Client) do(ctx context.Context, method, base, path, key string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryInterval
	policy := backoff.WithContext(backoff.WithMaxRetries(b, c.maxRetries), ctx)

	start := time.Now()
	err = backoff.Retry(func() error {
		httpReq, err := http.NewRequestWithContext(ctx, method, base+path, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(err)
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("X-Algolia-Application-Id", c.appID)
		httpReq.Header.Set("X-Algolia-API-Key", key)

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			c.log.Debug("%s %s failed: %v", method, path, err)
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
		if err != nil {
			return fmt.Errorf("reading response: %w", err)
		}
		if resp.StatusCode >= 300 {
			serr := &statusError{status: resp.StatusCode, body: string(respBody)}
			if retryable(resp.StatusCode) {
				return serr
			}
			return backoff.Permanent(serr)
		}
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(respBody, out); err != nil {
			return backoff.Permanent(fmt.Errorf("decoding response: %w", err))
		}
		return nil
	}, policy)

	if err != nil {
		c.log.Warn("%s %s failed after %v: %v", method, path, time.Since(start), err)
		return err
	}
	c.log.Debug("%s %s completed in %v", method, path, time.Since(start))
	return nil
}
