package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/vytor/studystream/internal/catalog"
	"github.com/vytor/studystream/internal/errors"
	"github.com/vytor/studystream/internal/models"
	"github.com/vytor/studystream/internal/navigation"
	"github.com/vytor/studystream/internal/progress"
	"github.com/vytor/studystream/internal/repository"
	"github.com/vytor/studystream/internal/repository/memory"
	"github.com/vytor/studystream/internal/testutil"
	"github.com/vytor/studystream/internal/testutil/mocks"
)

func newTestServer(t *testing.T, kv repository.KeyValueStore) *Server {
	t.Helper()
	if kv == nil {
		kv = memory.NewStore()
	}
	cat := testutil.SmallCatalog(t)
	filter := catalog.NewFilter(cat, nil)
	store := progress.Load(context.Background(), kv, progress.WithRetry(0, time.Millisecond))
	return &Server{
		Controller: navigation.New(cat, filter, store),
		Catalog:    cat,
		Filter:     filter,
		Progress:   store,
	}
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func TestHealthAndReadiness(t *testing.T) {
	h := newTestServer(t, nil).Routes()

	rec := do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = do(t, h, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadiness_StoreDown(t *testing.T) {
	kv := new(mocks.MockKeyValueStore)
	kv.On("Get", mock.Anything, mock.Anything).Return("", false, nil)
	kv.On("Ping", mock.Anything).Return(assert.AnError)

	rec := do(t, newTestServer(t, kv).Routes(), http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestActions_FullQuiz(t *testing.T) {
	h := newTestServer(t, nil).Routes()

	rec := do(t, h, http.MethodGet, "/state", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "catalog", decode[navigation.View](t, rec).State)

	rec = do(t, h, http.MethodPost, "/actions/open-topic", `{"topic_id":"gamma"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "topic_detail", decode[navigation.View](t, rec).State)

	rec = do(t, h, http.MethodPost, "/actions/start-quiz", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, "/actions/submit-answer", `{"option":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	v := decode[navigation.View](t, rec)
	require.NotNil(t, v.Quiz)
	assert.True(t, v.Quiz.Answered)
	assert.True(t, *v.Quiz.Correct)

	rec = do(t, h, http.MethodPost, "/actions/advance", "")
	require.Equal(t, http.StatusOK, rec.Code)
	v = decode[navigation.View](t, rec)
	require.NotNil(t, v.Review)
	assert.Equal(t, 100, v.Review.Score)
	assert.True(t, v.Review.Celebrate)

	rec = do(t, h, http.MethodGet, "/progress", "")
	require.Equal(t, http.StatusOK, rec.Code)
	p := decode[struct {
		Records             []models.ProgressRecord `json:"records"`
		TotalCorrectAnswers int                     `json:"total_correct_answers"`
		Stats               models.Stats            `json:"stats"`
	}](t, rec)
	assert.Equal(t, []models.ProgressRecord{{TopicID: "gamma", Percentage: 100}}, p.Records)
	assert.Equal(t, 1, p.TotalCorrectAnswers)
	assert.Equal(t, 10, p.Stats.XP)

	rec = do(t, h, http.MethodPost, "/actions/back", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "catalog", decode[navigation.View](t, rec).State)
}

func TestActions_Errors(t *testing.T) {
	h := newTestServer(t, nil).Routes()

	tests := []struct {
		name   string
		action string
		body   string
		status int
		code   string
	}{
		{"unknown action", "dance", "", http.StatusNotFound, errors.ErrCodeNotFound},
		{"missing topic id", "open-topic", `{}`, http.StatusBadRequest, errors.ErrCodeBadRequest},
		{"malformed body", "open-topic", `{"topic_id":`, http.StatusBadRequest, errors.ErrCodeBadRequest},
		{"unknown topic", "open-topic", `{"topic_id":"nope"}`, http.StatusNotFound, errors.ErrCodeNotFound},
		{"wrong state", "advance", "", http.StatusConflict, errors.ErrCodeInvalidState},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/actions/"+tt.action, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, decode[errorBody](t, rec).Error.Code)
		})
	}
}

func TestActions_EmptyQuiz(t *testing.T) {
	h := newTestServer(t, nil).Routes()

	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/actions/open-topic", `{"topic_id":"beta"}`).Code)
	rec := do(t, h, http.MethodPost, "/actions/start-quiz", "")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, errors.ErrCodeEmptyQuiz, decode[errorBody](t, rec).Error.Code)
	assert.Equal(t, "topic_detail", decode[navigation.View](t, do(t, h, http.MethodGet, "/state", "")).State)
}

type topicsBody struct {
	Topics []models.TopicSummary `json:"topics"`
	Source catalog.Source        `json:"source"`
}

func topicIDs(b topicsBody) []string {
	out := []string{}
	for _, t := range b.Topics {
		out = append(out, t.ID)
	}
	return out
}

func TestCatalogEndpoints(t *testing.T) {
	h := newTestServer(t, nil).Routes()

	rec := do(t, h, http.MethodGet, "/topics?subject=Go", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"alpha", "beta"}, topicIDs(decode[topicsBody](t, rec)))

	rec = do(t, h, http.MethodGet, "/topics?difficulty=advanced", "")
	assert.Equal(t, []string{"gamma"}, topicIDs(decode[topicsBody](t, rec)))

	rec = do(t, h, http.MethodGet, "/topics?difficulty=expert", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/search?q=closures", "")
	b := decode[topicsBody](t, rec)
	assert.Equal(t, []string{"gamma"}, topicIDs(b))
	assert.Equal(t, catalog.SourceLocal, b.Source)

	rec = do(t, h, http.MethodGet, "/topics/alpha", "")
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[struct {
		Topic      models.Topic `json:"topic"`
		Completion int          `json:"completion"`
	}](t, rec)
	assert.Len(t, detail.Topic.Sections, 2)
	assert.Equal(t, 0, detail.Completion)

	rec = do(t, h, http.MethodGet, "/topics/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/topics/alpha/suggestions", "")
	assert.Equal(t, []string{"beta"}, topicIDs(decode[topicsBody](t, rec)))

	rec = do(t, h, http.MethodGet, "/subjects", "")
	assert.JSONEq(t, `{"subjects":["all","Go","Rust"]}`, rec.Body.String())
}

type recommender struct {
	questions []models.QuestionHit
	topics    []models.TopicSummary
	err       error
}

func (r recommender) RelatedQuestions(context.Context, string, models.Difficulty) ([]models.QuestionHit, error) {
	return r.questions, r.err
}

func (r recommender) SuggestedTopics(context.Context, string, string) ([]models.TopicSummary, error) {
	return r.topics, r.err
}

type questionsBody struct {
	Questions []models.QuestionHit `json:"questions"`
	Source    catalog.Source       `json:"source"`
}

func TestQuestions(t *testing.T) {
	s := newTestServer(t, nil)
	h := s.Routes()

	rec := do(t, h, http.MethodGet, "/questions?topic=alpha&difficulty=intermediate", "")
	require.Equal(t, http.StatusOK, rec.Code)
	b := decode[questionsBody](t, rec)
	require.Len(t, b.Questions, 1)
	assert.Equal(t, "alpha_q1", b.Questions[0].ID)
	assert.Equal(t, catalog.SourceLocal, b.Source)

	rec = do(t, h, http.MethodGet, "/questions?difficulty=advanced", "")
	b = decode[questionsBody](t, rec)
	require.Len(t, b.Questions, 1)
	assert.Equal(t, "gamma", b.Questions[0].TopicID)

	rec = do(t, h, http.MethodGet, "/questions", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	s.Recommender = recommender{questions: []models.QuestionHit{{ID: "remote_q0"}}}
	b = decode[questionsBody](t, do(t, h, http.MethodGet, "/questions?topic=alpha", ""))
	assert.Equal(t, catalog.SourceRemote, b.Source)
	assert.Equal(t, "remote_q0", b.Questions[0].ID)

	s.Recommender = recommender{err: errors.NewSearchUnavailableError(assert.AnError)}
	b = decode[questionsBody](t, do(t, h, http.MethodGet, "/questions?topic=alpha", ""))
	assert.Equal(t, catalog.SourceLocal, b.Source)
	assert.Len(t, b.Questions, 2)
}

func TestExport(t *testing.T) {
	s := newTestServer(t, nil)
	_, err := s.Progress.RecordCompletion(context.Background(), "alpha", 90)
	require.NoError(t, err)

	rec := do(t, s.Routes(), http.MethodGet, "/progress/export.xlsx", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows("Progress")
	require.NoError(t, err)
	assert.Equal(t, "90", rows[1][4])
}

func TestAchievements(t *testing.T) {
	rec := do(t, newTestServer(t, nil).Routes(), http.MethodGet, "/achievements", "")
	b := decode[struct {
		Achievements []models.Achievement `json:"achievements"`
	}](t, rec)
	require.Len(t, b.Achievements, 4)
	for _, a := range b.Achievements {
		assert.False(t, a.Unlocked)
	}
}

func TestReindex(t *testing.T) {
	s := newTestServer(t, nil)
	h := s.Routes()

	rec := do(t, h, http.MethodPost, "/admin/reindex", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	q := new(mocks.MockJobQueue)
	q.On("EnqueueReindex").Return(nil).Once()
	q.On("EnqueueReindex").Return(errors.NewQueueFullError("reindex", assert.AnError)).Once()
	s.JobQueue = q

	rec = do(t, h, http.MethodPost, "/admin/reindex", "")
	assert.Equal(t, http.StatusAccepted, rec.Code)

	rec = do(t, h, http.MethodPost, "/admin/reindex", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, errors.ErrCodeQueueFull, decode[errorBody](t, rec).Error.Code)
	q.AssertExpectations(t)
}

func TestWebSocketFeed(t *testing.T) {
	s := newTestServer(t, nil)
	srv := httptest.NewServer(s.Routes())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer func() { _ = conn.CloseNow() }()

	var v navigation.View
	require.NoError(t, wsjson.Read(ctx, conn, &v))
	assert.Equal(t, "catalog", v.State)
	assert.Equal(t, 1, s.hub.count())

	resp, err := http.Post(srv.URL+"/actions/open-topic", "application/json", strings.NewReader(`{"topic_id":"alpha"}`))
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, wsjson.Read(ctx, conn, &v))
	assert.Equal(t, "topic_detail", v.State)
	require.NotNil(t, v.Topic)
	assert.Equal(t, "alpha", v.Topic.Topic.ID)
}

func TestBroadcast_FollowsActionOrder(t *testing.T) {
	s := newTestServer(t, nil)
	h := s.Routes()

	const n = 20
	sub := &wsClient{outbound: make(chan navigation.View, n)}
	s.hub.mu.Lock()
	s.hub.clients[sub] = struct{}{}
	s.hub.mu.Unlock()

	codes := make(chan int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		subject := "Go"
		if i%2 == 1 {
			subject = "Rust"
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/actions/set-filter", strings.NewReader(`{"subject":"`+subject+`"}`))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			codes <- rec.Code
		}()
	}
	wg.Wait()
	close(codes)
	for code := range codes {
		assert.Equal(t, http.StatusOK, code)
	}

	require.Len(t, sub.outbound, n)
	var last navigation.View
	for i := 0; i < n; i++ {
		last = <-sub.outbound
	}

	final := decode[navigation.View](t, do(t, h, http.MethodGet, "/state", ""))
	require.NotNil(t, final.Catalog)
	require.NotNil(t, last.Catalog)
	assert.Equal(t, final.Catalog.Subject, last.Catalog.Subject)
}
