package api

import (
	"context"
	"sync"

	"github.com/vytor/studystream/internal/catalog"
	"github.com/vytor/studystream/internal/content"
	"github.com/vytor/studystream/internal/jobs"
	"github.com/vytor/studystream/internal/models"
	"github.com/vytor/studystream/internal/navigation"
	"github.com/vytor/studystream/internal/progress"
)

// Recommender is the optional remote source of question and topic suggestions.
type Recommender interface {
	RelatedQuestions(ctx context.Context, topicID string, difficulty models.Difficulty) ([]models.QuestionHit, error)
	SuggestedTopics(ctx context.Context, subject, excludeID string) ([]models.TopicSummary, error)
}

type Server struct {
	Controller  *navigation.Controller
	Catalog     *content.Catalog
	Filter      *catalog.Filter
	Progress    *progress.Store
	Recommender Recommender   // optional
	JobQueue    jobs.JobQueue // optional

	// mu serializes controller access; the controller is single-threaded.
	mu  sync.Mutex
	hub *hub
}

// view renders the controller state under the lock.
func (s *Server) view(ctx context.Context) navigation.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Controller.View(ctx)
}
