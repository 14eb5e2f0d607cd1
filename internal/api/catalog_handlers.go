package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vytor/studystream/internal/catalog"
	"github.com/vytor/studystream/internal/errors"
	"github.com/vytor/studystream/internal/logger"
	"github.com/vytor/studystream/internal/models"
)

// handleTopics lists catalog topics from the local dataset, optionally
// restricted by subject, difficulty and a title/description query.
func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	filter, err := searchFilterFromQuery(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var topics []models.Topic
	for _, t := range s.Filter.Filter(filter.Subject, strings.TrimSpace(r.URL.Query().Get("q"))) {
		if filter.Difficulty.Valid() && t.Difficulty != filter.Difficulty {
			continue
		}
		topics = append(topics, t)
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"topics": summaries(topics),
		"source": catalog.SourceLocal,
	})
}

// handleSearch runs a full-text search, remote when configured.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	filter, err := searchFilterFromQuery(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	topics, source := s.Filter.Search(r.Context(), query, filter)
	writeJSON(w, r, http.StatusOK, map[string]any{
		"query":  query,
		"topics": summaries(topics),
		"source": source,
	})
}

func (s *Server) handleTopic(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	topic, ok := s.Catalog.TopicByID(id)
	if !ok {
		handleError(w, r, errors.NewNotFoundError("topic", id))
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"topic":       topic,
		"completion":  s.Progress.Percentage(topic.ID),
		"next_topics": summaries(s.Catalog.NextTopics(topic.ID, 0)),
	})
}

// handleSuggestions returns topics to study next. Remote suggestions are used
// when available; otherwise topics of the same subject from the dataset.
func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	topic, ok := s.Catalog.TopicByID(id)
	if !ok {
		handleError(w, r, errors.NewNotFoundError("topic", id))
		return
	}
	log := logger.FromContext(r.Context())

	if s.Recommender != nil {
		suggested, err := s.Recommender.SuggestedTopics(r.Context(), topic.Subject, topic.ID)
		if err == nil {
			writeJSON(w, r, http.StatusOK, map[string]any{"topics": suggested, "source": catalog.SourceRemote})
			return
		}
		log.Warn("remote suggestions failed, using dataset: %v", err)
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"topics": summaries(s.Catalog.RelatedTopics(topic.ID, 0)),
		"source": catalog.SourceLocal,
	})
}

func (s *Server) handleSubjects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"subjects": append([]string{models.AllSubjects}, s.Catalog.AllSubjects()...),
	})
}

// handleQuestions returns practice questions for a topic (remote when
// available) or, without a topic, every dataset question of one difficulty.
func (s *Server) handleQuestions(w http.ResponseWriter, r *http.Request) {
	filter, err := searchFilterFromQuery(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	topicID := r.URL.Query().Get("topic")
	log := logger.FromContext(r.Context())

	if topicID == "" {
		if !filter.Difficulty.Valid() {
			handleError(w, r, errors.NewBadRequestError("topic or difficulty is required"))
			return
		}
		hits := []models.QuestionHit{}
		for _, t := range s.Catalog.Topics() {
			hits = append(hits, localQuestions(t, filter.Difficulty)...)
		}
		writeJSON(w, r, http.StatusOK, map[string]any{"questions": hits, "source": catalog.SourceLocal})
		return
	}

	topic, ok := s.Catalog.TopicByID(topicID)
	if !ok {
		handleError(w, r, errors.NewNotFoundError("topic", topicID))
		return
	}

	if s.Recommender != nil {
		hits, err := s.Recommender.RelatedQuestions(r.Context(), topic.ID, filter.Difficulty)
		if err == nil {
			writeJSON(w, r, http.StatusOK, map[string]any{"questions": hits, "source": catalog.SourceRemote})
			return
		}
		log.Warn("remote questions failed, using dataset: %v", err)
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"questions": localQuestions(topic, filter.Difficulty),
		"source":    catalog.SourceLocal,
	})
}
