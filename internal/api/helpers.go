package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/vytor/studystream/internal/errors"
	"github.com/vytor/studystream/internal/logger"
	"github.com/vytor/studystream/internal/models"
	"github.com/vytor/studystream/internal/search"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}

// decodeBody decodes an optional JSON body. An empty body leaves v untouched.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return errors.NewBadRequestError("invalid JSON body: " + err.Error())
	}
	return nil
}

// searchFilterFromQuery reads subject and difficulty query parameters.
func searchFilterFromQuery(r *http.Request) (models.SearchFilter, error) {
	q := r.URL.Query()
	f := models.SearchFilter{Subject: strings.TrimSpace(q.Get("subject"))}
	if raw := strings.TrimSpace(q.Get("difficulty")); raw != "" {
		d, err := models.ParseDifficulty(raw)
		if err != nil {
			return f, errors.NewValidationError("difficulty", err.Error())
		}
		f.Difficulty = d
	}
	return f, nil
}

func summaries(topics []models.Topic) []models.TopicSummary {
	out := make([]models.TopicSummary, 0, len(topics))
	for _, t := range topics {
		out = append(out, t.Summary())
	}
	return out
}

// localQuestions converts a topic's questions to search hits, optionally
// restricted to one difficulty.
func localQuestions(t models.Topic, difficulty models.Difficulty) []models.QuestionHit {
	out := []models.QuestionHit{}
	for i, q := range t.PracticeQuestions {
		if difficulty.Valid() && q.Difficulty != difficulty {
			continue
		}
		out = append(out, questionHit(t, i, q))
	}
	return out
}

func questionHit(t models.Topic, i int, q models.PracticeQuestion) models.QuestionHit {
	return models.QuestionHit{
		ID:            search.QuestionObjectID(t.ID, i),
		TopicID:       t.ID,
		TopicTitle:    t.Title,
		Prompt:        q.Prompt,
		Options:       q.Options,
		CorrectOption: q.CorrectOption,
		Explanation:   q.Explanation,
		Difficulty:    q.Difficulty,
		Subject:       t.Subject,
	}
}
