package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vytor/studystream/internal/errors"
	"github.com/vytor/studystream/internal/logger"
	"github.com/vytor/studystream/internal/navigation"
)

// actionRequest carries the arguments of every action; each action reads
// only the fields it needs.
type actionRequest struct {
	TopicID string `json:"topic_id"`
	Section *int   `json:"section"`
	Option  *int   `json:"option"`
	Subject string `json:"subject"`
	Query   string `json:"query"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.view(r.Context()))
}

// handleAction applies one navigation action and responds with the new view.
// Every successful action is also pushed to WebSocket subscribers.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	action := chi.URLParam(r, "action")
	log := logger.FromContext(r.Context()).WithField("action", action)
	ctx := logger.NewContext(r.Context(), log)

	var req actionRequest
	if err := decodeBody(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	s.mu.Lock()
	from := s.Controller.State()
	err := s.dispatch(ctx, action, req)
	var view navigation.View
	if err == nil {
		view = s.Controller.View(ctx)
		// Broadcast under the lock so subscribers see views in action order.
		s.hub.broadcast(view)
	}
	s.mu.Unlock()

	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Debug("transition %s -> %s", from, view.State)
	writeJSON(w, r, http.StatusOK, view)
}

func (s *Server) dispatch(ctx context.Context, action string, req actionRequest) error {
	c := s.Controller
	switch action {
	case "open-topic":
		if req.TopicID == "" {
			return errors.NewBadRequestError("topic_id is required")
		}
		return c.OpenTopic(req.TopicID)
	case "next-section":
		return c.NextSection()
	case "previous-section":
		return c.PreviousSection()
	case "select-section":
		if req.Section == nil {
			return errors.NewBadRequestError("section is required")
		}
		return c.SelectSection(*req.Section)
	case "start-quiz":
		return c.StartQuiz()
	case "submit-answer":
		if req.Option == nil {
			return errors.NewBadRequestError("option is required")
		}
		_, err := c.SubmitAnswer(ctx, *req.Option)
		return err
	case "advance":
		return c.Advance(ctx)
	case "restart-quiz":
		return c.RestartQuiz()
	case "back":
		c.Back()
		return nil
	case "set-filter":
		return c.SetFilter(ctx, req.Subject, strings.TrimSpace(req.Query))
	default:
		return errors.NewNotFoundError("action", action)
	}
}
