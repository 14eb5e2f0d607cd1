package api

import (
	"context"
	"net/http"
	"time"

	"github.com/vytor/studystream/internal/logger"
)

const readinessTimeout = 2 * time.Second

// handleHealth reports liveness and always returns 200 OK.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleReady returns 200 when the progress store answers a ping, 503 otherwise.
// Remote search is optional and never affects readiness.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()
	log := logger.FromContext(ctx)

	if err := s.Progress.Ping(ctx); err != nil {
		log.Warn("readiness check failed - progress store: %v", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("Progress store unavailable"))
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Ready"))
}
