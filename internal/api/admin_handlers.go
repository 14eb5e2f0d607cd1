package api

import (
	"fmt"
	"net/http"

	"github.com/vytor/studystream/internal/errors"
	"github.com/vytor/studystream/internal/logger"
)

// handleReindex queues a push of the catalog to the remote search index.
func (s *Server) handleReindex(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	if s.JobQueue == nil {
		handleError(w, r, errors.NewSearchUnavailableError(fmt.Errorf("search indexing is not configured")))
		return
	}

	if err := s.JobQueue.EnqueueReindex(); err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("reindex queued")
	writeJSON(w, r, http.StatusAccepted, map[string]any{"status": "queued"})
}
