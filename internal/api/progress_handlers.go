package api

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/vytor/studystream/internal/errors"
	"github.com/vytor/studystream/internal/logger"
	"github.com/vytor/studystream/internal/progress"
	"github.com/vytor/studystream/internal/report"
)

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	snap := s.Progress.Snapshot()
	writeJSON(w, r, http.StatusOK, map[string]any{
		"records":               snap.SortedRecords(),
		"total_correct_answers": snap.TotalCorrectAnswers,
		"streak_days":           snap.StreakDays,
		"stats":                 snap.Stats(s.Catalog.Len()),
		"completion_threshold":  progress.CompletionThreshold,
	})
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"achievements": s.Progress.Snapshot().Achievements(),
	})
}

// handleExport streams the progress workbook as an attachment.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var buf bytes.Buffer
	if err := report.WriteProgressWorkbook(&buf, s.Catalog, s.Progress.Snapshot()); err != nil {
		handleError(w, r, errors.NewInternalError(err))
		return
	}

	filename := fmt.Sprintf("studystream-progress-%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Error("failed to write workbook: %v", err)
	}
	log.Debug("exported progress workbook (%d bytes)", buf.Len())
}
