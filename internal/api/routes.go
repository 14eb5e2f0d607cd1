package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	if s.hub == nil {
		s.hub = newHub()
	}

	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Get("/state", s.handleState)
	r.Post("/actions/{action}", s.handleAction)
	r.Get("/ws", s.handleWebSocket)

	r.Get("/topics", s.handleTopics)
	r.Get("/topics/{id}", s.handleTopic)
	r.Get("/topics/{id}/suggestions", s.handleSuggestions)
	r.Get("/subjects", s.handleSubjects)
	r.Get("/questions", s.handleQuestions)
	r.Get("/search", s.handleSearch)

	r.Get("/progress", s.handleProgress)
	r.Get("/achievements", s.handleAchievements)
	r.Get("/progress/export.xlsx", s.handleExport)

	r.Post("/admin/reindex", s.handleReindex)
	return r
}
