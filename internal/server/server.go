package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/claude/logbook/internal/logbook"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	svc    *logbook.Service
	log    *slog.Logger
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(svc *logbook.Service, log *slog.Logger) *Server {
	s := &Server{
		svc:    svc,
		log:    log,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestID)
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/program", s.handleProgram)
		r.Get("/exercises", s.handleExercises)

		r.Post("/sessions", s.handleSaveSession)
		r.Get("/sessions", s.handleRecentSessions)
		r.Get("/sessions/{id}/sets", s.handleSessionSets)

		r.Get("/history", s.handleHistory)
		r.Get("/last", s.handleLast)
		r.Get("/pr", s.handleBestPR)
		r.Get("/suggest", s.handleSuggest)
		r.Get("/snapshot", s.handleSnapshot)
		r.Get("/bodyweight", s.handleBodyweight)
		r.Get("/intensity", s.handleIntensity)
		r.Get("/stats", s.handleStats)
		r.Get("/plates", s.handlePlates)

		r.Get("/export/csv", s.handleExportCSV)
		r.Get("/export/xlsx", s.handleExportXLSX)
		r.Get("/backup", s.handleBackupExport)
		r.Post("/backup", s.handleBackupImport)
		r.Delete("/data", s.handleWipe)

		r.Post("/ingest/alpha", s.handleAlphaIngest)
		r.Get("/import-logs", s.handleImportLogs)
	})

	s.router.Handle("/metrics", promhttp.Handler())
}

// SetMCP mounts an MCP transport handler at /mcp.
func (s *Server) SetMCP(h http.Handler) {
	s.router.Handle("/mcp", h)
}
