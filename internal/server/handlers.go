package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/claude/logbook/internal/backup"
	"github.com/claude/logbook/internal/logbook"
	"github.com/claude/logbook/internal/plates"
)

// Default windows for report endpoints, in days.
const (
	defaultTrendDays     = 7
	defaultIntensityDays = 90
)

func (s *Server) handleProgram(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"workouts": s.svc.Program(),
		"snapshot": s.svc.Catalog().Snapshot(),
	})
}

func (s *Server) handleExercises(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Exercises())
}

func (s *Server) handleSaveSession(w http.ResponseWriter, r *http.Request) {
	var req logbook.SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	id, err := s.svc.SaveSession(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleRecentSessions(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", 0)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	sessions, err := s.svc.RecentSessions(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleSessionSets(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session ID"})
		return
	}
	sets, err := s.svc.SessionSets(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sets)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	exercise := r.URL.Query().Get("exercise")
	if exercise == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise parameter required"})
		return
	}
	limit, err := intParam(r, "limit", 0)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	rows, err := s.svc.History(r.Context(), exercise, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleLast(w http.ResponseWriter, r *http.Request) {
	exercise, setType, ok := pairParams(w, r)
	if !ok {
		return
	}
	last, err := s.svc.LastFor(r.Context(), exercise, setType)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, last)
}

func (s *Server) handleBestPR(w http.ResponseWriter, r *http.Request) {
	exercise, setType, ok := pairParams(w, r)
	if !ok {
		return
	}
	pr, err := s.svc.BestPR(r.Context(), exercise, setType)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pr)
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	exercise, setType, ok := pairParams(w, r)
	if !ok {
		return
	}
	next, err := s.svc.Suggest(r.Context(), exercise, setType)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, next)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	rows, err := s.svc.Snapshot(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleBodyweight(w http.ResponseWriter, r *http.Request) {
	days, err := intParam(r, "days", defaultTrendDays)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	trend, err := s.svc.BodyweightTrend(r.Context(), days)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trend)
}

func (s *Server) handleIntensity(w http.ResponseWriter, r *http.Request) {
	days, err := intParam(r, "days", defaultIntensityDays)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	result, err := s.svc.TrainingIntensity(r.Context(), days, r.URL.Query().Get("exercise"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.Stats(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handlePlates(w http.ResponseWriter, r *http.Request) {
	target, err := strconv.ParseFloat(r.URL.Query().Get("target"), 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "target parameter must be a number"})
		return
	}
	bar := plates.DefaultBar
	if v := r.URL.Query().Get("bar"); v != "" {
		if bar, err = strconv.ParseFloat(v, 64); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bar parameter must be a number"})
			return
		}
	}
	b, err := s.svc.Plates(target, bar)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	name, err := s.svc.HistoryCSV(r.Context(), &buf, r.URL.Query().Get("exercise"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeAttachment(w, "text/csv", name, buf.Bytes())
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	name, err := s.svc.HistoryXLSX(r.Context(), &buf, r.URL.Query().Get("exercise"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeAttachment(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", name, buf.Bytes())
}

func (s *Server) handleBackupExport(w http.ResponseWriter, r *http.Request) {
	doc, err := s.svc.ExportBackup(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := backup.Write(&buf, doc); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeAttachment(w, "application/json", s.svc.BackupFilename(), buf.Bytes())
}

func (s *Server) handleBackupImport(w http.ResponseWriter, r *http.Request) {
	mode, err := backup.ParseMode(r.URL.Query().Get("mode"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	result, err := s.svc.ImportBackup(r.Context(), r.Body, mode)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleWipe requires ?confirm=true so a stray DELETE cannot empty the log.
func (s *Server) handleWipe(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "true" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "confirm=true required to delete all data"})
		return
	}
	if err := s.svc.Wipe(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAlphaIngest(w http.ResponseWriter, r *http.Request) {
	result, err := s.svc.IngestAlpha(r.Context(), r.Body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleImportLogs(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", 0)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	logs, err := s.svc.ImportLogs(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// writeError maps input errors to 400 with their message. Anything else is a
// store failure: the service already logged it, the client gets a generic 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, logbook.ErrValidation),
		errors.Is(err, backup.ErrInvalidDocument),
		errors.Is(err, plates.ErrBelowBar),
		errors.Is(err, plates.ErrNoExactMatch):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		s.log.Debug("request failed", "path", r.URL.Path, "request_id", requestIDFromContext(r), "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "operation failed"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func pairParams(w http.ResponseWriter, r *http.Request) (exercise, setType string, ok bool) {
	exercise = r.URL.Query().Get("exercise")
	setType = r.URL.Query().Get("set_type")
	if exercise == "" || setType == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise and set_type parameters required"})
		return "", "", false
	}
	return exercise, setType, true
}

func intParam(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parameter must be an integer", name)
	}
	return n, nil
}
