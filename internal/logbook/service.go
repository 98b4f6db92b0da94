// Package logbook is the application service every outer surface (HTTP,
// MCP, CLI) goes through. It validates user input before the store is
// touched, keeps the PR cache coherent with writes and records metrics.
package logbook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/claude/logbook/internal/analytics"
	"github.com/claude/logbook/internal/ingest/alpha"
	"github.com/claude/logbook/internal/models"
	"github.com/claude/logbook/internal/observability"
	"github.com/claude/logbook/internal/plates"
	"github.com/claude/logbook/internal/program"
	"github.com/claude/logbook/internal/storage"
	"github.com/claude/logbook/internal/suggest"
)

// ErrValidation marks input rejected before any store interaction.
var ErrValidation = errors.New("validation failed")

// Service wires the store, the program catalog and the analytics engine.
type Service struct {
	db      *storage.DB
	catalog *program.Catalog
	engine  *analytics.Engine
	alpha   *alpha.Provider
	log     *slog.Logger
	now     func() time.Time
}

// New creates a Service. The engine must read from db.
func New(db *storage.DB, catalog *program.Catalog, engine *analytics.Engine, log *slog.Logger) *Service {
	return &Service{
		db:      db,
		catalog: catalog,
		engine:  engine,
		alpha:   alpha.NewProvider(db, log),
		log:     log,
		now:     time.Now,
	}
}

// SaveRequest is the user input for one session.
type SaveRequest struct {
	Date       string            `json:"date"`
	Type       string            `json:"type"`
	Bodyweight *float64          `json:"bodyweight"`
	Calories   *int64            `json:"calories"`
	Sleep      *float64          `json:"sleep"`
	Sets       []models.SetInput `json:"sets"`
}

// SaveSession validates req and stores the session with its non-empty set
// rows atomically. It returns the new session id.
func (s *Service) SaveSession(ctx context.Context, req SaveRequest) (int64, error) {
	session, rows, err := s.validate(req)
	if err != nil {
		return 0, err
	}

	id, err := s.db.CreateSession(ctx, session, rows)
	if err != nil {
		return 0, s.fail("save_session", err)
	}
	s.engine.Invalidate()
	observability.RecordSessionSaved(len(rows), session.CreatedAt)

	s.log.Info("session saved", "id", id, "date", session.Date, "type", session.Type, "sets", len(rows))
	return id, nil
}

func (s *Service) validate(req SaveRequest) (models.Session, []models.SetInput, error) {
	date := strings.TrimSpace(req.Date)
	if date == "" {
		return models.Session{}, nil, fmt.Errorf("%w: date is required", ErrValidation)
	}
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return models.Session{}, nil, fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrValidation, date)
	}
	if !s.catalog.HasWorkout(req.Type) {
		return models.Session{}, nil, fmt.Errorf("%w: unknown workout type %q", ErrValidation, req.Type)
	}
	if req.Calories != nil && *req.Calories < 0 {
		return models.Session{}, nil, fmt.Errorf("%w: calories must not be negative", ErrValidation)
	}

	rows := make([]models.SetInput, 0, len(req.Sets))
	for _, in := range req.Sets {
		in.Exercise = strings.TrimSpace(in.Exercise)
		in.Load = strings.TrimSpace(in.Load)
		in.Notes = strings.TrimSpace(in.Notes)
		if in.Empty() {
			continue
		}
		if in.Exercise == "" {
			return models.Session{}, nil, fmt.Errorf("%w: set without exercise", ErrValidation)
		}
		if in.Reps != nil && *in.Reps < 0 {
			return models.Session{}, nil, fmt.Errorf("%w: %s %s: reps must not be negative", ErrValidation, in.Exercise, in.SetType)
		}
		rows = append(rows, in)
	}
	if len(rows) == 0 {
		return models.Session{}, nil, fmt.Errorf("%w: no sets entered", ErrValidation)
	}

	return models.Session{
		Date:       date,
		Type:       req.Type,
		Bodyweight: req.Bodyweight,
		Calories:   req.Calories,
		Sleep:      req.Sleep,
		CreatedAt:  s.now(),
	}, rows, nil
}

// fail logs a store failure, counts it and returns it wrapped with op.
func (s *Service) fail(op string, err error) error {
	observability.RecordFailure(op)
	s.log.Error("operation failed", "op", op, "error", err)
	return fmt.Errorf("%s: %w", op, err)
}

// LastFor returns the most recent set for (exercise, setType), or nil.
func (s *Service) LastFor(ctx context.Context, exercise, setType string) (*models.Set, error) {
	last, err := s.db.MostRecentFor(ctx, exercise, setType)
	if err != nil {
		return nil, s.fail("last_for", err)
	}
	return last, nil
}

// History returns up to limit sets for exercise, newest first.
func (s *Service) History(ctx context.Context, exercise string, limit int) ([]models.Set, error) {
	rows, err := s.db.History(ctx, exercise, limit)
	if err != nil {
		return nil, s.fail("history", err)
	}
	return rows, nil
}

// RecentSessions returns up to limit sessions, newest first.
func (s *Service) RecentSessions(ctx context.Context, limit int) ([]models.Session, error) {
	sessions, err := s.db.RecentSessions(ctx, limit)
	if err != nil {
		return nil, s.fail("recent_sessions", err)
	}
	return sessions, nil
}

// SessionSets returns the sets logged in one session.
func (s *Service) SessionSets(ctx context.Context, sessionID int64) ([]models.Set, error) {
	rows, err := s.db.SessionSets(ctx, sessionID)
	if err != nil {
		return nil, s.fail("session_sets", err)
	}
	return rows, nil
}

// Exercises lists the catalog's exercises, sorted. Logged data is not
// consulted.
func (s *Service) Exercises() []string {
	return s.catalog.Exercises()
}

// Program returns the workout templates in catalog order.
func (s *Service) Program() []program.Workout {
	return s.catalog.Workouts()
}

// Catalog returns the program catalog the service validates against.
func (s *Service) Catalog() *program.Catalog {
	return s.catalog
}

// BestPR returns the best-scoring set for (exercise, setType), or nil.
func (s *Service) BestPR(ctx context.Context, exercise, setType string) (*models.PR, error) {
	pr, err := s.engine.BestPR(ctx, exercise, setType)
	if err != nil {
		return nil, s.fail("best_pr", err)
	}
	return pr, nil
}

// Suggest proposes the next set for (exercise, setType) from the most recent
// matching one. It returns nil when nothing was logged yet.
func (s *Service) Suggest(ctx context.Context, exercise, setType string) (*models.Suggestion, error) {
	last, err := s.LastFor(ctx, exercise, setType)
	if err != nil {
		return nil, err
	}
	return suggest.Suggest(exercise, setType, last), nil
}

// Snapshot reports last set and PR for the catalog's key lifts.
func (s *Service) Snapshot(ctx context.Context) ([]analytics.SnapshotRow, error) {
	rows, err := s.engine.Snapshot(ctx, s.catalog.Snapshot())
	if err != nil {
		return nil, s.fail("snapshot", err)
	}
	return rows, nil
}

// BodyweightTrend summarizes bodyweight over the last days.
func (s *Service) BodyweightTrend(ctx context.Context, days int) (analytics.Trend, error) {
	if days <= 0 {
		return analytics.Trend{}, fmt.Errorf("%w: days must be positive", ErrValidation)
	}
	trend, err := s.engine.BodyweightTrend(ctx, days, s.now())
	if err != nil {
		return analytics.Trend{}, s.fail("bodyweight_trend", err)
	}
	return trend, nil
}

// Stats summarizes what is stored.
func (s *Service) Stats(ctx context.Context) (*storage.DataStats, error) {
	stats, err := s.db.DataStats(ctx)
	if err != nil {
		return nil, s.fail("stats", err)
	}
	return stats, nil
}

// TrainingIntensity reports the RIR distribution over the last days,
// optionally for one exercise.
func (s *Service) TrainingIntensity(ctx context.Context, days int, exercise string) (*storage.TrainingIntensityResult, error) {
	if days <= 0 {
		return nil, fmt.Errorf("%w: days must be positive", ErrValidation)
	}
	now := s.now()
	from := now.AddDate(0, 0, -days).Format(models.DateLayout)
	to := now.AddDate(0, 0, 1).Format(models.DateLayout)
	result, err := s.db.TrainingIntensity(ctx, from, to, exercise)
	if err != nil {
		return nil, s.fail("training_intensity", err)
	}
	return result, nil
}

// Plates breaks target down into plates per side of bar.
func (s *Service) Plates(target, bar float64) (*plates.Breakdown, error) {
	return plates.Calculate(target, bar)
}
