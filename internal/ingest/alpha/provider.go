package alpha

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/claude/logbook/internal/ingest"
	"github.com/claude/logbook/internal/load"
	"github.com/claude/logbook/internal/models"
	"github.com/claude/logbook/internal/storage"
)

// Provider processes Alpha Progression CSV exports.
type Provider struct {
	db  *storage.DB
	log *slog.Logger
	now func() time.Time
}

// NewProvider creates a new Alpha Progression ingest provider.
func NewProvider(db *storage.DB, log *slog.Logger) *Provider {
	return &Provider{db: db, log: log, now: time.Now}
}

// Name implements ingest.Provider.
func (p *Provider) Name() string { return "alpha" }

// Ingest parses a CSV export and logs each session with its sets, all in one
// transaction. Sessions without sets are skipped. Nothing is deduplicated:
// importing the same export twice logs it twice.
func (p *Provider) Ingest(ctx context.Context, r io.Reader) (*ingest.Result, error) {
	sessions, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	result := &ingest.Result{SessionsReceived: len(sessions)}
	createdAt := p.now()

	err = p.db.WithTx(ctx, func(tx *storage.Tx) error {
		for _, s := range sessions {
			session, rows := Convert(s, createdAt)
			result.SetsReceived += len(rows)
			if len(rows) == 0 {
				result.SessionsSkipped++
				continue
			}
			if _, err := tx.CreateSession(ctx, session, rows); err != nil {
				return fmt.Errorf("logging session %s: %w", session.Date, err)
			}
			result.SessionsInserted++
			result.SetsInserted += int64(len(rows))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("inserting sessions: %w", err)
	}

	p.log.Info("alpha export ingested",
		"sessions", result.SessionsInserted,
		"sets", result.SetsInserted,
		"skipped", result.SessionsSkipped)
	return result, nil
}

// Convert maps one Alpha session to a logbook session and its set rows. The
// session type is the Alpha session name. Working sets are "Set <n>" and
// warmups "Warm-up <n>"; the equipment goes into the notes.
func Convert(s Session, createdAt time.Time) (models.Session, []models.SetInput) {
	session := models.Session{
		Date:      s.Date.Format(models.DateLayout),
		Type:      s.Name,
		CreatedAt: createdAt,
	}

	var rows []models.SetInput
	for _, ex := range s.Exercises {
		for _, set := range ex.Sets {
			reps := int64(set.Reps)
			row := models.SetInput{
				Exercise: ex.Name,
				SetType:  setType(set),
				Load:     loadText(set),
				Reps:     &reps,
				Notes:    ex.Equipment,
			}
			if set.RIR != UntrackedRIR {
				rir := set.RIR
				row.RIR = &rir
			}
			rows = append(rows, row)
		}
	}
	return session, rows
}

func setType(s Set) string {
	if s.IsWarmup {
		return fmt.Sprintf("Warm-up %d", s.Number)
	}
	return fmt.Sprintf("Set %d", s.Number)
}

// loadText writes kilograms as "<n> kg" and bodyweight-plus as "BW+<n>", or
// "BW" when nothing is added.
func loadText(s Set) string {
	if s.IsBodyweightPlus {
		if s.WeightKg == 0 {
			return "BW"
		}
		return load.FormatBodyweight(s.WeightKg)
	}
	return load.FormatNumber(s.WeightKg) + " kg"
}
