package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/multierr"

	"github.com/claude/logbook/internal/models"
)

// Tx is a write transaction. All inserts made through it commit or roll back
// together.
type Tx struct {
	tx *sqlx.Tx
}

// WithTx runs fn inside a transaction. The transaction commits when fn
// returns nil and rolls back otherwise, including on panic.
func (db *DB) WithTx(ctx context.Context, fn func(*Tx) error) (err error) {
	tx, err := db.x.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&Tx{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return multierr.Append(err, fmt.Errorf("rolling back: %w", rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// InsertSession inserts s, ignoring s.ID, and returns the assigned id.
func (t *Tx) InsertSession(ctx context.Context, s models.Session) (int64, error) {
	var id int64
	err := t.tx.QueryRowxContext(ctx, t.tx.Rebind(
		`INSERT INTO sessions (date, type, bodyweight, calories, sleep, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 RETURNING id`),
		s.Date, s.Type, s.Bodyweight, s.Calories, s.Sleep, formatTimestamp(s.CreatedAt),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting session: %w", err)
	}
	return id, nil
}

// InsertSet inserts s, ignoring s.ID, and returns the assigned id. The
// denormalized date, type and bodyweight are written as given.
func (t *Tx) InsertSet(ctx context.Context, s models.Set) (int64, error) {
	var id int64
	err := t.tx.QueryRowxContext(ctx, t.tx.Rebind(
		`INSERT INTO sets (session_id, exercise, set_type, load, reps, rir, notes, date, type, bodyweight)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 RETURNING id`),
		s.SessionID, s.Exercise, s.SetType, s.Load, s.Reps, s.RIR, s.Notes, s.Date, s.Type, s.Bodyweight,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting set for %q: %w", s.Exercise, err)
	}
	return id, nil
}

// ClearAll deletes every set and session. Id sequences are not reset.
func (t *Tx) ClearAll(ctx context.Context) error {
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM sets`); err != nil {
		return fmt.Errorf("clearing sets: %w", err)
	}
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM sessions`); err != nil {
		return fmt.Errorf("clearing sessions: %w", err)
	}
	return nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
