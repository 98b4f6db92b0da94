package storage

import (
	"context"
	"fmt"

	"github.com/claude/logbook/internal/models"
)

const sessionColumns = `id, date, type, bodyweight, calories, sleep, created_at`

// sessionRow carries created_at as stored text.
type sessionRow struct {
	models.Session
	CreatedAt string `db:"created_at"`
}

func (r sessionRow) toModel() models.Session {
	s := r.Session
	s.CreatedAt = parseTimestamp(r.CreatedAt)
	return s
}

// CreateSession inserts s and one set per input row in a single transaction.
// Nothing is written if any insert fails.
func (db *DB) CreateSession(ctx context.Context, s models.Session, rows []models.SetInput) (int64, error) {
	var id int64
	err := db.WithTx(ctx, func(tx *Tx) error {
		var err error
		id, err = tx.CreateSession(ctx, s, rows)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("creating session: %w", err)
	}
	return id, nil
}

// CreateSession inserts s and then one set per input row, each bound to the
// new session id and carrying copies of the session's date, type and
// bodyweight.
func (t *Tx) CreateSession(ctx context.Context, s models.Session, rows []models.SetInput) (int64, error) {
	id, err := t.InsertSession(ctx, s)
	if err != nil {
		return 0, err
	}
	for _, in := range rows {
		set := models.Set{
			SessionID:  id,
			Exercise:   in.Exercise,
			SetType:    in.SetType,
			Load:       in.Load,
			Reps:       in.Reps,
			RIR:        in.RIR,
			Notes:      in.Notes,
			Date:       s.Date,
			Type:       s.Type,
			Bodyweight: s.Bodyweight,
		}
		if _, err := t.InsertSet(ctx, set); err != nil {
			return 0, err
		}
	}
	return id, nil
}

// Sessions returns every stored session in id order.
func (db *DB) Sessions(ctx context.Context) ([]models.Session, error) {
	return db.selectSessions(ctx, `SELECT `+sessionColumns+` FROM sessions ORDER BY id`)
}

// RecentSessions returns up to limit sessions, newest date first, ties broken
// by the larger id. A non-positive limit means DefaultSessionLimit.
func (db *DB) RecentSessions(ctx context.Context, limit int) ([]models.Session, error) {
	if limit <= 0 {
		limit = DefaultSessionLimit
	}
	return db.selectSessions(ctx,
		`SELECT `+sessionColumns+` FROM sessions ORDER BY date DESC, id DESC LIMIT ?`, limit)
}

// ClearAll deletes every session and set in one transaction.
func (db *DB) ClearAll(ctx context.Context) error {
	return db.WithTx(ctx, func(tx *Tx) error {
		return tx.ClearAll(ctx)
	})
}

func (db *DB) selectSessions(ctx context.Context, query string, args ...any) ([]models.Session, error) {
	var rows []sessionRow
	if err := db.x.SelectContext(ctx, &rows, db.x.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	out := make([]models.Session, len(rows))
	for i, r := range rows {
		out[i] = r.toModel()
	}
	return out, nil
}
