package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/claude/logbook/internal/models"
)

// Default bounds for the newest-first queries.
const (
	DefaultHistoryLimit = 200
	DefaultSessionLimit = 50
)

const setColumns = `id, session_id, exercise, set_type, load, reps, rir, notes, date, type, bodyweight`

// Sets returns every stored set in id order.
func (db *DB) Sets(ctx context.Context) ([]models.Set, error) {
	return db.selectSets(ctx, `SELECT `+setColumns+` FROM sets ORDER BY id`)
}

// SessionSets returns the sets owned by one session in insertion order.
func (db *DB) SessionSets(ctx context.Context, sessionID int64) ([]models.Set, error) {
	return db.selectSets(ctx,
		`SELECT `+setColumns+` FROM sets WHERE session_id = ? ORDER BY id`, sessionID)
}

// MostRecentFor returns the latest set logged for (exercise, setType): the
// greatest date, and on equal dates the greatest id. It returns nil when no
// set matches.
func (db *DB) MostRecentFor(ctx context.Context, exercise, setType string) (*models.Set, error) {
	var s models.Set
	err := db.x.GetContext(ctx, &s, db.x.Rebind(
		`SELECT `+setColumns+` FROM sets
		 WHERE exercise = ? AND set_type = ?
		 ORDER BY date DESC, id DESC
		 LIMIT 1`), exercise, setType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying last %s / %s: %w", exercise, setType, err)
	}
	return &s, nil
}

// History returns up to limit sets for exercise across all set types, newest
// date first with ties broken by the larger id. A non-positive limit means
// DefaultHistoryLimit.
func (db *DB) History(ctx context.Context, exercise string, limit int) ([]models.Set, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return db.selectSets(ctx,
		`SELECT `+setColumns+` FROM sets
		 WHERE exercise = ?
		 ORDER BY date DESC, id DESC
		 LIMIT ?`, exercise, limit)
}

func (db *DB) selectSets(ctx context.Context, query string, args ...any) ([]models.Set, error) {
	rows := []models.Set{}
	if err := db.x.SelectContext(ctx, &rows, db.x.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("querying sets: %w", err)
	}
	return rows, nil
}
