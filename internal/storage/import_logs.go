package storage

import (
	"context"
	"fmt"
	"time"
)

// Import log statuses.
const (
	ImportRunning = "running"
	ImportSuccess = "success"
	ImportError   = "error"
)

// ImportLog represents a single import operation's outcome.
type ImportLog struct {
	ID               int64     `json:"id"`
	CreatedAt        time.Time `json:"created_at"`
	Source           string    `json:"source"`
	Mode             string    `json:"mode"`
	Status           string    `json:"status"`
	SessionsInserted int64     `json:"sessions_inserted"`
	SetsInserted     int64     `json:"sets_inserted"`
	DurationMs       *int64    `json:"duration_ms"`
	ErrorMessage     *string   `json:"error_message"`
}

type importLogRow struct {
	ID               int64   `db:"id"`
	CreatedAt        string  `db:"created_at"`
	Source           string  `db:"source"`
	Mode             string  `db:"mode"`
	Status           string  `db:"status"`
	SessionsInserted int64   `db:"sessions_inserted"`
	SetsInserted     int64   `db:"sets_inserted"`
	DurationMs       *int64  `db:"duration_ms"`
	ErrorMessage     *string `db:"error_message"`
}

// InsertImportLog creates a new import log entry and returns its ID.
func (db *DB) InsertImportLog(ctx context.Context, log ImportLog) (int64, error) {
	var id int64
	err := db.x.QueryRowxContext(ctx, db.x.Rebind(
		`INSERT INTO import_logs (created_at, source, mode, status, sessions_inserted,
		 sets_inserted, duration_ms, error_message)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 RETURNING id`),
		formatTimestamp(log.CreatedAt), log.Source, log.Mode, log.Status,
		log.SessionsInserted, log.SetsInserted, log.DurationMs, log.ErrorMessage,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting import log: %w", err)
	}
	return id, nil
}

// UpdateImportLog updates an existing import log entry (typically from "running" to "success" or "error").
func (db *DB) UpdateImportLog(ctx context.Context, id int64, log ImportLog) error {
	_, err := db.x.ExecContext(ctx, db.x.Rebind(
		`UPDATE import_logs SET
		 status = ?, sessions_inserted = ?, sets_inserted = ?, duration_ms = ?, error_message = ?
		 WHERE id = ?`),
		log.Status, log.SessionsInserted, log.SetsInserted, log.DurationMs, log.ErrorMessage, id,
	)
	if err != nil {
		return fmt.Errorf("updating import log %d: %w", id, err)
	}
	return nil
}

// ImportLogs returns the most recent import log entries, newest first.
func (db *DB) ImportLogs(ctx context.Context, limit int) ([]ImportLog, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []importLogRow
	err := db.x.SelectContext(ctx, &rows, db.x.Rebind(
		`SELECT id, created_at, source, mode, status, sessions_inserted, sets_inserted,
		 duration_ms, error_message
		 FROM import_logs
		 ORDER BY id DESC
		 LIMIT ?`), limit)
	if err != nil {
		return nil, fmt.Errorf("querying import logs: %w", err)
	}

	out := make([]ImportLog, len(rows))
	for i, r := range rows {
		out[i] = ImportLog{
			ID:               r.ID,
			CreatedAt:        parseTimestamp(r.CreatedAt),
			Source:           r.Source,
			Mode:             r.Mode,
			Status:           r.Status,
			SessionsInserted: r.SessionsInserted,
			SetsInserted:     r.SetsInserted,
			DurationMs:       r.DurationMs,
			ErrorMessage:     r.ErrorMessage,
		}
	}
	return out, nil
}
