package storage

import (
	"context"
	"fmt"
)

// DataStats holds aggregate statistics about all stored data.
type DataStats struct {
	TotalSessions  int64             `json:"total_sessions"`
	TotalSets      int64             `json:"total_sets"`
	EarliestDate   *string           `json:"earliest_date"`
	LatestDate     *string           `json:"latest_date"`
	SessionsByType []WorkoutTypeStat `json:"sessions_by_type"`
}

// WorkoutTypeStat holds summary stats for a single workout type.
type WorkoutTypeStat struct {
	Type     string `json:"type" db:"type"`
	Sessions int64  `json:"sessions" db:"sessions"`
	Sets     int64  `json:"sets" db:"sets"`
}

// DataStats returns aggregate statistics for the stored log.
func (db *DB) DataStats(ctx context.Context) (*DataStats, error) {
	stats := &DataStats{SessionsByType: []WorkoutTypeStat{}}

	err := db.x.QueryRowxContext(ctx,
		`SELECT COUNT(*), MIN(date), MAX(date) FROM sessions`,
	).Scan(&stats.TotalSessions, &stats.EarliestDate, &stats.LatestDate)
	if err != nil {
		return nil, fmt.Errorf("counting sessions: %w", err)
	}

	err = db.x.QueryRowxContext(ctx, `SELECT COUNT(*) FROM sets`).Scan(&stats.TotalSets)
	if err != nil {
		return nil, fmt.Errorf("counting sets: %w", err)
	}

	err = db.x.SelectContext(ctx, &stats.SessionsByType,
		`SELECT s.type AS type, COUNT(DISTINCT s.id) AS sessions, COUNT(t.id) AS sets
		 FROM sessions s
		 LEFT JOIN sets t ON t.session_id = s.id
		 GROUP BY s.type
		 ORDER BY COUNT(DISTINCT s.id) DESC, s.type`)
	if err != nil {
		return nil, fmt.Errorf("querying sessions by type: %w", err)
	}
	return stats, nil
}
