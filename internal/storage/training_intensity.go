package storage

import (
	"context"
	"fmt"
)

// RIRBand holds the count and percentage of sets in a specific RIR range.
type RIRBand struct {
	Band     string  `json:"band" db:"band"`
	RIRRange string  `json:"rir_range" db:"rir_range"`
	Sets     int     `json:"sets" db:"sets"`
	Pct      float64 `json:"pct" db:"-"`
}

// ExerciseSummary holds aggregated stats for a single exercise.
type ExerciseSummary struct {
	Name      string   `json:"name" db:"exercise"`
	TotalSets int      `json:"total_sets" db:"total_sets"`
	TotalReps int      `json:"total_reps" db:"total_reps"`
	AvgRIR    *float64 `json:"avg_rir,omitempty" db:"avg_rir"`
}

// TrainingIntensityResult holds the complete intensity analysis.
type TrainingIntensityResult struct {
	From            string            `json:"from"`
	To              string            `json:"to"`
	RIRDistribution []RIRBand         `json:"rir_distribution"`
	FailureRatePct  float64           `json:"failure_rate_pct"`
	TotalSets       int               `json:"total_sets"`
	TrackedSets     int               `json:"tracked_sets"`
	Exercises       []ExerciseSummary `json:"exercises"`
}

// TrainingIntensity returns the RIR distribution, failure rate and
// per-exercise stats for sets dated in [from, to). A set without RIR counts
// as untracked. A non-empty exercise restricts every figure to that exercise.
func (db *DB) TrainingIntensity(ctx context.Context, from, to, exercise string) (*TrainingIntensityResult, error) {
	result := &TrainingIntensityResult{
		From:            from,
		To:              to,
		RIRDistribution: []RIRBand{},
		Exercises:       []ExerciseSummary{},
	}

	filter := `date >= ? AND date < ?`
	args := []any{from, to}
	if exercise != "" {
		filter += ` AND exercise = ?`
		args = append(args, exercise)
	}

	err := db.x.SelectContext(ctx, &result.RIRDistribution, db.x.Rebind(
		`SELECT band, rir_range, sets FROM (
			SELECT
				CASE
					WHEN rir IS NULL THEN 'untracked'
					WHEN rir <= 0 THEN 'failure'
					WHEN rir <= 1 THEN 'near_failure'
					WHEN rir <= 2 THEN 'moderate'
					WHEN rir <= 3 THEN 'easy'
					ELSE 'very_easy'
				END AS band,
				CASE
					WHEN rir IS NULL THEN 'untracked'
					WHEN rir <= 0 THEN '0'
					WHEN rir <= 1 THEN '0.5-1'
					WHEN rir <= 2 THEN '1.5-2'
					WHEN rir <= 3 THEN '2.5-3'
					ELSE '>3'
				END AS rir_range,
				CAST(COUNT(*) AS INTEGER) AS sets
			FROM sets
			WHERE `+filter+`
			GROUP BY 1, 2
		) sub
		ORDER BY CASE band
			WHEN 'failure' THEN 1
			WHEN 'near_failure' THEN 2
			WHEN 'moderate' THEN 3
			WHEN 'easy' THEN 4
			WHEN 'very_easy' THEN 5
			ELSE 6
		END`), args...)
	if err != nil {
		return nil, fmt.Errorf("querying RIR distribution: %w", err)
	}

	var failureSets int
	for _, b := range result.RIRDistribution {
		result.TotalSets += b.Sets
		if b.Band != "untracked" {
			result.TrackedSets += b.Sets
		}
		if b.Band == "failure" || b.Band == "near_failure" {
			failureSets += b.Sets
		}
	}
	for i := range result.RIRDistribution {
		if result.TotalSets > 0 {
			result.RIRDistribution[i].Pct = float64(result.RIRDistribution[i].Sets) / float64(result.TotalSets) * 100
		}
	}
	if result.TrackedSets > 0 {
		result.FailureRatePct = float64(failureSets) / float64(result.TrackedSets) * 100
	}

	err = db.x.SelectContext(ctx, &result.Exercises, db.x.Rebind(
		`SELECT exercise,
		        CAST(COUNT(*) AS INTEGER) AS total_sets,
		        CAST(COALESCE(SUM(reps), 0) AS INTEGER) AS total_reps,
		        AVG(rir) AS avg_rir
		 FROM sets
		 WHERE `+filter+`
		 GROUP BY exercise
		 ORDER BY COUNT(*) DESC, exercise`), args...)
	if err != nil {
		return nil, fmt.Errorf("querying exercise summary: %w", err)
	}
	return result, nil
}
