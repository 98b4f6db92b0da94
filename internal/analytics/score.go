// Package analytics derives personal records, the key-lift snapshot and the
// bodyweight trend from logged sets and sessions.
package analytics

import (
	"math"

	"github.com/claude/logbook/internal/load"
	"github.com/claude/logbook/internal/models"
	"github.com/claude/logbook/internal/program"
)

// PRWindow is how many of the newest history rows are considered for a PR.
const PRWindow = 2000

// Score returns the PR score of s. Bodyweight-failure movements score their
// rep count. Everything else scores the Epley estimate load*(1+reps/30),
// with the load resolved against the set's own bodyweight. ok is false when
// the set cannot be scored; such sets are skipped rather than counted as zero.
func Score(s models.Set) (score float64, ok bool) {
	if program.IsBodyweightFailure(s.Exercise) {
		if s.Reps == nil || *s.Reps < 0 {
			return 0, false
		}
		return float64(*s.Reps), true
	}

	v, err := load.Parse(s.Load, s.Bodyweight)
	if err != nil {
		return 0, false
	}
	if s.Reps == nil || *s.Reps <= 0 {
		return 0, false
	}
	return Epley(v.Number, *s.Reps), true
}

// Epley estimates a one-rep max from a submaximal set.
func Epley(weight float64, reps int64) float64 {
	return weight * (1 + float64(reps)/30)
}

// Best returns the highest-scoring row of setType, or nil when none scores.
// On equal scores the earlier row wins, so newest-first input keeps the
// newest set.
func Best(rows []models.Set, setType string) *models.PR {
	var best *models.PR
	for _, r := range rows {
		if r.SetType != setType {
			continue
		}
		score, ok := Score(r)
		if !ok {
			continue
		}
		if best == nil || score > best.Score {
			best = &models.PR{Score: score, Set: r}
		}
	}
	return best
}

// roundHalfUp rounds to the nearest integer with halves going up, so -2.5
// becomes -2.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

// roundTenth rounds to one decimal place with halves going up.
func roundTenth(v float64) float64 {
	return roundHalfUp(v*10) / 10
}
