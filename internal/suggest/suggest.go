// Package suggest proposes the next load for a set from the last matching one.
package suggest

import (
	"github.com/claude/logbook/internal/load"
	"github.com/claude/logbook/internal/models"
	"github.com/claude/logbook/internal/program"
)

// Progression thresholds.
const (
	FailureRepTarget = 10  // reps at which a failure movement adds weight
	FailureStep      = 5   // added weight per step for failure movements
	MinRepsForBump   = 8   // reps the last set must reach to earn a bump
	MaxRIRForBump    = 1.0 // RIR the last set must not exceed to earn a bump
	CompoundStep     = 5.0
	IsolationStep    = 2.5
)

// Suggest returns the next-set suggestion for (exercise, setType) given the
// last matching set, or nil when there is none. It depends only on its
// arguments; setType keys the lookup but does not change the rules.
func Suggest(exercise, setType string, last *models.Set) *models.Suggestion {
	if last == nil {
		return nil
	}
	if program.IsBodyweightFailure(exercise) {
		return failure(last)
	}
	return weighted(exercise, last)
}

func failure(last *models.Set) *models.Suggestion {
	zero := 0.0
	if last.Reps == nil || *last.Reps < FailureRepTarget {
		return &models.Suggestion{Load: last.Load, RIR: &zero}
	}
	next := load.BodyweightAddend(last.Load) + FailureStep
	return &models.Suggestion{Load: load.FormatBodyweight(next), RIR: &zero}
}

func weighted(exercise string, last *models.Set) *models.Suggestion {
	v, ok := load.ParseProgression(last.Load)
	if !ok {
		return &models.Suggestion{Load: last.Load}
	}

	step := CompoundStep
	if program.IsIsolation(exercise) {
		step = IsolationStep
	}
	n := v.Number
	if earned(last) {
		n += step
	}
	return &models.Suggestion{Load: load.Format(n, v.Suffix)}
}

// earned reports whether the last set was hard enough, at enough reps, to
// progress the load.
func earned(last *models.Set) bool {
	return last.RIR != nil && *last.RIR <= MaxRIRForBump &&
		last.Reps != nil && *last.Reps >= MinRepsForBump
}
