package analytics

import (
	"context"
	"fmt"
	"strconv"

	"github.com/claude/logbook/internal/models"
	"github.com/claude/logbook/internal/program"
)

// Placeholder is shown when there is no last set or no PR.
const Placeholder = "—"

// SnapshotRow is the last set and PR of one key lift.
type SnapshotRow struct {
	Exercise string      `json:"exercise"`
	SetType  string      `json:"set_type"`
	Last     *models.Set `json:"last"`
	PR       *models.PR  `json:"pr"`
	LastText string      `json:"last_text"`
	PRText   string      `json:"pr_text"`
}

// Snapshot builds one row per pair, in the given order.
func (e *Engine) Snapshot(ctx context.Context, pairs []program.Pair) ([]SnapshotRow, error) {
	rows := make([]SnapshotRow, 0, len(pairs))
	for _, p := range pairs {
		last, err := e.store.MostRecentFor(ctx, p.Exercise, p.SetType)
		if err != nil {
			return nil, fmt.Errorf("snapshot last set: %w", err)
		}
		pr, err := e.BestPR(ctx, p.Exercise, p.SetType)
		if err != nil {
			return nil, fmt.Errorf("snapshot PR: %w", err)
		}
		rows = append(rows, SnapshotRow{
			Exercise: p.Exercise,
			SetType:  p.SetType,
			Last:     last,
			PR:       pr,
			LastText: LastText(last),
			PRText:   PRText(p.Exercise, pr),
		})
	}
	return rows, nil
}

// LastText renders a set as "<load> x <reps> @RIR <rir> (<date>)". Absent
// fields render empty.
func LastText(s *models.Set) string {
	if s == nil {
		return Placeholder
	}
	reps := ""
	if s.Reps != nil {
		reps = strconv.FormatInt(*s.Reps, 10)
	}
	rir := ""
	if s.RIR != nil {
		rir = strconv.FormatFloat(*s.RIR, 'f', -1, 64)
	}
	return fmt.Sprintf("%s x %s @RIR %s (%s)", s.Load, reps, rir, s.Date)
}

// PRText renders a PR as a rep count for bodyweight-failure movements and as
// a rounded estimated max otherwise.
func PRText(exercise string, pr *models.PR) string {
	if pr == nil {
		return Placeholder
	}
	if program.IsBodyweightFailure(exercise) {
		reps := ""
		if pr.Set.Reps != nil {
			reps = strconv.FormatInt(*pr.Set.Reps, 10)
		}
		return reps + " reps"
	}
	return fmt.Sprintf("e1RM ≈ %.0f", roundHalfUp(pr.Score))
}
