package models

import "time"

// DateLayout is the calendar-day form sessions are keyed by. It sorts
// lexically in date order.
const DateLayout = "2006-01-02"

// Session is one logged workout.
type Session struct {
	ID         int64     `json:"id" db:"id"`
	Date       string    `json:"date" db:"date"`
	Type       string    `json:"type" db:"type"`
	Bodyweight *float64  `json:"bodyweight" db:"bodyweight"`
	Calories   *int64    `json:"calories" db:"calories"`
	Sleep      *float64  `json:"sleep" db:"sleep"`
	CreatedAt  time.Time `json:"createdAt" db:"-"`
}

// Set is one logged set. Date, Type and Bodyweight are copied from the owning
// session when the set is written and are not kept in sync afterwards.
type Set struct {
	ID         int64    `json:"id" db:"id"`
	SessionID  int64    `json:"sessionId" db:"session_id"`
	Exercise   string   `json:"exercise" db:"exercise"`
	SetType    string   `json:"setType" db:"set_type"`
	Load       string   `json:"load" db:"load"`
	Reps       *int64   `json:"reps" db:"reps"`
	RIR        *float64 `json:"rir" db:"rir"`
	Notes      string   `json:"notes" db:"notes"`
	Date       string   `json:"date" db:"date"`
	Type       string   `json:"type" db:"type"`
	Bodyweight *float64 `json:"bodyweight" db:"bodyweight"`
}

// SetInput is the raw per-set input collected for a new session.
type SetInput struct {
	Exercise string   `json:"exercise"`
	SetType  string   `json:"setType"`
	Load     string   `json:"load"`
	Reps     *int64   `json:"reps"`
	RIR      *float64 `json:"rir"`
	Notes    string   `json:"notes"`
}

// Empty reports whether nothing was entered for the set.
func (in SetInput) Empty() bool {
	return in.Load == "" && in.Reps == nil && in.RIR == nil && in.Notes == ""
}

// PR is the best-scoring set for an (exercise, set-type) pair.
type PR struct {
	Score float64 `json:"score"`
	Set   Set     `json:"set"`
}

// Suggestion is a proposed load/reps/RIR for the next set. Nil fields mean
// "no suggestion"; callers only fill fields the user left blank.
type Suggestion struct {
	Load string   `json:"load"`
	Reps *int64   `json:"reps"`
	RIR  *float64 `json:"rir"`
}
