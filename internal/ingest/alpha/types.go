package alpha

import (
	"errors"
	"time"
)

// ErrMalformed wraps every parse failure of an export.
var ErrMalformed = errors.New("malformed alpha export")

// Session represents a parsed Alpha Progression workout session.
type Session struct {
	Name      string
	Date      time.Time
	Duration  string
	Exercises []Exercise
}

// Exercise represents a single exercise within a session.
type Exercise struct {
	Number     int
	Name       string
	Equipment  string
	TargetReps int
	Sets       []Set
}

// Set represents a single set (working or warmup).
type Set struct {
	Number           int
	WeightKg         float64
	IsBodyweightPlus bool
	Reps             int
	// RIR is UntrackedRIR when the set was logged without one.
	RIR      float64
	IsWarmup bool
}

// UntrackedRIR is the export's placeholder for a set logged without RIR.
const UntrackedRIR = -1
