// Package plates works out which plates to load on each side of a barbell.
package plates

import (
	"errors"
	"math"
)

// DefaultBar is the weight of a standard barbell.
const DefaultBar = 45.0

// Available lists the plate weights per side, heaviest first.
var Available = []float64{45, 35, 25, 10, 5, 2.5}

var (
	ErrBelowBar     = errors.New("target is below bar weight")
	ErrNoExactMatch = errors.New("cannot match exactly with standard plates")
)

// Breakdown is the plate list for one side of the bar.
type Breakdown struct {
	Target  float64   `json:"target"`
	Bar     float64   `json:"bar"`
	PerSide float64   `json:"per_side"`
	Plates  []float64 `json:"plates"`
}

// Calculate greedily fills half of target-bar, rounded to the nearest 0.5,
// with the heaviest plates first.
func Calculate(target, bar float64) (*Breakdown, error) {
	total := target - bar
	if total < 0 {
		return nil, ErrBelowBar
	}
	perSide := total / 2
	rem := half(perSide)

	out := []float64{}
	for _, p := range Available {
		for rem >= p-1e-9 {
			out = append(out, p)
			rem = half(rem - p)
		}
	}
	if rem > 0.01 {
		return nil, ErrNoExactMatch
	}
	return &Breakdown{Target: target, Bar: bar, PerSide: perSide, Plates: out}, nil
}

func half(v float64) float64 {
	return math.Floor(v*2+0.5) / 2
}
