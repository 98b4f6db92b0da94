package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claude/logbook/internal/models"
)

func fp(v float64) *float64 { return &v }
func ip(v int64) *int64     { return &v }

func TestSuggestNoLast(t *testing.T) {
	assert.Nil(t, Suggest("Bench Press", "Top Set", nil))
}

// TestSuggestFailureMovement verifies pull-ups add 5 to the BW addend at 10+
// reps and otherwise repeat the load, always signalling RIR 0.
func TestSuggestFailureMovement(t *testing.T) {
	tests := []struct {
		name string
		last models.Set
		want string
	}{
		{"earned", models.Set{Load: "BW+20", Reps: ip(12)}, "BW+25"},
		{"exactly ten", models.Set{Load: "BW+20", Reps: ip(10)}, "BW+25"},
		{"not earned", models.Set{Load: "BW+20", Reps: ip(6)}, "BW+20"},
		{"unknown reps", models.Set{Load: "BW+20"}, "BW+20"},
		{"bare bw", models.Set{Load: "BW", Reps: ip(11)}, "BW+5"},
		{"no load", models.Set{Reps: ip(11)}, "BW+5"},
		{"lower case", models.Set{Load: "bw + 2.5", Reps: ip(10)}, "BW+7.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Suggest("Pull-Ups (Failure)", "Set 1 (Fail)", &tt.last)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Load)
			assert.Nil(t, got.Reps)
			require.NotNil(t, got.RIR)
			assert.Zero(t, *got.RIR)
		})
	}
}

// TestSuggestWeighted verifies the bump rules, step sizes and unit handling
// for loaded movements.
func TestSuggestWeighted(t *testing.T) {
	tests := []struct {
		name     string
		exercise string
		last     models.Set
		want     string
	}{
		{"bump", "Bench Press", models.Set{Load: "225", Reps: ip(9), RIR: fp(0.5)}, "230"},
		{"rir too high", "Bench Press", models.Set{Load: "225", Reps: ip(9), RIR: fp(3)}, "225"},
		{"reps too low", "Bench Press", models.Set{Load: "225", Reps: ip(6), RIR: fp(0)}, "225"},
		{"no rir", "Bench Press", models.Set{Load: "225", Reps: ip(10)}, "225"},
		{"rir boundary", "Leg Press", models.Set{Load: "400", Reps: ip(8), RIR: fp(1)}, "405"},
		{"isolation step", "Lateral Raise (Light)", models.Set{Load: "20s", Reps: ip(15), RIR: fp(1)}, "22.5s"},
		{"isolation case-insensitive", "Incline DB Curl", models.Set{Load: "30s", Reps: ip(12), RIR: fp(0)}, "32.5s"},
		{"unit text", "Romanian Deadlift", models.Set{Load: "100 kg", Reps: ip(8), RIR: fp(1)}, "105 kg"},
		{"rounds to half", "Bench Press", models.Set{Load: "102.3", Reps: ip(5), RIR: fp(2)}, "102.5"},
		{"unparseable echoes", "Bench Press", models.Set{Load: "heavy", Reps: ip(8), RIR: fp(0)}, "heavy"},
		{"bw not progressed", "Incline Bench / Dips", models.Set{Load: "BW+45", Reps: ip(10), RIR: fp(0)}, "BW+45"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Suggest(tt.exercise, "Top Set", &tt.last)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Load)
			assert.Nil(t, got.Reps)
			assert.Nil(t, got.RIR)
		})
	}
}

// TestSuggestIsPure verifies repeated calls agree and do not modify the input.
func TestSuggestIsPure(t *testing.T) {
	last := models.Set{Load: "225", Reps: ip(9), RIR: fp(0.5)}
	first := Suggest("Bench Press", "Top Set", &last)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Suggest("Bench Press", "Top Set", &last))
	}
	assert.Equal(t, "225", last.Load)
}
