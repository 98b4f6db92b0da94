// Package load parses the free-text load field of a logged set.
//
// A load is written the way a lifter would jot it down: "225", "102.5 kg",
// "70s" for a pair of 70 lb dumbbells, or "BW+25" for bodyweight plus 25.
// Decode turns that text into a typed Load; Parse resolves it to a number
// for scoring, and ParseProgression is the looser form used to compute the
// next suggested load.
package load

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrUnparseable is returned when the text matches no known encoding.
	ErrUnparseable = errors.New("unrecognized load")
	// ErrNoBodyweight is returned when a bodyweight-relative load has no
	// bodyweight to resolve against.
	ErrNoBodyweight = errors.New("bodyweight-relative load without bodyweight")
)

// Kind tags which encoding a Load was written in.
type Kind int

const (
	// Numeric is a plain number with optional unit text ("225", "70s", "40 kg").
	Numeric Kind = iota + 1
	// BodyweightRelative is bodyweight plus an added weight ("BW", "BW+25").
	BodyweightRelative
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case BodyweightRelative:
		return "bodyweight_relative"
	default:
		return "unknown"
	}
}

// DumbbellSuffix is the unit tag of the dumbbell-pair shorthand ("70s").
const DumbbellSuffix = "s"

// number accepts "225", "102.5", "102." and ".5".
const number = `(\d+(?:\.\d*)?|\.\d+)`

var (
	// bwAddendRe matches the "+<n>" part of "BW + 25" anywhere in the upper-cased text.
	bwAddendRe = regexp.MustCompile(`BW\s*\+\s*` + number)

	// dumbbellRe matches: 70s, 70 S, 22.5s
	dumbbellRe = regexp.MustCompile(`(?i)^` + number + `\s*s$`)

	// leadingRe matches: 225, 102.5 kg, 40lb (plates)
	leadingRe = regexp.MustCompile(`^` + number + `(.*)$`)
)

// Load is a decoded load field.
type Load struct {
	Kind Kind
	// Value is the number written for Numeric loads.
	Value float64
	// Unit is the trailing unit text of a Numeric load ("s", "kg", "").
	Unit string
	// Addend is the added weight of a BodyweightRelative load.
	Addend float64
}

// Value is a load resolved to a number plus the unit text it was written with.
type Value struct {
	Number float64 `json:"number"`
	Suffix string  `json:"suffix"`
}

// Decode classifies text into a Load without resolving bodyweight.
func Decode(text string) (Load, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return Load{}, ErrUnparseable
	}

	upper := strings.ToUpper(s)
	if strings.HasPrefix(upper, "BW") {
		var add float64
		if m := bwAddendRe.FindStringSubmatch(upper); m != nil {
			add, _ = strconv.ParseFloat(m[1], 64)
		}
		return Load{Kind: BodyweightRelative, Addend: add}, nil
	}

	if m := dumbbellRe.FindStringSubmatch(s); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return Load{}, ErrUnparseable
		}
		return Load{Kind: Numeric, Value: v, Unit: DumbbellSuffix}, nil
	}

	if m := leadingRe.FindStringSubmatch(s); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return Load{}, ErrUnparseable
		}
		return Load{Kind: Numeric, Value: v, Unit: strings.TrimSpace(m[2])}, nil
	}

	return Load{}, ErrUnparseable
}

// Resolve returns the numeric weight of l. A bodyweight-relative load needs a
// bodyweight; without one it fails with ErrNoBodyweight.
func (l Load) Resolve(bodyweight *float64) (Value, error) {
	switch l.Kind {
	case Numeric:
		return Value{Number: l.Value, Suffix: l.Unit}, nil
	case BodyweightRelative:
		if bodyweight == nil {
			return Value{}, ErrNoBodyweight
		}
		return Value{Number: *bodyweight + l.Addend}, nil
	default:
		return Value{}, ErrUnparseable
	}
}

// Parse decodes text and resolves it against bodyweight in one step. This is
// the strict form used for PR scoring.
func Parse(text string, bodyweight *float64) (Value, error) {
	l, err := Decode(text)
	if err != nil {
		return Value{}, err
	}
	return l.Resolve(bodyweight)
}

// ParseProgression is the loose parser behind load suggestions. Any leading
// number is accepted and whatever follows it becomes the suffix; "BW" loads
// are not special-cased and fail to parse.
func ParseProgression(text string) (Value, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return Value{}, false
	}
	if m := dumbbellRe.FindStringSubmatch(s); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return Value{}, false
		}
		return Value{Number: v, Suffix: DumbbellSuffix}, true
	}
	m := leadingRe.FindStringSubmatch(s)
	if m == nil {
		return Value{}, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil || math.IsNaN(v) {
		return Value{}, false
	}
	return Value{Number: v, Suffix: strings.TrimSpace(m[2])}, true
}

// Format renders num rounded to the nearest 0.5 with its suffix: "70s" for
// dumbbells, "100 kg" for other unit text, "230" for none.
func Format(num float64, suffix string) string {
	n := FormatNumber(RoundHalf(num))
	switch {
	case suffix == DumbbellSuffix:
		return n + DumbbellSuffix
	case suffix != "":
		return n + " " + suffix
	default:
		return n
	}
}

// BodyweightAddend returns the n of a "BW+n" anywhere in text, or 0 when
// there is none.
func BodyweightAddend(text string) float64 {
	m := bwAddendRe.FindStringSubmatch(strings.ToUpper(text))
	if m == nil {
		return 0
	}
	add, _ := strconv.ParseFloat(m[1], 64)
	return add
}

// FormatBodyweight renders a bodyweight-relative load with the given addend.
func FormatBodyweight(addend float64) string {
	return "BW+" + FormatNumber(addend)
}

// RoundHalf rounds to the nearest 0.5.
func RoundHalf(v float64) float64 {
	return math.Round(v*2) / 2
}

// FormatNumber prints v with the shortest exact representation ("230", "232.5").
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
