// Package program holds the training program catalog: which workout
// templates exist and which (exercise, set-type) slots each one logs.
// The catalog is read once at startup and never mutated.
package program

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed program.yaml
var defaultProgram []byte

// FailureTag marks bodyweight movements taken to failure. Those are scored
// and progressed by reps rather than by load.
const FailureTag = "Pull-Ups"

// isolationRe matches exercises that progress in smaller load steps.
var isolationRe = regexp.MustCompile(`(?i)raise|curl|pushdown|extension|rear|face|abs|pec deck`)

// IsBodyweightFailure reports whether exercise is a bodyweight-to-failure movement.
func IsBodyweightFailure(exercise string) bool {
	return strings.Contains(exercise, FailureTag)
}

// IsIsolation reports whether exercise is a small isolation movement.
func IsIsolation(exercise string) bool {
	return isolationRe.MatchString(exercise)
}

// Exercise is one exercise slot in a workout template.
type Exercise struct {
	Name     string   `yaml:"name" json:"name"`
	SetTypes []string `yaml:"set_types" json:"setTypes"`
}

// Workout is a named workout template.
type Workout struct {
	Name      string     `yaml:"name" json:"name"`
	Exercises []Exercise `yaml:"exercises" json:"exercises"`
}

// Pair identifies an (exercise, set-type) slot.
type Pair struct {
	Exercise string `yaml:"exercise" json:"exercise"`
	SetType  string `yaml:"set_type" json:"setType"`
}

// Catalog is the immutable program table.
type Catalog struct {
	workouts  []Workout
	snapshot  []Pair
	byName    map[string]int
	exercises []string
}

type document struct {
	Workouts []Workout `yaml:"workouts"`
	Snapshot []Pair    `yaml:"snapshot"`
}

// Default returns the built-in program.
func Default() *Catalog {
	c, err := Parse(defaultProgram)
	if err != nil {
		panic(fmt.Sprintf("embedded program is invalid: %v", err))
	}
	return c
}

// Load reads a program document from path. An empty path yields Default().
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading program file: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing program file %s: %w", path, err)
	}
	return c, nil
}

// Parse builds a Catalog from a YAML program document.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding program: %w", err)
	}
	if len(doc.Workouts) == 0 {
		return nil, fmt.Errorf("program has no workouts")
	}

	c := &Catalog{
		workouts: doc.Workouts,
		snapshot: doc.Snapshot,
		byName:   make(map[string]int, len(doc.Workouts)),
	}
	seen := map[string]bool{}
	for i, w := range doc.Workouts {
		if w.Name == "" {
			return nil, fmt.Errorf("workout %d has no name", i+1)
		}
		if _, dup := c.byName[w.Name]; dup {
			return nil, fmt.Errorf("duplicate workout %q", w.Name)
		}
		if len(w.Exercises) == 0 {
			return nil, fmt.Errorf("workout %q has no exercises", w.Name)
		}
		for _, ex := range w.Exercises {
			if ex.Name == "" {
				return nil, fmt.Errorf("workout %q has an unnamed exercise", w.Name)
			}
			if len(ex.SetTypes) == 0 {
				return nil, fmt.Errorf("exercise %q in %q has no set types", ex.Name, w.Name)
			}
			if !seen[ex.Name] {
				seen[ex.Name] = true
				c.exercises = append(c.exercises, ex.Name)
			}
		}
		c.byName[w.Name] = i
	}
	sort.Strings(c.exercises)
	return c, nil
}

// WorkoutTypes returns the template names in document order.
func (c *Catalog) WorkoutTypes() []string {
	names := make([]string, len(c.workouts))
	for i, w := range c.workouts {
		names[i] = w.Name
	}
	return names
}

// Workouts returns a copy of every template.
func (c *Catalog) Workouts() []Workout {
	out := make([]Workout, len(c.workouts))
	for i, w := range c.workouts {
		out[i] = copyWorkout(w)
	}
	return out
}

// Workout returns the template with the given name.
func (c *Catalog) Workout(name string) (Workout, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Workout{}, false
	}
	return copyWorkout(c.workouts[i]), true
}

// HasWorkout reports whether name is a known workout type.
func (c *Catalog) HasWorkout(name string) bool {
	_, ok := c.byName[name]
	return ok
}

// Exercises returns the distinct exercise names across all templates, sorted.
// The list comes from the program, not from logged data.
func (c *Catalog) Exercises() []string {
	return append([]string(nil), c.exercises...)
}

// SetTypes returns the set-type labels of exercise as first listed in the
// program, or nil when the exercise is not in it.
func (c *Catalog) SetTypes(exercise string) []string {
	for _, w := range c.workouts {
		for _, ex := range w.Exercises {
			if ex.Name == exercise {
				return append([]string(nil), ex.SetTypes...)
			}
		}
	}
	return nil
}

// Snapshot returns the key (exercise, set-type) pairs for the stats snapshot.
func (c *Catalog) Snapshot() []Pair {
	return append([]Pair(nil), c.snapshot...)
}

func copyWorkout(w Workout) Workout {
	out := Workout{Name: w.Name, Exercises: make([]Exercise, len(w.Exercises))}
	for i, ex := range w.Exercises {
		out.Exercises[i] = Exercise{Name: ex.Name, SetTypes: append([]string(nil), ex.SetTypes...)}
	}
	return out
}
