package origin

import (
	"slices"
	"strings"
)

// Step identifies one of the six ordered stages of origin creation.
type Step string

// The creation steps in canonical order.
const (
	StepHomeWorld         Step = "homeWorld"
	StepBirthright        Step = "birthright"
	StepLureOfTheVoid     Step = "lureOfTheVoid"
	StepTrialsAndTravails Step = "trialsAndTravails"
	StepMotivation        Step = "motivation"
	StepCareer            Step = "career"
)

// StepCount is the number of creation steps.
const StepCount = 6

var stepOrder = [StepCount]Step{
	StepHomeWorld,
	StepBirthright,
	StepLureOfTheVoid,
	StepTrialsAndTravails,
	StepMotivation,
	StepCareer,
}

var defaultLabels = map[Step]string{
	StepHomeWorld:         "Home World",
	StepBirthright:        "Birthright",
	StepLureOfTheVoid:     "Lure of the Void",
	StepTrialsAndTravails: "Trials and Travails",
	StepMotivation:        "Motivation",
	StepCareer:            "Career",
}

// Steps returns the creation steps in canonical forward order.
// The returned slice is a copy and may be modified by the caller.
func Steps() []Step {
	return slices.Clone(stepOrder[:])
}

// StepAt returns the step at index i of the canonical order.
func StepAt(i int) (Step, bool) {
	if i < 0 || i >= StepCount {
		return "", false
	}
	return stepOrder[i], true
}

// Index returns the position of s in the canonical order, or -1 if s is
// not a known step.
func (s Step) Index() int {
	for i, k := range stepOrder {
		if k == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is one of the six known steps.
func (s Step) Valid() bool { return s.Index() >= 0 }

func (s Step) String() string { return string(s) }

// ParseStep resolves a step key. Matching ignores case and the separators
// "-", "_" and " ", so "home-world", "Home World" and "homeworld" all
// resolve to [StepHomeWorld].
func ParseStep(s string) (Step, bool) {
	want := normalizeKey(s)
	if want == "" {
		return "", false
	}
	for _, k := range stepOrder {
		if normalizeKey(string(k)) == want {
			return k, true
		}
	}
	return "", false
}

func normalizeKey(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '-', '_', ' ':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))
}

// LabelFunc resolves the display label for a step.
type LabelFunc func(Step) string

// DefaultLabel returns the English display label for s, or the raw key for
// unknown steps.
func DefaultLabel(s Step) string {
	if l, ok := defaultLabels[s]; ok {
		return l
	}
	return string(s)
}

// Direction selects which neighbouring selection is authoritative when a
// step is resolved out of sequence.
type Direction int

const (
	// Forward resolves a step against the nearest earlier selection.
	Forward Direction = iota
	// Backward resolves a step against the nearest later selection.
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// ParseDirection parses "forward" or "backward" (case-insensitive).
// The empty string parses as [Forward].
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "forward":
		return Forward, true
	case "backward":
		return Backward, true
	}
	return Forward, false
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown values decode
// as [Forward].
func (d *Direction) UnmarshalText(b []byte) error {
	*d, _ = ParseDirection(string(b))
	return nil
}
