package origin

import (
	"encoding/json"
	"slices"
	"testing"
)

func TestStepOrder(t *testing.T) {
	steps := Steps()
	if len(steps) != StepCount {
		t.Fatalf("len(Steps()) = %d, want %d", len(steps), StepCount)
	}
	for i, s := range steps {
		if s.Index() != i {
			t.Errorf("%s.Index() = %d, want %d", s, s.Index(), i)
		}
		if got, ok := StepAt(i); !ok || got != s {
			t.Errorf("StepAt(%d) = %q, %v", i, got, ok)
		}
	}
	if _, ok := StepAt(StepCount); ok {
		t.Error("StepAt past the last step should fail")
	}
	if _, ok := StepAt(-1); ok {
		t.Error("StepAt(-1) should fail")
	}

	steps[0] = "mutated"
	if Steps()[0] != StepHomeWorld {
		t.Error("Steps() must return a copy")
	}
}

func TestParseStep(t *testing.T) {
	tests := []struct {
		in   string
		want Step
		ok   bool
	}{
		{"homeWorld", StepHomeWorld, true},
		{"home-world", StepHomeWorld, true},
		{"Home World", StepHomeWorld, true},
		{"LURE_OF_THE_VOID", StepLureOfTheVoid, true},
		{" career ", StepCareer, true},
		{"", "", false},
		{"background", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseStep(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseStep(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestStepValid(t *testing.T) {
	if !StepMotivation.Valid() {
		t.Error("motivation should be valid")
	}
	if Step("").Valid() || Step("Career").Valid() {
		t.Error("empty and non-canonical keys are not valid steps")
	}
}

func TestDefaultLabel(t *testing.T) {
	if got := DefaultLabel(StepTrialsAndTravails); got != "Trials and Travails" {
		t.Errorf("DefaultLabel = %q", got)
	}
	if got := DefaultLabel("custom"); got != "custom" {
		t.Errorf("unknown step label = %q, want raw key", got)
	}
}

func TestDirection(t *testing.T) {
	tests := []struct {
		in   string
		want Direction
		ok   bool
	}{
		{"", Forward, true},
		{"forward", Forward, true},
		{"BACKWARD", Backward, true},
		{"sideways", Forward, false},
	}
	for _, tt := range tests {
		got, ok := ParseDirection(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseDirection(%q) = %v, %v", tt.in, got, ok)
		}
	}

	data, err := json.Marshal(struct{ D Direction }{Backward})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"D":"backward"}` {
		t.Errorf("marshal = %s", data)
	}
	var back struct{ D Direction }
	if err := json.Unmarshal(data, &back); err != nil || back.D != Backward {
		t.Errorf("unmarshal = %v, %v", back.D, err)
	}
}

func TestPrimaryPosition(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want int
	}{
		{"explicit", Node{Position: IntPtr(2)}, 2},
		{"explicit wins over list", Node{Position: IntPtr(7), Positions: []int{1, 3}}, 7},
		{"lowest of list", Node{Positions: []int{5, 3, 6}}, 3},
		{"invalid explicit falls back to list", Node{Position: IntPtr(12), Positions: []int{6}}, 6},
		{"invalid entries skipped", Node{Positions: []int{-1, 9, 8}}, 8},
		{"nothing usable", Node{Positions: []int{42}}, DefaultPosition},
		{"empty", Node{}, DefaultPosition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.PrimaryPosition(); got != tt.want {
				t.Errorf("PrimaryPosition() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRequirementsAllows(t *testing.T) {
	tests := []struct {
		name string
		req  Requirements
		last string
		want bool
	}{
		{"no constraint", Requirements{}, "anything", true},
		{"previous listed", Requirements{PreviousSteps: []string{"a", "b"}}, "b", true},
		{"previous missing", Requirements{PreviousSteps: []string{"a"}}, "c", false},
		{"excluded", Requirements{ExcludedSteps: []string{"c"}}, "c", false},
		{"both, allowed", Requirements{PreviousSteps: []string{"a"}, ExcludedSteps: []string{"c"}}, "a", true},
		{"both, listed and excluded", Requirements{PreviousSteps: []string{"a"}, ExcludedSteps: []string{"a"}}, "a", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.Allows(tt.last); got != tt.want {
				t.Errorf("Allows(%q) = %v, want %v", tt.last, got, tt.want)
			}
		})
	}
	if !(Requirements{}).IsZero() {
		t.Error("zero requirements should report IsZero")
	}
}

func TestSelectionOf(t *testing.T) {
	n := Node{ID: "void-born", Positions: []int{3, 4}}
	s := SelectionOf(n)
	if s.ID != "void-born" || !slices.Equal(s.Positions, []int{3, 4}) {
		t.Errorf("SelectionOf = %+v", s)
	}
	s.Positions[0] = 0
	if n.Positions[0] != 3 {
		t.Error("SelectionOf must copy positions")
	}

	if got := SelectionOf(Node{ID: "x", Position: IntPtr(6)}); !slices.Equal(got.Positions, []int{6}) {
		t.Errorf("single position = %v, want [6]", got.Positions)
	}
	if got := SelectionOf(Node{ID: "x"}); !slices.Equal(got.Positions, []int{DefaultPosition}) {
		t.Errorf("no position = %v, want the centre slot", got.Positions)
	}
	// Out-of-range slots resolve the same way as the node's card.
	bad := Node{ID: "x", Position: IntPtr(2), Positions: []int{9}}
	if got := SelectionOf(bad); !slices.Equal(got.Positions, []int{2}) {
		t.Errorf("malformed positions = %v, want [2]", got.Positions)
	}

	var sel Selections
	if _, ok := sel.Selected(StepCareer); ok {
		t.Error("nil selections should have nothing selected")
	}
	sel = Selections{StepCareer: s}
	if ids := sel.IDs(); ids[StepCareer] != "void-born" {
		t.Errorf("IDs() = %v", ids)
	}
}
