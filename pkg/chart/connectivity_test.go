package chart

import (
	"slices"
	"testing"

	"github.com/matzehuels/originchart/pkg/origin"
)

func TestAllowedPositions(t *testing.T) {
	tests := []struct {
		name   string
		source []int
		want   []int
	}{
		{"Single", []int{3}, []int{2, 3, 4}},
		{"Two", []int{1, 5}, []int{0, 1, 2, 4, 5, 6}},
		{"Overlapping", []int{3, 4}, []int{2, 3, 4, 5}},
		{"LowerEdge", []int{0}, []int{0, 1}},
		{"UpperEdge", []int{8}, []int{7, 8}},
		{"IgnoresInvalid", []int{-3, 11, 6}, []int{5, 6, 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := AllowedPositions(tt.source)
			if c.IsOpen() {
				t.Fatal("constraint should not be open")
			}
			if got := c.Positions().Slice(); !slices.Equal(got, tt.want) {
				t.Errorf("AllowedPositions(%v) = %v, want %v", tt.source, got, tt.want)
			}
		})
	}
}

func TestAllowedPositionsClamps(t *testing.T) {
	for p := origin.MinPosition; p <= origin.MaxPosition; p++ {
		for _, q := range AllowedPositions([]int{p}).Positions().Slice() {
			if !origin.ValidPosition(q) {
				t.Errorf("AllowedPositions({%d}) contains out-of-range %d", p, q)
			}
		}
	}
}

func TestAllowedPositionsNoSource(t *testing.T) {
	if !AllowedPositions(nil).IsOpen() {
		t.Error("nil source should be unconstrained")
	}
	if !AllowedPositions([]int{}).IsOpen() {
		t.Error("empty source should be unconstrained")
	}
}

func TestIsPositionAllowed(t *testing.T) {
	allowed := AllowedPositions([]int{3})
	tests := []struct {
		name      string
		positions []int
		c         Constraint
		want      bool
	}{
		{"Open", []int{8}, Unconstrained, true},
		{"Inside", []int{4}, allowed, true},
		{"Outside", []int{6}, allowed, false},
		{"AnySlotConnects", []int{0, 2, 8}, allowed, true},
		{"NoSlotConnects", []int{0, 6, 8}, allowed, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPositionAllowed(tt.positions, tt.c); got != tt.want {
				t.Errorf("IsPositionAllowed(%v) = %v, want %v", tt.positions, got, tt.want)
			}
		})
	}
}

func TestPositionSet(t *testing.T) {
	s := NewPositionSet(8, 0, 4, 4, 9, -1)
	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
	if got := s.Slice(); !slices.Equal(got, []int{0, 4, 8}) {
		t.Errorf("Slice() = %v, want [0 4 8]", got)
	}
	if s.Has(9) || s.Has(-1) {
		t.Error("set should never hold out-of-range slots")
	}
	if got := s.Intersect(NewPositionSet(4, 5)).Slice(); !slices.Equal(got, []int{4}) {
		t.Errorf("Intersect() = %v, want [4]", got)
	}
}

func TestResolveLastSelection(t *testing.T) {
	sel := origin.Selections{
		origin.StepHomeWorld:         {ID: "s1", Positions: []int{3}},
		origin.StepTrialsAndTravails: {ID: "s4", Positions: []int{6}},
	}
	tests := []struct {
		name   string
		index  int
		dir    origin.Direction
		wantID string
		wantOK bool
	}{
		{"ForwardFromFirst", 0, origin.Forward, "", false},
		{"ForwardNearestPrior", 1, origin.Forward, "s1", true},
		{"ForwardSkipsEmpty", 2, origin.Forward, "s1", true},
		{"ForwardIgnoresOwnStep", 3, origin.Forward, "s1", true},
		{"ForwardAfterS4", 5, origin.Forward, "s4", true},
		{"BackwardNearestLater", 2, origin.Backward, "s4", true},
		{"BackwardSkipsEmpty", 1, origin.Backward, "s4", true},
		{"BackwardFromLast", 5, origin.Backward, "", false},
		{"BackwardIgnoresOwnStep", 3, origin.Backward, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveLastSelection(tt.index, sel, tt.dir)
			if ok != tt.wantOK || got.ID != tt.wantID {
				t.Errorf("ResolveLastSelection(%d, %v) = (%q, %v), want (%q, %v)",
					tt.index, tt.dir, got.ID, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}

func TestResolveLastSelectionNilReader(t *testing.T) {
	if _, ok := ResolveLastSelection(3, nil, origin.Forward); ok {
		t.Error("nil reader should have no selection")
	}
}

func TestDirectionSensitivity(t *testing.T) {
	sel := origin.Selections{
		origin.StepHomeWorld:         {ID: "s1", Positions: []int{3}},
		origin.StepTrialsAndTravails: {ID: "s4", Positions: []int{6}},
	}

	last, ok := ResolveLastSelection(origin.StepBirthright.Index(), sel, origin.Forward)
	if !ok {
		t.Fatal("forward: expected a last selection for S2")
	}
	if got := AllowedPositions(SelectionPositions(last)).Positions().Slice(); !slices.Equal(got, []int{2, 3, 4}) {
		t.Errorf("forward S2 allowed = %v, want [2 3 4]", got)
	}

	last, ok = ResolveLastSelection(origin.StepLureOfTheVoid.Index(), sel, origin.Backward)
	if !ok {
		t.Fatal("backward: expected a last selection for S3")
	}
	if got := AllowedPositions(SelectionPositions(last)).Positions().Slice(); !slices.Equal(got, []int{5, 6, 7}) {
		t.Errorf("backward S3 allowed = %v, want [5 6 7]", got)
	}
}
