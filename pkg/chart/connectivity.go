package chart

import (
	"math/bits"

	"github.com/matzehuels/originchart/pkg/origin"
)

// PositionSet is a set of slots in [origin.MinPosition, origin.MaxPosition].
// The zero value is the empty set. Out-of-range slots are never stored.
type PositionSet uint16

// NewPositionSet returns the set of the valid slots in ps.
func NewPositionSet(ps ...int) PositionSet {
	var s PositionSet
	for _, p := range ps {
		s = s.Add(p)
	}
	return s
}

// Add returns s with p added. Invalid slots are ignored.
func (s PositionSet) Add(p int) PositionSet {
	if !origin.ValidPosition(p) {
		return s
	}
	return s | 1<<uint(p)
}

// Has reports whether p is in s.
func (s PositionSet) Has(p int) bool {
	return origin.ValidPosition(p) && s&(1<<uint(p)) != 0
}

// Len returns the number of slots in s.
func (s PositionSet) Len() int { return bits.OnesCount16(uint16(s)) }

// Slice returns the slots of s in ascending order.
func (s PositionSet) Slice() []int {
	out := make([]int, 0, s.Len())
	for p := origin.MinPosition; p <= origin.MaxPosition; p++ {
		if s.Has(p) {
			out = append(out, p)
		}
	}
	return out
}

// Intersect returns the slots present in both s and o.
func (s PositionSet) Intersect(o PositionSet) PositionSet { return s & o }

// Constraint is the set of slots reachable in a step. An open constraint
// places no restriction; it is what a step sees when no selection is
// authoritative for it.
type Constraint struct {
	open bool
	set  PositionSet
}

// Unconstrained allows every slot.
var Unconstrained = Constraint{open: true}

// IsOpen reports whether c allows every slot.
func (c Constraint) IsOpen() bool { return c.open }

// Positions returns the allowed slots. It is empty for an open constraint;
// check [Constraint.IsOpen] first.
func (c Constraint) Positions() PositionSet { return c.set }

// AllowedPositions expands a source slot set by the ±1 adjacency rule:
// every slot p contributes p-1, p and p+1, clamped to the slot range. An
// empty source yields [Unconstrained].
func AllowedPositions(source []int) Constraint {
	if len(source) == 0 {
		return Unconstrained
	}
	var set PositionSet
	for _, p := range source {
		if !origin.ValidPosition(p) {
			continue
		}
		set = set.Add(p - 1).Add(p).Add(p + 1)
	}
	return Constraint{set: set}
}

// IsPositionAllowed reports whether any of positions is allowed by c.
// A multi-slot node is reachable when at least one of its slots connects.
func IsPositionAllowed(positions []int, c Constraint) bool {
	if c.open {
		return true
	}
	for _, p := range positions {
		if c.set.Has(p) {
			return true
		}
	}
	return false
}

// ResolveLastSelection finds the selection that constrains the step at
// stepIndex. With [origin.Forward] it scans earlier steps from nearest to
// furthest; with [origin.Backward] it scans later steps. The step's own
// selection is never considered. The boolean is false when no selection
// is found.
//
// This is the only place where direction affects the computation.
func ResolveLastSelection(stepIndex int, sel origin.SelectionReader, dir origin.Direction) (origin.Selection, bool) {
	if sel == nil {
		return origin.Selection{}, false
	}
	delta := -1
	if dir == origin.Backward {
		delta = 1
	}
	for i := stepIndex + delta; i >= 0 && i < origin.StepCount; i += delta {
		step, _ := origin.StepAt(i)
		if s, ok := sel.Selected(step); ok {
			return s, true
		}
	}
	return origin.Selection{}, false
}
