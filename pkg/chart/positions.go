package chart

import "github.com/matzehuels/originchart/pkg/origin"

// Positions returns the slot set of n in ascending order. Out-of-range and
// duplicate entries are dropped. A node with no usable slots falls back to
// its primary Position, then to the centre slot, so the result is never
// empty.
func Positions(n origin.Node) []int {
	return n.ResolvedPositions()
}

// SelectionPositions returns the normalized slot set of a selection. A
// selection built with [origin.SelectionOf] already holds its node's
// resolved slots; hand-built ones are filtered the same way.
func SelectionPositions(s origin.Selection) []int {
	return origin.Node{Positions: s.Positions}.ResolvedPositions()
}

// ResolvePathPositions returns the slots of n that connect to last. With no
// last selection it returns [Positions] unchanged.
//
// When none of the node's slots are adjacent to last, the node's full slot
// set is returned rather than an empty one: a multi-slot node is never
// forced into an empty slot set. Selectability is decided separately by
// [IsPositionAllowed].
func ResolvePathPositions(n origin.Node, last *origin.Selection) []int {
	own := Positions(n)
	if last == nil {
		return own
	}
	allowed := AllowedPositions(SelectionPositions(*last))
	if allowed.IsOpen() {
		return own
	}
	hit := NewPositionSet(own...).Intersect(allowed.Positions())
	if hit.Len() == 0 {
		return own
	}
	return hit.Slice()
}
