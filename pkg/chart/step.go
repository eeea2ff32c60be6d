package chart

import (
	"cmp"
	"slices"

	"github.com/matzehuels/originchart/pkg/origin"
)

// BuildStep computes the row for step from its candidate nodes.
//
// Candidates are deduplicated by ID (first occurrence wins) and ordered by
// primary position; nodes with equal primary positions keep their input
// order. The nodes slice is not modified. An unknown step yields a row with
// StepIndex -1 and no cards.
func BuildStep(step origin.Step, nodes []origin.Node, sel origin.SelectionReader, opts Options) StepLayout {
	idx := step.Index()
	sl := StepLayout{
		Step:      step,
		StepIndex: idx,
		Label:     opts.label(step),
		Cards:     []Card{},
	}
	if idx < 0 {
		return sl
	}

	var current origin.Selection
	if sel != nil {
		current, sl.HasSelection = sel.Selected(step)
	}

	var lastPtr *origin.Selection
	allowed := Unconstrained
	if last, ok := ResolveLastSelection(idx, sel, opts.Direction); ok {
		lastPtr = &last
		allowed = AllowedPositions(SelectionPositions(last))
	}

	for _, n := range sortedCandidates(nodes) {
		primary := n.PrimaryPosition()
		all := Positions(n)

		c := Card{
			ID:              n.ID,
			Step:            step,
			Position:        primary,
			GridColumn:      primary + 1,
			GridRow:         idx + 1,
			IsSelected:      sl.HasSelection && current.ID == n.ID,
			IsMultiPosition: len(all) > 1,
			AllPositions:    all,
			PathPositions:   ResolvePathPositions(n, lastPtr),
			Requirements:    n.Requirements,
			Meta:            n.Meta,
		}
		c.IsSelectable = isSelectable(n, all, lastPtr, allowed, opts.Guided)
		c.IsDisabled = opts.Guided && !c.IsSelectable
		c.IsValidNext = c.IsSelectable && !c.IsSelected

		sl.MaxPosition = max(sl.MaxPosition, primary)
		sl.Cards = append(sl.Cards, c)
	}
	return sl
}

func isSelectable(n origin.Node, positions []int, last *origin.Selection, allowed Constraint, guided bool) bool {
	if !guided || last == nil {
		return true
	}
	if !n.Requirements.Allows(last.ID) {
		return false
	}
	return IsPositionAllowed(positions, allowed)
}

func sortedCandidates(nodes []origin.Node) []origin.Node {
	seen := make(map[string]struct{}, len(nodes))
	out := make([]origin.Node, 0, len(nodes))
	for _, n := range nodes {
		if _, dup := seen[n.ID]; dup {
			continue
		}
		seen[n.ID] = struct{}{}
		out = append(out, n)
	}
	slices.SortStableFunc(out, func(a, b origin.Node) int {
		return cmp.Compare(a.PrimaryPosition(), b.PrimaryPosition())
	})
	return out
}
