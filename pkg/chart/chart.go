package chart

import "github.com/matzehuels/originchart/pkg/origin"

// Compute builds the full chart for a catalog and its current selections.
//
// Origins are grouped by step; origins with an empty or unknown step are
// left out of the chart. Rows are always built in canonical forward order,
// whatever the direction in opts. A nil sel behaves as no selections.
//
// Compute is a pure function of its arguments: it retains nothing between
// calls and never modifies origins or sel.
func Compute(origins []origin.Node, sel origin.SelectionReader, opts Options) Layout {
	groups := GroupByStep(origins)

	l := Layout{Steps: make([]StepLayout, 0, origin.StepCount)}
	for _, step := range origin.Steps() {
		sl := BuildStep(step, groups[step], sel, opts)
		l.Steps = append(l.Steps, sl)
		l.MaxColumns = max(l.MaxColumns, sl.MaxPosition+1)
	}
	l.Connections = BuildConnections(l.Steps, sel)
	return l
}

// GroupByStep partitions origins by their step, preserving input order
// within each group. Origins whose step is not one of the six known steps
// are omitted.
func GroupByStep(origins []origin.Node) map[origin.Step][]origin.Node {
	groups := make(map[origin.Step][]origin.Node, origin.StepCount)
	for _, n := range origins {
		if !n.Step.Valid() {
			continue
		}
		groups[n.Step] = append(groups[n.Step], n)
	}
	return groups
}

// ValidNextOptions filters candidates down to those that may follow
// current: their requirements must admit current.ID and one of their slots
// must be adjacent to current's slots. The result preserves input order.
func ValidNextOptions(current origin.Selection, candidates []origin.Node) []origin.Node {
	allowed := AllowedPositions(SelectionPositions(current))
	out := make([]origin.Node, 0, len(candidates))
	for _, n := range candidates {
		if !n.Requirements.Allows(current.ID) {
			continue
		}
		if IsPositionAllowed(Positions(n), allowed) {
			out = append(out, n)
		}
	}
	return out
}
