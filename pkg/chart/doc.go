// Package chart computes the origin path chart: which origins are
// selectable, where each sits in the grid, and how the rows connect.
//
// # Overview
//
// The chart is a layered layout with one row per creation step and one
// column per slot (0–8). A selection in one step constrains the adjacent
// step to origins whose slots lie within one column of the selection's
// slots. The engine is organized in four groups, leaves first:
//
//  1. Position resolution: [Positions], [ResolvePathPositions]
//  2. Connectivity: [AllowedPositions], [IsPositionAllowed], [ResolveLastSelection]
//  3. Step rows: [BuildStep]
//  4. Connectors: [BuildConnections], [EdgePath]
//
// [Compute] runs them in order and returns a [Layout].
//
// # Usage
//
//	layout := chart.Compute(nodes, origin.Selections{
//	    origin.StepHomeWorld: origin.SelectionOf(hiveWorld),
//	}, chart.Options{Guided: true})
//
//	for _, row := range layout.Steps {
//	    for _, c := range row.Cards {
//	        fmt.Println(row.Label, c.ID, c.IsSelectable)
//	    }
//	}
//
// # Fail-open Behaviour
//
// No function in this package returns an error or panics on malformed
// data. Missing positions default to the centre slot, missing requirements
// impose nothing, and origins without a recognized step are left out of
// the chart. Catalog problems are reported at load time by
// [github.com/matzehuels/originchart/pkg/catalog.Validate].
//
// When a multi-slot origin has no slot adjacent to the authoritative
// selection, [ResolvePathPositions] returns its full slot set instead of an
// empty one. This leniency is deliberate and kept as is.
//
// # Direction
//
// Rows are always built in forward order. [origin.Direction] only decides
// whether a row is constrained by the nearest earlier selection (forward)
// or the nearest later one (backward), which supports editing an early
// step after later ones are chosen.
//
// # Concurrency
//
// All functions are pure and safe for concurrent use. Inputs are treated
// as read-only snapshots.
package chart
