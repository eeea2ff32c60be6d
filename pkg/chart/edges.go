package chart

import (
	"strconv"

	"github.com/matzehuels/originchart/pkg/origin"
)

// Cell geometry used for connector paths.
const (
	CellWidth  = 150.0
	CellHeight = 200.0
	GapX       = 20.0
	GapY       = 40.0
)

// BuildConnections emits the edges between every pair of consecutive rows.
//
// From a row with a selection only the selected card emits edges, and those
// edges are active. From a row without a selection every card emits edges,
// showing the reachable fan-out before a choice is made. A target is linked
// when one of its slots is adjacent to the source's slots.
func BuildConnections(steps []StepLayout, sel origin.SelectionReader) []Edge {
	edges := []Edge{}
	for i := 0; i+1 < len(steps); i++ {
		from, to := steps[i], steps[i+1]

		var current origin.Selection
		if sel != nil && from.HasSelection {
			current, _ = sel.Selected(from.Step)
		}

		for _, c := range from.Cards {
			if from.HasSelection && !c.IsSelected {
				continue
			}
			source := c.AllPositions
			if c.IsSelected {
				source = SelectionPositions(current)
			}
			allowed := AllowedPositions(source)

			for _, t := range to.Cards {
				if !IsPositionAllowed(t.AllPositions, allowed) {
					continue
				}
				edges = append(edges, Edge{
					ID:           c.ID + "->" + t.ID,
					FromStep:     from.Step,
					ToStep:       to.Step,
					FromPosition: c.Position,
					ToPosition:   t.Position,
					FromID:       c.ID,
					ToID:         t.ID,
					IsActive:     c.IsSelected,
					IsValid:      c.IsSelected && t.IsSelectable,
					PathData:     EdgePath(c.Position, from.StepIndex, t.Position, to.StepIndex),
				})
			}
		}
	}
	return edges
}

// EdgePath returns an SVG path from the bottom centre of the source cell to
// the top centre of the target cell, as a quadratic curve whose control
// point is the segment midpoint. Columns are slot numbers and rows are step
// indices.
func EdgePath(fromCol, fromRow, toCol, toRow int) string {
	x1 := float64(fromCol)*(CellWidth+GapX) + CellWidth/2
	y1 := float64(fromRow)*(CellHeight+GapY) + CellHeight
	x2 := float64(toCol)*(CellWidth+GapX) + CellWidth/2
	y2 := float64(toRow) * (CellHeight + GapY)
	cx, cy := (x1+x2)/2, (y1+y2)/2

	b := make([]byte, 0, 48)
	b = append(b, "M "...)
	b = appendCoord(b, x1, y1)
	b = append(b, " Q "...)
	b = appendCoord(b, cx, cy)
	b = append(b, ' ')
	b = appendCoord(b, x2, y2)
	return string(b)
}

func appendCoord(b []byte, x, y float64) []byte {
	b = strconv.AppendFloat(b, x, 'f', -1, 64)
	b = append(b, ' ')
	return strconv.AppendFloat(b, y, 'f', -1, 64)
}
