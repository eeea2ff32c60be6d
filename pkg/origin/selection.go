package origin

// Selection is a confirmed choice for one step, reduced to what the
// connectivity rules need.
type Selection struct {
	ID        string `json:"id"`
	Positions []int  `json:"positions,omitempty"`
}

// SelectionOf builds a Selection from a catalog node. Its positions are
// the node's [Node.ResolvedPositions], the slots its card is drawn in.
func SelectionOf(n Node) Selection {
	return Selection{ID: n.ID, Positions: n.ResolvedPositions()}
}

// SelectionReader is the read-only view of confirmed selections that the
// engine depends on. Implementations must return at most one selection per
// step.
type SelectionReader interface {
	Selected(step Step) (Selection, bool)
}

// Selections maps each step to its confirmed selection.
type Selections map[Step]Selection

// Selected implements [SelectionReader]. A nil map has no selections.
func (s Selections) Selected(step Step) (Selection, bool) {
	sel, ok := s[step]
	return sel, ok
}

// IDs returns the selected origin ID per step.
func (s Selections) IDs() map[Step]string {
	out := make(map[Step]string, len(s))
	for k, v := range s {
		out[k] = v.ID
	}
	return out
}

// Ensure Selections implements SelectionReader.
var _ SelectionReader = Selections(nil)
