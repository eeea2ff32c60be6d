package origin

import "slices"

// Slot bounds. Every resolved position lies in [MinPosition, MaxPosition].
const (
	MinPosition     = 0
	MaxPosition     = 8
	DefaultPosition = 4 // centre slot, used when a node carries no usable position
)

// ValidPosition reports whether p lies within the slot range.
func ValidPosition(p int) bool { return p >= MinPosition && p <= MaxPosition }

// Node is a selectable catalog entry.
//
// Nodes are owned by the catalog; the engine never modifies them. Missing
// fields are defaulted at read time: a node without usable positions sits
// in the centre slot, and zero [Requirements] impose no constraint.
type Node struct {
	ID           string       `json:"id"`
	Step         Step         `json:"step,omitempty"`
	Position     *int         `json:"position,omitempty"`  // primary slot, optional
	Positions    []int        `json:"positions,omitempty"` // full slot set, optional
	Requirements Requirements `json:"requirements,omitzero"`
	Meta         Metadata     `json:"meta,omitzero"`
}

// PrimaryPosition returns the slot used for sorting and grid placement: the
// explicit Position when valid, else the lowest valid entry of Positions,
// else [DefaultPosition].
func (n Node) PrimaryPosition() int {
	if n.Position != nil && ValidPosition(*n.Position) {
		return *n.Position
	}
	for _, p := range slices.Sorted(slices.Values(n.Positions)) {
		if ValidPosition(p) {
			return p
		}
	}
	return DefaultPosition
}

// ResolvedPositions returns the node's slot set in ascending order with
// out-of-range and duplicate entries dropped. A node with no usable slots
// falls back to its primary Position, then to [DefaultPosition], so the
// result is never empty.
func (n Node) ResolvedPositions() []int {
	var out []int
	for _, p := range slices.Sorted(slices.Values(n.Positions)) {
		if ValidPosition(p) && !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	if len(out) > 0 {
		return out
	}
	if n.Position != nil && ValidPosition(*n.Position) {
		return []int{*n.Position}
	}
	return []int{DefaultPosition}
}

// Requirements are explicit predecessor constraints on a node. Both lists
// hold origin IDs and default to empty.
type Requirements struct {
	PreviousSteps []string `json:"previousSteps,omitempty"`
	ExcludedSteps []string `json:"excludedSteps,omitempty"`
}

// IsZero reports whether r imposes no constraint.
func (r Requirements) IsZero() bool {
	return len(r.PreviousSteps) == 0 && len(r.ExcludedSteps) == 0
}

// Allows reports whether a node with these requirements may follow the
// origin lastID. A non-empty PreviousSteps list must contain lastID, and
// ExcludedSteps must not.
func (r Requirements) Allows(lastID string) bool {
	if len(r.PreviousSteps) > 0 && !slices.Contains(r.PreviousSteps, lastID) {
		return false
	}
	return !slices.Contains(r.ExcludedSteps, lastID)
}

// Metadata is display and cost data passed through to the layout untouched.
type Metadata struct {
	Name       string         `json:"name,omitempty"`
	Image      string         `json:"image,omitempty"`
	XPCost     int            `json:"xpCost,omitempty"`
	IsAdvanced bool           `json:"isAdvanced,omitempty"`
	HasChoices bool           `json:"hasChoices,omitempty"`
	Extra      map[string]any `json:"extra,omitempty"`
}

// IntPtr returns a pointer to p. It is a convenience for building nodes
// with an explicit primary position.
func IntPtr(p int) *int { return &p }
