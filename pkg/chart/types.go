package chart

import "github.com/matzehuels/originchart/pkg/origin"

// =============================================================================
// Layout - Chart View Data
// =============================================================================

// Layout is the full chart: one row per step in canonical order plus the
// connectors between consecutive rows.
type Layout struct {
	Steps       []StepLayout `json:"steps"`
	Connections []Edge       `json:"connections"`
	MaxColumns  int          `json:"maxColumns"` // widest row, in slots
}

// StepLayout is the view data for one step row.
type StepLayout struct {
	Step         origin.Step `json:"stepKey"`
	StepIndex    int         `json:"stepIndex"`
	Label        string      `json:"label"`
	Cards        []Card      `json:"cards"`
	MaxPosition  int         `json:"maxPosition"`
	HasSelection bool        `json:"hasSelection"`
}

// Card is the view data for one origin within a step row.
type Card struct {
	ID         string      `json:"id"`
	Step       origin.Step `json:"step"`
	Position   int         `json:"position"` // primary slot
	GridColumn int         `json:"gridColumn"`
	GridRow    int         `json:"gridRow"`

	IsSelected      bool `json:"isSelected"`
	IsSelectable    bool `json:"isSelectable"`
	IsValidNext     bool `json:"isValidNext"`
	IsDisabled      bool `json:"isDisabled"`
	IsMultiPosition bool `json:"isMultiPosition"`

	// AllPositions is the node's full slot set; PathPositions is the subset
	// that connects to the authoritative neighbouring selection.
	AllPositions  []int `json:"allPositions"`
	PathPositions []int `json:"pathPositions"`

	Requirements origin.Requirements `json:"requirements,omitzero"`
	Meta         origin.Metadata     `json:"meta,omitzero"`
}

// =============================================================================
// Edge - Connector Between Steps
// =============================================================================

// Edge links a card in one step to a card in the following step.
//
// IsActive marks edges leaving the confirmed selection; edges drawn from an
// unselected step are speculative fan-out. IsValid additionally requires
// the target to be selectable.
type Edge struct {
	ID           string      `json:"id"`
	FromStep     origin.Step `json:"fromStep"`
	ToStep       origin.Step `json:"toStep"`
	FromPosition int         `json:"fromPosition"`
	ToPosition   int         `json:"toPosition"`
	FromID       string      `json:"fromId"`
	ToID         string      `json:"toId"`
	IsActive     bool        `json:"isActive"`
	IsValid      bool        `json:"isValid"`
	PathData     string      `json:"pathData"`
}

// =============================================================================
// Options
// =============================================================================

// Options controls selectability gating.
type Options struct {
	// Guided gates selectability by adjacency and requirements. When false
	// every card is selectable.
	Guided bool
	// Direction chooses which neighbouring selection constrains a step.
	Direction origin.Direction
	// Labels resolves step labels. Nil uses [origin.DefaultLabel].
	Labels origin.LabelFunc
}

func (o Options) label(s origin.Step) string {
	if o.Labels != nil {
		return o.Labels(s)
	}
	return origin.DefaultLabel(s)
}
