package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/originchart/pkg/catalog"
	"github.com/matzehuels/originchart/pkg/chart"
	"github.com/matzehuels/originchart/pkg/origin"
)

// exploreCommand creates the explore command, an interactive walk through
// the steps of a catalog.
func (c *CLI) exploreCommand() *cobra.Command {
	var flags chartFlags

	cmd := &cobra.Command{
		Use:   "explore [catalog]",
		Short: "Pick origins step by step in an interactive chart",
		Long: `Pick origins step by step in an interactive chart.

Cards that may be picked next are highlighted; in guided mode the others
are disabled. On exit the picks are printed as step=id pairs that can be
passed back to 'chart --pick'.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			path, err := catalogArg(args, cfg)
			if err != nil {
				return err
			}
			opts, err := flags.options(cmd, cfg, path)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context(), cfg, true)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts.Logger = c.Logger
			cat, err := runner.LoadCatalog(cmd.Context(), opts)
			if err != nil {
				return err
			}
			sel, err := runner.ResolveSelections(cat, opts)
			if err != nil {
				return err
			}

			m := newExploreModel(cat, opts.ChartOptions(), sel)
			final, err := tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return fmt.Errorf("explore: %w", err)
			}
			if fm, ok := final.(exploreModel); ok {
				printPicks(cmd.OutOrStdout(), fm.sel)
			}
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}

// printPicks prints selections as step=id lines in step order.
func printPicks(w io.Writer, sel origin.Selections) {
	for _, step := range origin.Steps() {
		if s, ok := sel[step]; ok {
			fmt.Fprintf(w, "%s=%s\n", step, s.ID)
		}
	}
}

// =============================================================================
// exploreModel - Interactive chart
// =============================================================================

var (
	listDimStyle       = lipgloss.NewStyle().Foreground(colorDim)
	exploreRowStyle    = lipgloss.NewStyle().Foreground(colorGray).Width(22)
	exploreActiveRow   = lipgloss.NewStyle().Foreground(colorCyan).Bold(true).Width(22)
	exploreCursorStyle = lipgloss.NewStyle().Reverse(true)
)

// exploreModel is the bubbletea model of the explore command. The chart is
// recomputed from scratch after every pick.
type exploreModel struct {
	cat    *catalog.Catalog
	opts   chart.Options
	sel    origin.Selections
	layout chart.Layout

	row     int // step index under the cursor
	col     int // card index within the row
	message string
}

func newExploreModel(cat *catalog.Catalog, opts chart.Options, sel origin.Selections) exploreModel {
	if sel == nil {
		sel = origin.Selections{}
	}
	m := exploreModel{cat: cat, opts: opts, sel: sel}
	m.recompute()
	return m
}

func (m *exploreModel) recompute() {
	m.layout = chart.Compute(m.cat.Nodes, m.sel, m.opts)
	m.clamp()
}

func (m *exploreModel) clamp() {
	m.row = min(max(m.row, 0), len(m.layout.Steps)-1)
	cards := m.layout.Steps[m.row].Cards
	m.col = min(max(m.col, 0), max(len(cards)-1, 0))
}

// current returns the card under the cursor.
func (m exploreModel) current() (chart.Card, bool) {
	cards := m.layout.Steps[m.row].Cards
	if m.col >= len(cards) {
		return chart.Card{}, false
	}
	return cards[m.col], true
}

func (m exploreModel) Init() tea.Cmd {
	return nil
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.message = ""

	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		m.row--
	case "down", "j":
		m.row++
	case "left", "h":
		m.col--
	case "right", "l":
		m.col++
	case "enter", " ":
		m.toggle()
	case "backspace", "x":
		step := m.layout.Steps[m.row].Step
		delete(m.sel, step)
		m.recompute()
	case "g":
		m.opts.Guided = !m.opts.Guided
		m.recompute()
	case "r":
		m.sel = origin.Selections{}
		m.recompute()
	}
	m.clamp()
	return m, nil
}

// toggle picks the card under the cursor, or clears it if already picked.
func (m *exploreModel) toggle() {
	card, ok := m.current()
	if !ok {
		return
	}
	switch {
	case card.IsSelected:
		delete(m.sel, card.Step)
	case !card.IsSelectable:
		m.message = card.ID + " cannot follow the current picks"
		return
	default:
		n, ok := m.cat.Node(card.ID)
		if !ok {
			return
		}
		m.sel[card.Step] = origin.SelectionOf(n)
		if m.row < len(m.layout.Steps)-1 {
			m.row++
			m.col = 0
		}
	}
	m.recompute()
	m.focusValid()
}

// focusValid moves the cursor to the first valid next card of its row.
func (m *exploreModel) focusValid() {
	for i, c := range m.layout.Steps[m.row].Cards {
		if c.IsValidNext {
			m.col = i
			return
		}
	}
}

func (m exploreModel) View() string {
	var b strings.Builder

	mode := "guided"
	if !m.opts.Guided {
		mode = "free"
	}
	b.WriteString(StyleTitle.Render("Origin Chart"))
	b.WriteString(" " + StyleDim.Render("("+mode+")"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ step  ←/→ card  ⏎ pick  x clear  g mode  r reset  q quit"))
	b.WriteString("\n\n")

	for i, s := range m.layout.Steps {
		label := exploreRowStyle
		if i == m.row {
			label = exploreActiveRow
		}
		b.WriteString(label.Render(s.Label))

		cells := make([]string, 0, len(s.Cards))
		for j, c := range s.Cards {
			cell := cardCell(c)
			if i == m.row && j == m.col {
				cell = exploreCursorStyle.Render(cell)
			}
			cells = append(cells, cell)
		}
		if len(cells) == 0 {
			cells = append(cells, listDimStyle.Render("no origins"))
		}
		b.WriteString(strings.Join(cells, "  "))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if card, ok := m.current(); ok {
		b.WriteString(cardDetail(card))
		b.WriteString("\n")
	}
	if m.message != "" {
		b.WriteString(StyleWarning.Render(m.message))
		b.WriteString("\n")
	}
	return b.String()
}

// cardDetail summarises the card under the cursor.
func cardDetail(c chart.Card) string {
	parts := []string{fmt.Sprintf("slot %d", c.Position)}
	if c.IsMultiPosition {
		slots := make([]string, len(c.AllPositions))
		for i, p := range c.AllPositions {
			slots[i] = fmt.Sprint(p)
		}
		parts = append(parts, "slots "+strings.Join(slots, ","))
	}
	if c.Meta.Name != "" {
		parts = append([]string{c.Meta.Name}, parts...)
	}
	if c.Meta.XPCost > 0 {
		parts = append(parts, fmt.Sprintf("%d xp", c.Meta.XPCost))
	}
	if reqs := requirementSummary(c.Requirements); reqs != "" {
		parts = append(parts, reqs)
	}
	return StyleDim.Render(c.ID + ": " + strings.Join(parts, " · "))
}

func requirementSummary(r origin.Requirements) string {
	var parts []string
	if len(r.PreviousSteps) > 0 {
		prev := slices.Sorted(slices.Values(r.PreviousSteps))
		parts = append(parts, "after "+strings.Join(prev, "|"))
	}
	if len(r.ExcludedSteps) > 0 {
		parts = append(parts, "not after "+strings.Join(r.ExcludedSteps, "|"))
	}
	return strings.Join(parts, ", ")
}
