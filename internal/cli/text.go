package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/originchart/pkg/chart"
	"github.com/matzehuels/originchart/pkg/origin"
)

// Card styles
var (
	cardSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	cardValidStyle    = lipgloss.NewStyle().Foreground(colorCyan)
	cardNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	cardDisabledStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// Chart Table
// =============================================================================

// renderChartText draws the layout as a table with one row per step and
// one column per slot.
func renderChartText(l chart.Layout) string {
	cols := max(l.MaxColumns, origin.MaxPosition+1)

	headers := make([]string, cols+1)
	headers[0] = "Step"
	for i := range cols {
		headers[i+1] = fmt.Sprint(i)
	}

	rows := make([][]string, 0, len(l.Steps))
	for _, s := range l.Steps {
		row := make([]string, cols+1)
		row[0] = s.Label
		for _, c := range s.Cards {
			col := c.Position + 1
			if row[col] != "" {
				row[col] += "\n"
			}
			row[col] += cardCell(c)
		}
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	var b strings.Builder
	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(legend())
	return b.String()
}

// cardCell renders one card with its state marker.
func cardCell(c chart.Card) string {
	name := c.ID
	if c.IsMultiPosition {
		name += "*"
	}
	switch {
	case c.IsSelected:
		return cardSelectedStyle.Render(iconSuccess + " " + name)
	case c.IsValidNext:
		return cardValidStyle.Render(iconArrow + " " + name)
	case c.IsDisabled:
		return cardDisabledStyle.Render("  " + name)
	default:
		return cardNormalStyle.Render("  " + name)
	}
}

func legend() string {
	return StyleDim.Render(fmt.Sprintf("%s selected  %s valid next  * spans several slots",
		cardSelectedStyle.Render(iconSuccess), cardValidStyle.Render(iconArrow)))
}

// =============================================================================
// Connections
// =============================================================================

// renderConnectionsText lists the active and valid connections.
func renderConnectionsText(l chart.Layout) string {
	var b strings.Builder
	for _, e := range l.Connections {
		if !e.IsActive && !e.IsValid {
			continue
		}
		marker := StyleDim.Render("·")
		if e.IsActive {
			marker = StyleSuccess.Render(iconSuccess)
		}
		fmt.Fprintf(&b, "%s %s %s %s\n", marker, e.FromID, StyleDim.Render(iconArrow), e.ToID)
	}
	return b.String()
}

// =============================================================================
// Options List
// =============================================================================

// renderOptionsText lists candidates as "slot  id  name".
func renderOptionsText(step origin.Step, nodes []origin.Node) string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render(origin.DefaultLabel(step)))
	b.WriteString("\n")
	if len(nodes) == 0 {
		b.WriteString(StyleDim.Render("  no valid options"))
		b.WriteString("\n")
		return b.String()
	}
	for _, n := range nodes {
		line := fmt.Sprintf("  %s  %-24s", StyleNumber.Render(fmt.Sprint(n.PrimaryPosition())), n.ID)
		if n.Meta.Name != "" {
			line += " " + StyleDim.Render(n.Meta.Name)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
