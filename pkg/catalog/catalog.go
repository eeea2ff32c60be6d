package catalog

import (
	"slices"

	"github.com/matzehuels/originchart/pkg/origin"
)

// Catalog is a loaded set of origins with its validation report.
type Catalog struct {
	Source string        // where the catalog came from, for messages
	Nodes  []origin.Node // records in source order
	Report Report
	index  map[string]int
}

// New builds a catalog from nodes and validates it. The first node wins
// when IDs repeat.
func New(source string, nodes []origin.Node) *Catalog {
	return newCatalog(source, nodes, nil)
}

// newCatalog is New with issues found while decoding prepended to the
// validation report.
func newCatalog(source string, nodes []origin.Node, decodeIssues []Issue) *Catalog {
	c := &Catalog{
		Source: source,
		Nodes:  nodes,
		Report: Validate(nodes),
		index:  make(map[string]int, len(nodes)),
	}
	if len(decodeIssues) > 0 {
		c.Report.Issues = append(slices.Clone(decodeIssues), c.Report.Issues...)
	}
	for i, n := range nodes {
		if _, dup := c.index[n.ID]; !dup && n.ID != "" {
			c.index[n.ID] = i
		}
	}
	return c
}

// Node returns the origin with the given ID.
func (c *Catalog) Node(id string) (origin.Node, bool) {
	i, ok := c.index[id]
	if !ok {
		return origin.Node{}, false
	}
	return c.Nodes[i], true
}

// InStep returns the origins belonging to step, in source order.
func (c *Catalog) InStep(step origin.Step) []origin.Node {
	var out []origin.Node
	for _, n := range c.Nodes {
		if n.Step == step {
			out = append(out, n)
		}
	}
	return out
}

// Len returns the number of records, including ones the chart will drop.
func (c *Catalog) Len() int { return len(c.Nodes) }

// IDs returns the distinct origin IDs in source order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.index))
	for i, n := range c.Nodes {
		if j, ok := c.index[n.ID]; ok && j == i {
			ids = append(ids, n.ID)
		}
	}
	return ids
}
