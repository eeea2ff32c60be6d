package catalog

import (
	"fmt"
	"strings"

	"github.com/matzehuels/originchart/pkg/errors"
	"github.com/matzehuels/originchart/pkg/origin"
)

// IssueKind classifies a catalog problem.
type IssueKind string

const (
	IssueMissingID           IssueKind = "missing-id"
	IssueInvalidID           IssueKind = "invalid-id"
	IssueDuplicateID         IssueKind = "duplicate-id"
	IssueMissingStep         IssueKind = "missing-step"
	IssueUnknownStep         IssueKind = "unknown-step"
	IssuePositionRange       IssueKind = "position-out-of-range"
	IssueDanglingRequirement IssueKind = "dangling-requirement"
	IssueUndecodable         IssueKind = "undecodable"
)

// Issue is one problem found in a catalog. Issues are warnings: the chart
// engine tolerates every one of them by defaulting or dropping.
type Issue struct {
	Kind    IssueKind `json:"kind"`
	Index   int       `json:"index"` // record index in source order
	ID      string    `json:"id,omitempty"`
	Message string    `json:"message"`
}

func (i Issue) String() string {
	if i.ID == "" {
		return fmt.Sprintf("record %d: %s", i.Index, i.Message)
	}
	return fmt.Sprintf("record %d (%s): %s", i.Index, i.ID, i.Message)
}

// Report collects the issues found in a catalog.
type Report struct {
	Issues []Issue `json:"issues"`
}

// OK reports whether the catalog has no issues.
func (r Report) OK() bool { return len(r.Issues) == 0 }

// Count returns the number of issues of the given kind.
func (r Report) Count(kind IssueKind) int {
	n := 0
	for _, is := range r.Issues {
		if is.Kind == kind {
			n++
		}
	}
	return n
}

// Dropped returns the IDs of origins the chart engine will leave out
// because they carry no recognized step.
func (r Report) Dropped() []string {
	var ids []string
	for _, is := range r.Issues {
		if is.Kind == IssueMissingStep || is.Kind == IssueUnknownStep {
			ids = append(ids, is.ID)
		}
	}
	return ids
}

// Validate inspects nodes and reports every problem it finds. It never
// fails; the returned report is empty for a clean catalog.
func Validate(nodes []origin.Node) Report {
	var r Report
	add := func(kind IssueKind, i int, id, format string, args ...any) {
		r.Issues = append(r.Issues, Issue{Kind: kind, Index: i, ID: id, Message: fmt.Sprintf(format, args...)})
	}

	known := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if n.ID != "" {
			known[n.ID] = true
		}
	}

	seen := make(map[string]int, len(nodes))
	for i, n := range nodes {
		switch {
		case n.ID == "":
			add(IssueMissingID, i, "", "origin has no id")
		default:
			if err := errors.ValidateOriginID(n.ID); err != nil {
				add(IssueInvalidID, i, n.ID, "%s", errors.UserMessage(err))
			}
			if first, dup := seen[n.ID]; dup {
				add(IssueDuplicateID, i, n.ID, "duplicate id, record %d is used", first)
			} else {
				seen[n.ID] = i
			}
		}

		switch {
		case n.Step == "":
			add(IssueMissingStep, i, n.ID, "origin has no step and is left out of the chart")
		case !n.Step.Valid():
			add(IssueUnknownStep, i, n.ID, "unknown step %q, origin is left out of the chart", n.Step)
		}

		if n.Position != nil && !origin.ValidPosition(*n.Position) {
			add(IssuePositionRange, i, n.ID, "position %d outside %d-%d, ignored", *n.Position, origin.MinPosition, origin.MaxPosition)
		}
		var bad []string
		for _, p := range n.Positions {
			if !origin.ValidPosition(p) {
				bad = append(bad, fmt.Sprint(p))
			}
		}
		if len(bad) > 0 {
			add(IssuePositionRange, i, n.ID, "positions %s outside %d-%d, ignored", strings.Join(bad, ","), origin.MinPosition, origin.MaxPosition)
		}

		for _, ref := range n.Requirements.PreviousSteps {
			if !known[ref] {
				add(IssueDanglingRequirement, i, n.ID, "previousSteps names unknown origin %q", ref)
			}
		}
		for _, ref := range n.Requirements.ExcludedSteps {
			if !known[ref] {
				add(IssueDanglingRequirement, i, n.ID, "excludedSteps names unknown origin %q", ref)
			}
		}
	}
	return r
}
