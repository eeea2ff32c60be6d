package catalog

import (
	"encoding/json"
	"fmt"
	"maps"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/originchart/pkg/errors"
	"github.com/matzehuels/originchart/pkg/origin"
)

// Format is the encoding of a catalog or selection document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Formats lists the supported document formats.
func Formats() []Format { return []Format{FormatJSON, FormatYAML, FormatTOML} }

// ParseFormat parses a format name. "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (want json, yaml or toml)", s)
}

// FormatFromPath infers the document format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", errors.New(errors.ErrCodeInvalidFormat, "cannot infer format of %q: no file extension", path)
	}
	return ParseFormat(ext)
}

// Decode parses a catalog document into origin nodes. Records that only
// partly decode are kept with what could be read and reported as issues.
// An error is returned only when the document itself cannot be parsed.
func Decode(data []byte, f Format) ([]origin.Node, []Issue, error) {
	doc, err := unmarshal(data, f)
	if err != nil {
		return nil, nil, err
	}
	recs, err := records(doc)
	if err != nil {
		return nil, nil, err
	}

	nodes := make([]origin.Node, 0, len(recs))
	var issues []Issue
	for i, raw := range recs {
		fields, ok := raw.(map[string]any)
		if !ok {
			issues = append(issues, Issue{Kind: IssueUndecodable, Index: i, Message: fmt.Sprintf("record is a %T, not a table", raw)})
			continue
		}
		n, err := decodeRecord(fields)
		if err != nil {
			issues = append(issues, Issue{Kind: IssueUndecodable, Index: i, ID: n.ID, Message: err.Error()})
		}
		nodes = append(nodes, n)
	}
	return nodes, issues, nil
}

func unmarshal(data []byte, f Format) (any, error) {
	var (
		doc any
		err error
	)
	switch f {
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatTOML:
		var m map[string]any
		_, err = toml.Decode(string(data), &m)
		if len(m) > 0 {
			doc = m
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", f)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s document", f)
	}
	return doc, nil
}

// records extracts the origin list from a decoded document: either a
// top-level "origins" list or a bare list.
func records(doc any) ([]any, error) {
	switch v := doc.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		raw, ok := v["origins"]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidCatalog, "document has no origins list")
		}
		return asList(raw)
	default:
		return asList(v)
	}
}

func asList(v any) ([]any, error) {
	switch l := v.(type) {
	case nil:
		return nil, nil
	case []any:
		return l, nil
	case []map[string]any:
		out := make([]any, len(l))
		for i, m := range l {
			out[i] = m
		}
		return out, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidCatalog, "origins must be a list, got %T", v)
}

// =============================================================================
// Records
// =============================================================================

// record is the loose on-disk shape of an origin. Alternate snake_case
// spellings are accepted and merged after decoding.
type record struct {
	ID           string            `mapstructure:"id"`
	Step         string            `mapstructure:"step"`
	Position     *int              `mapstructure:"position"`
	Positions    []int             `mapstructure:"positions"`
	Requirements requirementRecord `mapstructure:"requirements"`
	Name         string            `mapstructure:"name"`
	Image        string            `mapstructure:"image"`
	XPCost       *int              `mapstructure:"xpCost"`
	XPCostAlt    *int              `mapstructure:"xp_cost"`
	IsAdvanced   bool              `mapstructure:"isAdvanced"`
	HasChoices   bool              `mapstructure:"hasChoices"`
	Extra        map[string]any    `mapstructure:",remain"`
}

type requirementRecord struct {
	PreviousSteps    []string `mapstructure:"previousSteps"`
	PreviousStepsAlt []string `mapstructure:"previous_steps"`
	ExcludedSteps    []string `mapstructure:"excludedSteps"`
	ExcludedStepsAlt []string `mapstructure:"excluded_steps"`
}

// decodeRecord converts one loose record into a node. On error the node
// holds whatever fields were decoded before the failure.
func decodeRecord(fields map[string]any) (origin.Node, error) {
	var rec record
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &rec,
	})
	if err != nil {
		return origin.Node{}, err
	}
	derr := dec.Decode(flatten(fields))
	return rec.node(), derr
}

// flatten lifts a nested "meta" table, and an "extra" table inside it, to
// the top level so that documents written from [origin.Node] JSON decode
// the same way as flat records. Top-level keys win.
func flatten(fields map[string]any) map[string]any {
	meta, ok := fields["meta"].(map[string]any)
	if !ok {
		return fields
	}
	out := make(map[string]any, len(fields)+len(meta))
	if extra, ok := meta["extra"].(map[string]any); ok {
		maps.Copy(out, extra)
	}
	for k, v := range meta {
		if k != "extra" {
			out[k] = v
		}
	}
	for k, v := range fields {
		if k != "meta" {
			out[k] = v
		}
	}
	return out
}

func (r record) node() origin.Node {
	n := origin.Node{
		ID:        strings.TrimSpace(r.ID),
		Position:  r.Position,
		Positions: r.Positions,
		Requirements: origin.Requirements{
			PreviousSteps: append(r.Requirements.PreviousSteps, r.Requirements.PreviousStepsAlt...),
			ExcludedSteps: append(r.Requirements.ExcludedSteps, r.Requirements.ExcludedStepsAlt...),
		},
		Meta: origin.Metadata{
			Name:       r.Name,
			Image:      r.Image,
			IsAdvanced: r.IsAdvanced,
			HasChoices: r.HasChoices,
		},
	}
	if step, ok := origin.ParseStep(r.Step); ok {
		n.Step = step
	} else {
		// Kept verbatim so validation can name it; the chart drops it.
		n.Step = origin.Step(strings.TrimSpace(r.Step))
	}
	switch {
	case r.XPCost != nil:
		n.Meta.XPCost = *r.XPCost
	case r.XPCostAlt != nil:
		n.Meta.XPCost = *r.XPCostAlt
	}
	if len(r.Extra) > 0 {
		n.Meta.Extra = jsonValues(r.Extra)
	}
	return n
}

// jsonValues passes extra through a JSON round trip so its values have the
// types encoding/json produces (float64 numbers, []any lists). A layout
// read back from the cache then equals a freshly computed one whatever
// the catalog format. Values JSON cannot encode are kept as decoded.
func jsonValues(extra map[string]any) map[string]any {
	data, err := json.Marshal(extra)
	if err != nil {
		return extra
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return extra
	}
	return out
}
