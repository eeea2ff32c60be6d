package catalog

import (
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/matzehuels/originchart/pkg/errors"
	"github.com/matzehuels/originchart/pkg/origin"
)

// Picks maps step keys to origin IDs as written by users. Keys may use any
// spelling [origin.ParseStep] accepts.
type Picks map[string]string

// ParsePicks parses "step=id" pairs such as those given with --pick.
// A later pair for the same step replaces an earlier one.
func ParsePicks(pairs []string) (Picks, error) {
	picks := make(Picks, len(pairs))
	for _, pair := range pairs {
		step, id, ok := strings.Cut(pair, "=")
		step, id = strings.TrimSpace(step), strings.TrimSpace(id)
		if !ok || step == "" || id == "" {
			return nil, errors.New(errors.ErrCodeInvalidSelection, "invalid pick %q: want step=id", pair)
		}
		picks[step] = id
	}
	return picks, nil
}

// ReadSelections reads picks from a JSON, YAML or TOML file. The file holds
// either a flat step → id table or a "selections" table.
func ReadSelections(path string) (Picks, error) {
	if err := errors.ValidateCatalogPath(path); err != nil {
		return nil, err
	}
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "selections %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read selections %s", path)
	}
	return DecodeSelections(data, f)
}

// DecodeSelections parses a selections document.
func DecodeSelections(data []byte, f Format) (Picks, error) {
	doc, err := unmarshal(data, f)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return Picks{}, nil
	}
	if m, ok := doc.(map[string]any); ok {
		if inner, ok := m["selections"]; ok {
			doc = inner
		}
	}
	var picks Picks
	if err := mapstructure.WeakDecode(doc, &picks); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSelection, err, "decode selections")
	}
	if picks == nil {
		picks = Picks{}
	}
	return picks, nil
}

// ResolveSelections checks picks against cat and returns the confirmed
// selections. Empty IDs are skipped. Unknown steps, unknown IDs and IDs
// that belong to a different step are errors.
func ResolveSelections(cat *Catalog, picks Picks) (origin.Selections, error) {
	sel := make(origin.Selections, len(picks))
	for _, key := range slices.Sorted(maps.Keys(picks)) {
		id := strings.TrimSpace(picks[key])
		if id == "" {
			continue
		}
		step, ok := origin.ParseStep(key)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidSelection, "unknown step %q", key)
		}
		if _, dup := sel[step]; dup {
			return nil, errors.New(errors.ErrCodeInvalidSelection, "step %s selected more than once", step)
		}
		n, ok := cat.Node(id)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidSelection, "origin %q is not in the catalog", id)
		}
		if n.Step != step {
			return nil, errors.New(errors.ErrCodeInvalidSelection, "origin %q belongs to step %s, not %s", id, n.Step, step)
		}
		sel[step] = origin.SelectionOf(n)
	}
	return sel, nil
}
