package pipeline

import (
	"encoding/json"

	"github.com/matzehuels/originchart/pkg/chart"
	"github.com/matzehuels/originchart/pkg/errors"
)

// EncodeLayout serializes a layout as JSON, indented when pretty is set.
func EncodeLayout(l chart.Layout, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(l, "", "  ")
	}
	return json.Marshal(l)
}

// DecodeLayout parses a layout written by EncodeLayout.
func DecodeLayout(data []byte) (chart.Layout, error) {
	var l chart.Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return chart.Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode layout")
	}
	return l, nil
}
