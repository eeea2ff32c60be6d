package cache

// keyVersion is bumped whenever the cached layout encoding changes.
const keyVersion = "v1"

// Keyer derives cache keys for chart results.
type Keyer interface {
	// ChartKey identifies a full chart layout.
	ChartKey(catalogHash string, opts ChartKeyOpts) string

	// OptionsKey identifies the valid next options of one origin.
	OptionsKey(catalogHash, fromID string) string
}

// ChartKeyOpts are the inputs besides the catalog that change a layout.
type ChartKeyOpts struct {
	Selections map[string]string // step key → origin id
	Guided     bool
	Direction  string
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ChartKey implements [Keyer].
func (DefaultKeyer) ChartKey(catalogHash string, opts ChartKeyOpts) string {
	sel := opts.Selections
	if sel == nil {
		sel = map[string]string{}
	}
	return hashKey("chart:"+keyVersion, catalogHash, sel, opts.Guided, opts.Direction)
}

// OptionsKey implements [Keyer].
func (DefaultKeyer) OptionsKey(catalogHash, fromID string) string {
	return hashKey("options:"+keyVersion, catalogHash, fromID)
}
