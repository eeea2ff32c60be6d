package cache

// ScopedKeyer prefixes every key of an inner Keyer. The HTTP server scopes
// keys per catalog source so that clearing one source leaves others intact.
//
//	k := NewScopedKeyer(NewDefaultKeyer(), "mongo:originchart.origins:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ChartKey implements [Keyer].
func (k *ScopedKeyer) ChartKey(catalogHash string, opts ChartKeyOpts) string {
	return k.prefix + k.inner.ChartKey(catalogHash, opts)
}

// OptionsKey implements [Keyer].
func (k *ScopedKeyer) OptionsKey(catalogHash, fromID string) string {
	return k.prefix + k.inner.OptionsKey(catalogHash, fromID)
}
