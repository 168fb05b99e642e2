package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments (or
// several users of one API) can share a Redis instance without seeing each
// other's layouts.
//
// Example usage:
//
//	// Keys for the staging API
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(levelHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(levelHash, opts)
}

// RenderKey generates a prefixed key for rendered graph caching.
func (k *ScopedKeyer) RenderKey(levelHash, graph, format string) string {
	return k.prefix + k.inner.RenderKey(levelHash, graph, format)
}
