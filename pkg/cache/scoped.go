package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// A Redis cache shared by several machines must not hand one host's tool probe
// to another, so the CLI scopes keys by hostname:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "host:build-07:")
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

// ToolKey generates a prefixed key for tool probe caching.
func (k *ScopedKeyer) ToolKey(binaryPath string, modTime int64, args []string) string {
	return k.prefix + k.inner.ToolKey(binaryPath, modTime, args)
}
