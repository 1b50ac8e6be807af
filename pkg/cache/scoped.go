package cache

// ScopedKeyer wraps a Keyer with a prefix so several datasets can share
// one backend without key collisions.
//
// Example usage:
//
//	// Per-run keys while experimenting with catalog changes
//	runKeyer := NewScopedKeyer(NewDefaultKeyer(), "run:3f2a:")
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

// PlateKey generates a prefixed key for a base plate render.
func (k *ScopedKeyer) PlateKey(number, style string, width, height int) string {
	return k.prefix + k.inner.PlateKey(number, style, width, height)
}
