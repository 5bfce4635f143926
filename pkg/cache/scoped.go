package cache

// ScopedKeyer wraps a Keyer with a prefix so that several viewers can share
// one Redis or Mongo backend without mixing entries.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "printer-2:")
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

// SliceKey generates a prefixed slicing result key.
func (k *ScopedKeyer) SliceKey(opts SliceKeyOpts) string {
	return k.prefix + k.inner.SliceKey(opts)
}
