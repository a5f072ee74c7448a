package cache

// ScopedKeyer wraps a Keyer with a prefix so separate deployments or
// projects sharing one Redis instance get disjoint key namespaces.
//
// Example usage:
//
//	// Per-project keys when one server hosts several districts
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "district:north:")
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

// SynthesisKey generates a prefixed key for a synthesis result.
func (k *ScopedKeyer) SynthesisKey(inputHash string, opts SynthesisKeyOpts) string {
	return k.prefix + k.inner.SynthesisKey(inputHash, opts)
}

// RenderKey generates a prefixed key for a rendered output.
func (k *ScopedKeyer) RenderKey(resultHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(resultHash, opts)
}

// Ensure ScopedKeyer implements Keyer.
var _ Keyer = (*ScopedKeyer)(nil)
