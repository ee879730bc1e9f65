package cache

// ScopedKeyer prefixes every key from an inner Keyer. Servers sharing one
// Redis instance use it to keep their entries apart:
//
//	keyer := cache.NewScopedKeyer(nil, "sociogram:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner with prefix. A nil inner uses [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// AnalysisKey implements [Keyer].
func (k *ScopedKeyer) AnalysisKey(setHash string) string {
	return k.prefix + k.inner.AnalysisKey(setHash)
}

// ArtifactKey implements [Keyer].
func (k *ScopedKeyer) ArtifactKey(setHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(setHash, opts)
}
