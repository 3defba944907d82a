package cache

// Keyer names store keys.
type Keyer interface {
	// ReportKey returns the key of a batch report.
	ReportKey(batchID string) string
}

// DefaultKeyer produces unprefixed keys of the form "report:<id>".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ReportKey returns "report:<batchID>".
func (DefaultKeyer) ReportKey(batchID string) string {
	return "report:" + batchID
}

// ScopedKeyer wraps a Keyer with a prefix so that several deployments can
// share one Redis database:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "badgepress:staging:")
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

// ReportKey generates a prefixed report key.
func (k *ScopedKeyer) ReportKey(batchID string) string {
	return k.prefix + k.inner.ReportKey(batchID)
}
