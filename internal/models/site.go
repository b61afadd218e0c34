// This file defines the Site identifier used to key every provider,
// item and cache in the application.

package models

// Site identifies a single content source. It is a small immutable
// value type; providers, items and caches are all keyed by it.
type Site struct {
	id string
}

// Sentinel sites. SiteAny matches every source in aggregated queries,
// SiteAll addresses the whole provider set at once.
var (
	SiteNone = Site{}
	SiteAny  = Site{id: "any"}
	SiteAll  = Site{id: "all"}
)

// NewSite creates a site identifier from its canonical id string.
func NewSite(id string) Site {
	return Site{id: id}
}

// ID returns the canonical id of the site.
func (s Site) ID() string {
	return s.id
}

func (s Site) String() string {
	return s.id
}

// IsSpecial reports whether the site is one of the sentinel values
// rather than a concrete source.
func (s Site) IsSpecial() bool {
	return s == SiteNone || s == SiteAny || s == SiteAll
}

// MarshalText encodes the site as its canonical id, which also makes
// it usable as a JSON map key.
func (s Site) MarshalText() ([]byte, error) {
	return []byte(s.id), nil
}

// UnmarshalText restores a site from its canonical id.
func (s *Site) UnmarshalText(text []byte) error {
	s.id = string(text)
	return nil
}
