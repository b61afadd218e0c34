// This file implements the explicit static provider registry. Adapter
// sets are registered once at startup by the wiring code; there is no
// runtime discovery.

package providers

import (
	"fmt"
	"sort"
	"sync"

	"github.com/fsclient/fsclient-go/internal/models"
)

// Capability is a bit set declaring which provider interfaces a site
// supports.
type Capability uint16

const (
	CapItems Capability = 1 << iota
	CapSearch
	CapItemInfo
	CapAuth
	CapFavorites
	CapFiles
	CapReviews
)

// Has reports whether all bits of other are set.
func (c Capability) Has(other Capability) bool {
	return c&other == other
}

// ProviderSet bundles every adapter of one site. Nil fields mean the
// site does not support that capability.
type ProviderSet struct {
	Site models.Site
	Name string

	Items     ItemProvider
	Search    SearchProvider
	ItemInfo  ItemInfoProvider
	Auth      AuthProvider
	Favorites FavoriteProvider
	Files     FileProvider
	Reviews   ReviewProvider
}

// Capabilities derives the capability flags from the populated fields.
func (s *ProviderSet) Capabilities() Capability {
	var c Capability
	if s.Items != nil {
		c |= CapItems
	}
	if s.Search != nil {
		c |= CapSearch
	}
	if s.ItemInfo != nil {
		c |= CapItemInfo
	}
	if s.Auth != nil {
		c |= CapAuth
	}
	if s.Favorites != nil {
		c |= CapFavorites
	}
	if s.Files != nil {
		c |= CapFiles
	}
	if s.Reviews != nil {
		c |= CapReviews
	}
	return c
}

var (
	mu       sync.RWMutex
	registry = make(map[models.Site]*ProviderSet)
)

// Register adds a provider set to the registry. It is called from the
// startup wiring; a duplicate site is a developer error.
func Register(set *ProviderSet) {
	mu.Lock()
	defer mu.Unlock()
	if set.Site.IsSpecial() {
		panic(fmt.Sprintf("cannot register provider set for sentinel site %q", set.Site))
	}
	if _, exists := registry[set.Site]; exists {
		panic(fmt.Sprintf("provider set for site %q is already registered", set.Site))
	}
	registry[set.Site] = set
}

// Get returns the provider set of a site.
func Get(site models.Site) (*ProviderSet, bool) {
	mu.RLock()
	defer mu.RUnlock()
	set, ok := registry[site]
	return set, ok
}

// All returns every registered set ordered by site id.
func All() []*ProviderSet {
	mu.RLock()
	defer mu.RUnlock()
	sets := make([]*ProviderSet, 0, len(registry))
	for _, set := range registry {
		sets = append(sets, set)
	}
	sort.Slice(sets, func(i, j int) bool {
		return sets[i].Site.ID() < sets[j].Site.ID()
	})
	return sets
}

// WithCapability returns every registered set declaring the capability.
func WithCapability(c Capability) []*ProviderSet {
	var out []*ProviderSet
	for _, set := range All() {
		if set.Capabilities().Has(c) {
			out = append(out, set)
		}
	}
	return out
}
