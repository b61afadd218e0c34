// This file defines the listing/search filter and the call-scoped
// filter session that emulates a site's stateful server-side filters.
// The session belongs to one enumeration, so concurrent listings
// against the same site never share mutable state.

package providers

import "github.com/fsclient/fsclient-go/internal/models"

// FetchFilter describes one listing or full-search request.
type FetchFilter struct {
	Section  models.Section     `json:"section"`
	Query    string             `json:"query,omitempty"`
	Tags     []models.TitledTag `json:"tags,omitempty"`
	Sort     models.TitledTag   `json:"sort,omitempty"`
	YearFrom int                `json:"year_from,omitempty"`
	YearTo   int                `json:"year_to,omitempty"`
}

// FilterSession tracks the tags last applied to a site's server-side
// filter session. Each enumeration owns its own session; the tag diff
// keeps re-submissions minimal.
type FilterSession struct {
	last map[string]models.TitledTag // keyed by tag type
}

// NewFilterSession starts an empty session.
func NewFilterSession() *FilterSession {
	return &FilterSession{last: make(map[string]models.TitledTag)}
}

// Diff returns only the tags whose value changed since the previous
// request, plus a type-scoped "any" reset for every tag type that was
// applied before and is absent now. The session is updated to the new
// state.
func (s *FilterSession) Diff(next []models.TitledTag) []models.TitledTag {
	var changed []models.TitledTag
	seen := make(map[string]bool, len(next))

	for _, tag := range next {
		if tag.IsAny() {
			continue
		}
		seen[tag.Type] = true
		if prev, ok := s.last[tag.Type]; !ok || prev != tag {
			changed = append(changed, tag)
			s.last[tag.Type] = tag
		}
	}

	for tagType, prev := range s.last {
		if !seen[tagType] {
			changed = append(changed, models.TitledTag{Site: prev.Site, Type: tagType})
			delete(s.last, tagType)
		}
	}
	return changed
}
