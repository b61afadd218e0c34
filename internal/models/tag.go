// This file defines TitledTag, the named filter/taxonomy value used to
// express genres, years, qualities and the other filter dimensions a
// site exposes.

package models

// TitledTag is a named, site-scoped filter value. It is an immutable
// value type compared by its fields; the zero value is the "any"
// sentinel that matches everything.
type TitledTag struct {
	Title string `json:"title"`
	Site  Site   `json:"site"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

// TagAny matches every tag of every type.
var TagAny = TitledTag{}

// NewTitledTag creates a tag whose display title equals its value.
func NewTitledTag(site Site, tagType, value string) TitledTag {
	return TitledTag{Title: value, Site: site, Type: tagType, Value: value}
}

// IsAny reports whether the tag is the unrestricted sentinel.
func (t TitledTag) IsAny() bool {
	return t.Type == "" && t.Value == ""
}

func (t TitledTag) String() string {
	if t.Title != "" {
		return t.Title
	}
	return t.Value
}

// TagsContainer groups tags of one type under a display label, the way
// a site's filter panel groups them.
type TagsContainer struct {
	Title string      `json:"title"`
	Tags  []TitledTag `json:"tags"`
}
