// This file defines content sections (films, series, cartoons, shows)
// and the modifier flags describing their nature.

package models

import "unicode"

// SectionModifier is a bit set describing the nature of a section.
type SectionModifier uint8

const (
	SectionFilm SectionModifier = 1 << iota
	SectionSerial
	SectionCartoon
	SectionTVShow
	SectionAnime
)

// Has reports whether all bits of other are set.
func (m SectionModifier) Has(other SectionModifier) bool {
	return m&other == other
}

// Section is a content category with modifier flags. The zero value is
// the "no section" sentinel used when a site does not categorize.
type Section struct {
	Name     string          `json:"name"`
	Title    string          `json:"title"`
	Modifier SectionModifier `json:"modifier"`
}

// SectionAny matches every section in filters.
var SectionAny = Section{}

// IsAny reports whether the section is the unrestricted sentinel.
func (s Section) IsAny() bool {
	return s.Name == ""
}

func (s Section) String() string {
	if s.Title != "" {
		return s.Title
	}
	return s.Name
}

// NewSection builds a section whose display title defaults to the
// capitalized name.
func NewSection(name string, modifier SectionModifier) Section {
	title := []rune(name)
	if len(title) > 0 {
		title[0] = unicode.ToUpper(title[0])
	}
	return Section{
		Name:     name,
		Title:    string(title),
		Modifier: modifier,
	}
}
