// This file defines ItemInfo, the content entity produced by listing
// and search parsing and progressively enriched by preloading.

package models

import (
	"context"
	"iter"
	"net/url"
	"time"
)

// PosterImage is one resolution variant of a poster.
type PosterImage struct {
	URL   string `json:"url"`
	Width int    `json:"width,omitempty"`
}

// Poster is a multi-resolution image set ordered from smallest to
// largest variant.
type Poster []PosterImage

// Best returns the largest available variant, or "" for an empty set.
func (p Poster) Best() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1].URL
}

// Thumb returns the smallest available variant, or "" for an empty set.
func (p Poster) Thumb() string {
	if len(p) == 0 {
		return ""
	}
	return p[0].URL
}

// CalendarEpisode is one entry of a serial's release calendar.
type CalendarEpisode struct {
	Season   int       `json:"season,omitempty"`
	Episode  int       `json:"episode"`
	Title    string    `json:"title,omitempty"`
	DateTime time.Time `json:"date_time,omitempty"`
}

// EpisodesCalendarFunc lazily produces the release calendar. It is only
// invoked when a caller actually enumerates it.
type EpisodesCalendarFunc func(ctx context.Context) iter.Seq[CalendarEpisode]

// ItemDetails is the mutable attribute bag of an item. It is owned
// exclusively by its ItemInfo; preloading fills gaps and never
// downgrades populated fields.
type ItemDetails struct {
	Titles           []string             `json:"titles,omitempty"`
	TitleOrigin      string               `json:"title_origin,omitempty"`
	Description      string               `json:"description,omitempty"`
	Year             int                  `json:"year,omitempty"`
	YearEnd          int                  `json:"year_end,omitempty"`
	Rating           *UpDownRating        `json:"rating,omitempty"`
	Quality          string               `json:"quality,omitempty"`
	Tags             []TagsContainer      `json:"tags,omitempty"`
	Status           Status               `json:"status"`
	Similar          []*ItemInfo          `json:"similar,omitempty"`
	LinkedIDs        map[Site]string      `json:"linked_ids,omitempty"`
	EpisodesCalendar EpisodesCalendarFunc `json:"-"`
}

// ItemInfo is a content entity keyed by (Site, ID). Instances are
// created by search/listing parse and enriched in place afterwards.
type ItemInfo struct {
	Site    Site        `json:"site"`
	ID      string      `json:"id"`
	Title   string      `json:"title"`
	Link    *url.URL    `json:"link,omitempty"`
	Poster  Poster      `json:"poster,omitempty"`
	Section Section     `json:"section"`
	Details ItemDetails `json:"details"`
}

// Key returns the (site, id) identity of the item.
func (i *ItemInfo) Key() string {
	return i.Site.ID() + "/" + i.ID
}

// LinkedID returns the item's id on another site, if a cross-site link
// has been established.
func (i *ItemInfo) LinkedID(site Site) (string, bool) {
	id, ok := i.Details.LinkedIDs[site]
	return id, ok
}

// SetLinkedID records the item's id on another site.
func (i *ItemInfo) SetLinkedID(site Site, id string) {
	if i.Details.LinkedIDs == nil {
		i.Details.LinkedIDs = make(map[Site]string)
	}
	i.Details.LinkedIDs[site] = id
}
