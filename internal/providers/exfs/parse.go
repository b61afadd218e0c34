// This file holds the pure micro-parsers translating ExFS URL
// conventions into domain identifiers. They run against untrusted
// third-party markup, so every one of them degrades to a zero value on
// malformed input instead of failing.

package exfs

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/fsclient/fsclient-go/internal/models"
)

var idPattern = regexp.MustCompile(`^(\d+)(?:-|\.|$)`)

// idFromURL extracts the numeric item id from a path like
// /films/12345-some-title.html. Returns "" when no id is present.
func idFromURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	for _, segment := range strings.Split(strings.Trim(u.Path, "/"), "/") {
		if m := idPattern.FindStringSubmatch(segment); m != nil {
			return m[1]
		}
	}
	return ""
}

// sectionFromURL infers the content section from the first path
// segment. Returns the any-section sentinel for unknown segments.
func sectionFromURL(u *url.URL) models.Section {
	if u == nil {
		return models.SectionAny
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) == 0 {
		return models.SectionAny
	}
	if section, ok := sections[segments[0]]; ok {
		return section
	}
	return models.SectionAny
}

// tagFromLink extracts a tag from the last two path segments of a
// taxonomy link like /xfsearch/genre/comedy/. The boolean is false when
// the link does not follow that shape.
func tagFromLink(link *url.URL) (models.TitledTag, bool) {
	if link == nil {
		return models.TitledTag{}, false
	}
	segments := strings.Split(strings.Trim(link.Path, "/"), "/")
	if len(segments) < 2 {
		return models.TitledTag{}, false
	}
	tagType := segments[len(segments)-2]
	value := segments[len(segments)-1]
	if tagType == "" || value == "" {
		return models.TitledTag{}, false
	}
	return models.TitledTag{
		Title: value,
		Site:  Site,
		Type:  tagType,
		Value: value,
	}, true
}

// posterFromProxy canonicalizes a poster URL. ExFS wraps images in an
// on-the-fly proxy (/engine/thumbs.php?src=<original>&w=<width>); the
// original asset is recovered from the src parameter while the proxy
// URL itself stays as the thumbnail variant.
func posterFromProxy(raw string) models.Poster {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil
	}

	if !strings.HasSuffix(u.Path, "/engine/thumbs.php") {
		return models.Poster{{URL: raw}}
	}

	src := u.Query().Get("src")
	if src == "" {
		return models.Poster{{URL: raw}}
	}
	width, _ := strconv.Atoi(u.Query().Get("w"))
	if width == 0 {
		width = 150
	}
	return models.Poster{
		{URL: raw, Width: width},
		{URL: src},
	}
}

// parseYear pulls a plausible release year out of arbitrary text.
func parseYear(text string) int {
	m := regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`).FindString(text)
	year, _ := strconv.Atoi(m)
	return year
}

// parseEpisodeStatus reads counters like "12 of 24" / "season 2".
func parseEpisodeStatus(text string) models.Status {
	status := models.Status{Type: models.StatusUnknown}
	if m := regexp.MustCompile(`(\d+)\s+of\s+(\d+)`).FindStringSubmatch(text); m != nil {
		status.CurrentEpisode, _ = strconv.Atoi(m[1])
		status.TotalEpisodes, _ = strconv.Atoi(m[2])
		if status.CurrentEpisode >= status.TotalEpisodes {
			status.Type = models.StatusReleased
		} else {
			status.Type = models.StatusOngoing
		}
	}
	if m := regexp.MustCompile(`season\s+(\d+)`).FindStringSubmatch(strings.ToLower(text)); m != nil {
		status.CurrentSeason, _ = strconv.Atoi(m[1])
	}
	return status
}
