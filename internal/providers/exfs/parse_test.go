package exfs

import (
	"net/url"
	"testing"

	"github.com/fsclient/fsclient-go/internal/models"
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func TestIDFromURL(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"https://exfs.example/films/12345-some-title.html", "12345"},
		{"https://exfs.example/series/777-show/", "777"},
		{"https://exfs.example/engine/ajax/search.php", ""},
		{"https://exfs.example/", ""},
	}
	for _, tc := range cases {
		if got := idFromURL(mustURL(t, tc.raw)); got != tc.want {
			t.Errorf("idFromURL(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
	if idFromURL(nil) != "" {
		t.Error("nil URL must yield an empty id")
	}
}

func TestSectionFromURL(t *testing.T) {
	if got := sectionFromURL(mustURL(t, "https://exfs.example/series/1-x.html")); got.Name != "series" {
		t.Errorf("section = %q, want series", got.Name)
	}
	if got := sectionFromURL(mustURL(t, "https://exfs.example/unknown/1-x.html")); !got.IsAny() {
		t.Errorf("unknown segment must map to the any section, got %q", got.Name)
	}
}

func TestTagFromLink(t *testing.T) {
	tag, ok := tagFromLink(mustURL(t, "https://exfs.example/xfsearch/genre/comedy/"))
	if !ok {
		t.Fatal("expected a tag")
	}
	if tag.Type != "genre" || tag.Value != "comedy" || tag.Site != Site {
		t.Errorf("tag = %+v", tag)
	}

	if _, ok := tagFromLink(mustURL(t, "https://exfs.example/comedy")); ok {
		t.Error("a single-segment link is not a tag")
	}
}

func TestPosterFromProxy(t *testing.T) {
	t.Run("proxied", func(t *testing.T) {
		poster := posterFromProxy("https://exfs.example/engine/thumbs.php?src=https://img.example/p.jpg&w=190")
		if len(poster) != 2 {
			t.Fatalf("expected thumb and original, got %v", poster)
		}
		if poster.Best() != "https://img.example/p.jpg" {
			t.Errorf("Best() = %q", poster.Best())
		}
		if poster[0].Width != 190 {
			t.Errorf("thumb width = %d", poster[0].Width)
		}
	})

	t.Run("direct", func(t *testing.T) {
		poster := posterFromProxy("https://img.example/p.jpg")
		if len(poster) != 1 || poster.Best() != "https://img.example/p.jpg" {
			t.Errorf("poster = %v", poster)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if posterFromProxy("") != nil {
			t.Error("empty src must yield no poster")
		}
	})
}

func TestParseYear(t *testing.T) {
	if got := parseYear("Premiere: 2019, France"); got != 2019 {
		t.Errorf("parseYear = %d", got)
	}
	if got := parseYear("no year here"); got != 0 {
		t.Errorf("parseYear = %d, want 0", got)
	}
}

func TestParseEpisodeStatus(t *testing.T) {
	s := parseEpisodeStatus("12 of 24, season 2")
	if s.CurrentEpisode != 12 || s.TotalEpisodes != 24 || s.CurrentSeason != 2 {
		t.Errorf("status = %+v", s)
	}
	if s.Type != models.StatusOngoing {
		t.Errorf("type = %q, want ongoing", s.Type)
	}

	done := parseEpisodeStatus("24 of 24")
	if done.Type != models.StatusReleased {
		t.Errorf("type = %q, want released", done.Type)
	}
}

func TestSamePath(t *testing.T) {
	a := mustURL(t, "https://exfs.example/films/page/2/")
	b := mustURL(t, "https://exfs.example/films/page/2")
	c := mustURL(t, "https://exfs.example/films/")

	if !samePath(a, b) {
		t.Error("trailing slashes must not matter")
	}
	if samePath(a, c) {
		t.Error("different paths must not match")
	}
}
