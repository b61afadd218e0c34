package exfs

import (
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/fsclient/fsclient-go/internal/models"
)

const serialPageHTML = `<html><body><div class="player">
	<div class="season" data-season="1">
		<div class="episode" data-episode="2" data-frame="/player/frame?e=s1e2">Second</div>
		<div class="episode" data-episode="1" data-frame="/player/frame?e=s1e1">First</div>
	</div>
	<div class="season" data-season="2">
		<div class="episode" data-episode="1" data-frame="/player/frame?e=s2e1"></div>
	</div>
</div></body></html>`

func TestItemRoot_Serial(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/series/77-x.html", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(serialPageHTML))
	})
	mux.HandleFunc("/player/frame", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<script>var player = {file:"https://cdn.example.org/v/720.mp4"};</script>`))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {})

	p, base := newTestProvider(t, mux)

	item := &models.ItemInfo{
		Site:    Site,
		ID:      "77",
		Title:   "The Show",
		Link:    base.JoinPath("/series/77-x.html"),
		Section: sections["series"],
	}
	root, err := p.ItemRoot(t.Context(), item)
	if err != nil {
		t.Fatal(err)
	}

	seasons := root.Children()
	if len(seasons) != 2 {
		t.Fatalf("seasons = %d", len(seasons))
	}
	s1, ok := seasons[0].(*models.Folder)
	if !ok || s1.Season != 1 {
		t.Fatalf("first child = %#v", seasons[0])
	}

	episodes := s1.Children()
	if len(episodes) != 2 {
		t.Fatalf("episodes = %d", len(episodes))
	}
	// Markup order is 2, 1; the tree is sorted by episode number.
	e1 := episodes[0].(*models.File)
	if e1.Episode != 1 || e1.Title != "First" {
		t.Errorf("first episode = %+v", e1)
	}
	if len(e1.Playlist) != 2 {
		t.Errorf("playlist spans %d files, want the season", len(e1.Playlist))
	}

	// Untitled episodes get a synthetic name.
	s2 := seasons[1].(*models.Folder)
	if got := s2.Children()[0].NodeTitle(); got != "Episode 1" {
		t.Errorf("untitled episode = %q", got)
	}

	// Streams resolve lazily through the player frame.
	videos, err := e1.Videos(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	if len(videos) != 1 || videos[0].URL != "https://cdn.example.org/v/720.mp4" {
		t.Fatalf("videos = %+v", videos)
	}
}

func TestItemRoot_Film(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/films/5-x.html", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><div class="player">
			<iframe src="/player/frame?f=5"></iframe>
		</div></body></html>`))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {})

	p, base := newTestProvider(t, mux)

	item := &models.ItemInfo{Site: Site, ID: "5", Title: "The Film", Link: base.JoinPath("/films/5-x.html")}
	root, err := p.ItemRoot(t.Context(), item)
	if err != nil {
		t.Fatal(err)
	}
	children := root.Children()
	if len(children) != 1 {
		t.Fatalf("children = %d", len(children))
	}
	file := children[0].(*models.File)
	if file.ID != "5" || file.Title != "The Film" {
		t.Errorf("file = %+v", file)
	}
}

func TestItemRoot_FrameOnForeignHost(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/films/5-x.html", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><div class="player">
			<iframe src="https://unknown-player.example/embed/5"></iframe>
		</div></body></html>`))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {})

	p, base := newTestProvider(t, mux)

	item := &models.ItemInfo{Site: Site, ID: "5", Link: base.JoinPath("/films/5-x.html")}
	root, err := p.ItemRoot(t.Context(), item)
	if err != nil {
		t.Fatal(err)
	}
	file := root.Children()[0].(*models.File)

	// A frame on a host the player subsystem does not know yields the
	// empty "no sources" state rather than an error.
	videos, err := file.Videos(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	if videos != nil {
		t.Errorf("videos = %+v", videos)
	}
}

func TestTorrentsRoot_Deferred(t *testing.T) {
	var pageHits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/films/5-x.html", func(w http.ResponseWriter, r *http.Request) {
		pageHits.Add(1)
		w.Write([]byte(`<html><body><table class="torrents">
			<tr><td class="name">Rip 1080p</td><td class="quality">1080p</td><td><a href="/download/5.torrent">get</a></td></tr>
			<tr><td class="name"></td><td><a href="/download/5-b.torrent">get</a></td></tr>
		</table></body></html>`))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {})

	p, base := newTestProvider(t, mux)

	item := &models.ItemInfo{Site: Site, ID: "5", Link: base.JoinPath("/films/5-x.html")}
	root, err := p.TorrentsRoot(t.Context(), item)
	if err != nil {
		t.Fatal(err)
	}
	if n := pageHits.Load(); n != 0 {
		t.Fatalf("torrent root fetched the page %d times before opening", n)
	}

	children, err := p.FolderChildren(t.Context(), root)
	if err != nil {
		t.Fatal(err)
	}
	if len(children) != 2 {
		t.Fatalf("torrents = %d", len(children))
	}
	first := children[0].(*models.File)
	if first.Title != "Rip 1080p" {
		t.Errorf("title = %q", first.Title)
	}
	videos, err := first.Videos(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	if len(videos) != 1 || videos[0].Quality != "1080p" {
		t.Fatalf("videos = %+v", videos)
	}
	if videos[0].URL != base.JoinPath("/download/5.torrent").String() {
		t.Errorf("torrent url = %q", videos[0].URL)
	}
	if children[1].NodeTitle() != "Torrent 2" {
		t.Errorf("fallback title = %q", children[1].NodeTitle())
	}

	// Reopening serves the already-materialized children.
	if _, err := p.FolderChildren(t.Context(), root); err != nil {
		t.Fatal(err)
	}
	if n := pageHits.Load(); n != 1 {
		t.Errorf("page fetched %d times, want 1", n)
	}
}

func TestTrailersRoot(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/films/5-x.html", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><div class="trailers">
			<iframe src="/player/frame?t=1"></iframe>
		</div></body></html>`))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {})

	p, base := newTestProvider(t, mux)

	item := &models.ItemInfo{Site: Site, ID: "5", Link: base.JoinPath("/films/5-x.html")}
	root, err := p.TrailersRoot(t.Context(), item)
	if err != nil {
		t.Fatal(err)
	}
	children, err := p.FolderChildren(t.Context(), root)
	if err != nil {
		t.Fatal(err)
	}
	if len(children) != 1 || children[0].NodeTitle() != "Trailer 1" {
		t.Fatalf("trailers = %v", children)
	}
}
