package nekomori

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/fsclient/fsclient-go/internal/mirror"
	"github.com/fsclient/fsclient-go/internal/models"
	"github.com/fsclient/fsclient-go/internal/network"
	"github.com/fsclient/fsclient-go/internal/playerjs"
	"github.com/fsclient/fsclient-go/internal/providers"
)

// newTestProvider wires a provider against a synthetic API served by
// httptest. The handler receives every request, health probes included.
func newTestProvider(t *testing.T, handler http.Handler) (*Provider, *url.URL) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	base, err := url.Parse(server.URL)
	if err != nil {
		t.Fatal(err)
	}

	client := network.New(5 * time.Second)
	resolver := mirror.New(Site, client, []*url.URL{base}, "/")
	player := playerjs.NewResolver(client, base.Hostname())
	return New(client, resolver, player, 0), base
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

func TestNew_ConfiguredRateLimit(t *testing.T) {
	p, _ := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	if got := p.sem.Limit(); got != 4 {
		t.Errorf("default limit = %d, want 4", got)
	}

	limited := New(p.client, p.mirrors, p.player, 2)
	if got := limited.sem.Limit(); got != 2 {
		t.Errorf("configured limit = %d, want 2", got)
	}
}

func feedPage(page, pages int, entries ...animeData) animePage {
	return animePage{Items: entries, Page: page, Pages: pages}
}

func TestFullResult_FeedPagination(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/anime", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "1":
			writeJSON(t, w, feedPage(1, 2,
				animeData{ID: 10, Name: "First Show", Year: 2020},
				animeData{ID: 11, Name: "Second Show"},
			))
		case "2":
			writeJSON(t, w, feedPage(2, 2, animeData{ID: 12, Name: "Third Show"}))
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
		}
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {})

	p, _ := newTestProvider(t, mux)

	items := p.FullResult(providers.FetchFilter{}).Collect(t.Context(), 0)
	if len(items) != 3 {
		t.Fatalf("items = %d", len(items))
	}
	if items[0].ID != "10" || items[0].Title != "First Show" {
		t.Errorf("item = %q %q", items[0].ID, items[0].Title)
	}
	if items[0].Details.Year != 2020 {
		t.Errorf("year = %d", items[0].Details.Year)
	}
	if items[0].Section.Name != "anime" {
		t.Errorf("section = %q", items[0].Section.Name)
	}
}

func TestFullResult_QueryAndTags(t *testing.T) {
	var query url.Values
	mux := http.NewServeMux()
	mux.HandleFunc("/api/anime", func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		writeJSON(t, w, feedPage(1, 1, animeData{ID: 10, Name: "Hit"}))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {})

	p, _ := newTestProvider(t, mux)

	filter := providers.FetchFilter{
		Query:    "neko",
		Tags:     []models.TitledTag{models.NewTitledTag(Site, "genre", "action")},
		YearFrom: 2015,
		YearTo:   2020,
	}
	items := p.FullResult(filter).Collect(t.Context(), 0)
	if len(items) != 1 {
		t.Fatalf("items = %d", len(items))
	}
	if query.Get("q") != "neko" || query.Get("genre") != "action" {
		t.Errorf("query = %v", query)
	}
	if query.Get("year_from") != "2015" || query.Get("year_to") != "2020" {
		t.Errorf("year bounds missing: %v", query)
	}
}

func TestHomePage_OngoingBlock(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/anime", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, feedPage(1, 5, animeData{ID: 10, Name: "Ongoing Show", Ongoing: true, Episodes: 12}))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {})

	p, _ := newTestProvider(t, mux)

	home, err := p.HomePage(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	if len(home.Blocks) != 1 || home.Blocks[0].Title != "Ongoing" {
		t.Fatalf("blocks = %+v", home.Blocks)
	}
	if got := home.Blocks[0].Items[0].Details.Status; got.Type != models.StatusOngoing || got.TotalEpisodes != 12 {
		t.Errorf("status = %+v", got)
	}
}

func TestFindSimilar_OriginalTitleRanking(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/anime", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, feedPage(1, 1,
			animeData{ID: 20, Name: "Attack Season 2", OrigName: "Shingeki 2"},
			animeData{ID: 21, Name: "Localized Name", OrigName: "shingeki"},
			animeData{ID: 22, Name: "Unrelated", OrigName: "Other"},
		))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {})

	p, _ := newTestProvider(t, mux)

	foreign := &models.ItemInfo{Site: models.NewSite("other"), ID: "x", Title: "Shingeki"}
	similar, err := p.FindSimilar(t.Context(), foreign)
	if err != nil {
		t.Fatal(err)
	}
	if len(similar) != 2 {
		t.Fatalf("similar = %v", similar)
	}
	// The exact original-title match outranks the longer localized one.
	if similar[0].ID != "21" || similar[1].ID != "20" {
		t.Errorf("ranking = %q, %q", similar[0].ID, similar[1].ID)
	}
}

func TestToItem_LinkedIDs(t *testing.T) {
	data := animeData{ID: 30, Name: "Linked"}
	data.Links = []struct {
		Site string `json:"site"`
		ID   string `json:"id"`
	}{
		{Site: "exfs", ID: "777"},
	}

	base, _ := url.Parse("https://nekomori.example")
	item := toItem(base, data)
	if item.Link == nil || item.Link.Path != "/anime/30" {
		t.Errorf("link = %v", item.Link)
	}
	id, ok := item.LinkedID(models.NewSite("exfs"))
	if !ok || id != "777" {
		t.Errorf("linked id = %q, %v", id, ok)
	}
}
