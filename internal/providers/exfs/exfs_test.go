package exfs

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/fsclient/fsclient-go/internal/mirror"
	"github.com/fsclient/fsclient-go/internal/network"
	"github.com/fsclient/fsclient-go/internal/playerjs"
)

// newTestProvider wires a provider against a synthetic site served by
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

func TestNew_ConfiguredRateLimit(t *testing.T) {
	p, _ := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	if got := p.sem.Limit(); got != 5 {
		t.Errorf("default limit = %d, want 5", got)
	}

	limited := New(p.client, p.mirrors, p.player, 2)
	if got := limited.sem.Limit(); got != 2 {
		t.Errorf("configured limit = %d, want 2", got)
	}
}

// listingHTML renders a minimal listing page with the given item
// titles and a pagination block up to lastPage.
func listingHTML(lastPage int, stories ...string) string {
	page := "<html><body>"
	for i, title := range stories {
		page += fmt.Sprintf(`
			<div class="shortstory">
				<a class="title" href="/films/%d-%s.html">%s</a>
				<img src="/engine/thumbs.php?src=/uploads/%d.jpg&w=190">
				<span class="quality">HD</span>
				<span class="year">2021</span>
			</div>`, 100+i, title, title, 100+i)
	}
	if lastPage > 1 {
		page += `<div class="navigation">`
		for n := 1; n <= lastPage; n++ {
			page += fmt.Sprintf(`<a href="/films/page/%d/">%d</a>`, n, n)
		}
		page += `</div>`
	}
	return page + "</body></html>"
}
