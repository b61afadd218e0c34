// This file holds the shared plumbing of the ExFS adapter set: mirror
// resolution, the per-site rate limiter and request helpers. ExFS is a
// DLE-style HTML site; every capability parses server-rendered markup.

package exfs

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/fsclient/fsclient-go/internal/mirror"
	"github.com/fsclient/fsclient-go/internal/models"
	"github.com/fsclient/fsclient-go/internal/network"
	"github.com/fsclient/fsclient-go/internal/playerjs"
	"github.com/fsclient/fsclient-go/internal/providers"
)

// SiteID is the canonical id of ExFS in the registry.
const SiteID = "exfs"

// Site is the ExFS site identifier.
var Site = models.NewSite(SiteID)

// Sections served by ExFS listings, keyed by their URL path segment.
var sections = map[string]models.Section{
	"films":    models.NewSection("films", models.SectionFilm),
	"series":   models.NewSection("series", models.SectionSerial),
	"cartoons": models.NewSection("cartoons", models.SectionCartoon|models.SectionFilm),
	"shows":    models.NewSection("shows", models.SectionTVShow),
}

// Provider implements every ExFS capability over one shared mirror
// resolver and rate limiter.
type Provider struct {
	client  *network.Client
	mirrors *mirror.Resolver
	player  *playerjs.Resolver
	sem     *network.TimeSpanSemaphore

	favMu    sync.Mutex
	favUser  string
	favCache map[models.FavoriteListKind][]*models.ItemInfo

	folderMu      sync.Mutex
	folderLoaders map[string]folderLoader
}

type folderLoader func(ctx context.Context) ([]models.TreeNode, error)

// defaultRateLimit is the observed safe request rate for the site, in
// requests per second.
const defaultRateLimit = 5

// New creates the ExFS provider. rateLimit is the configured
// requests-per-second budget; 0 means the site default.
func New(client *network.Client, mirrors *mirror.Resolver, player *playerjs.Resolver, rateLimit int) *Provider {
	if rateLimit <= 0 {
		rateLimit = defaultRateLimit
	}
	return &Provider{
		client:        client,
		mirrors:       mirrors,
		player:        player,
		sem:           network.NewTimeSpanSemaphore(rateLimit, time.Second),
		favCache:      make(map[models.FavoriteListKind][]*models.ItemInfo),
		folderLoaders: make(map[string]folderLoader),
	}
}

// NewSet assembles the registry entry for ExFS.
func NewSet(client *network.Client, mirrors *mirror.Resolver, player *playerjs.Resolver, rateLimit int) *providers.ProviderSet {
	p := New(client, mirrors, player, rateLimit)
	return &providers.ProviderSet{
		Site:      Site,
		Name:      p.Name(),
		Items:     p,
		Search:    p,
		ItemInfo:  p,
		Auth:      p,
		Favorites: p,
		Files:     p,
		Reviews:   p,
	}
}

func (p *Provider) Site() models.Site {
	return Site
}

func (p *Provider) Name() string {
	return "ExFS"
}

// Mirror resolves the working base URL for the site.
func (p *Provider) Mirror(ctx context.Context) (*url.URL, error) {
	return p.mirrors.Get(ctx)
}

// get builds a throttled GET request for a path relative to the mirror.
func (p *Provider) get(base *url.URL, path string) *network.Request {
	ref, err := url.Parse(path)
	if err != nil {
		ref = &url.URL{Path: path}
	}
	return p.client.NewRequest(base.ResolveReference(ref)).WithSemaphore(p.sem)
}
