// This file holds the shared plumbing of the Nekomori adapter set.
// Nekomori is an anime catalog with a JSON API; it supports listings,
// search, item info and files, but no user accounts.

package nekomori

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/fsclient/fsclient-go/internal/mirror"
	"github.com/fsclient/fsclient-go/internal/models"
	"github.com/fsclient/fsclient-go/internal/network"
	"github.com/fsclient/fsclient-go/internal/playerjs"
	"github.com/fsclient/fsclient-go/internal/providers"
)

// SiteID is the canonical id of Nekomori in the registry.
const SiteID = "nekomori"

// Site is the Nekomori site identifier.
var Site = models.NewSite(SiteID)

// sectionAnime is the only section the catalog serves.
var sectionAnime = models.NewSection("anime", models.SectionAnime|models.SectionSerial)

// Provider implements the Nekomori capabilities over the site's JSON
// API.
type Provider struct {
	client  *network.Client
	mirrors *mirror.Resolver
	player  *playerjs.Resolver
	sem     *network.TimeSpanSemaphore

	plMu        sync.Mutex
	playlistRef map[string]*playlistEntry // file id -> playlist bookkeeping
}

// defaultRateLimit is what the API tolerates, in requests per second.
const defaultRateLimit = 4

// New creates the Nekomori provider. rateLimit is the configured
// requests-per-second budget; 0 means the site default.
func New(client *network.Client, mirrors *mirror.Resolver, player *playerjs.Resolver, rateLimit int) *Provider {
	if rateLimit <= 0 {
		rateLimit = defaultRateLimit
	}
	return &Provider{
		client:      client,
		mirrors:     mirrors,
		player:      player,
		sem:         network.NewTimeSpanSemaphore(rateLimit, time.Second),
		playlistRef: make(map[string]*playlistEntry),
	}
}

// NewSet assembles the registry entry for Nekomori.
func NewSet(client *network.Client, mirrors *mirror.Resolver, player *playerjs.Resolver, rateLimit int) *providers.ProviderSet {
	p := New(client, mirrors, player, rateLimit)
	return &providers.ProviderSet{
		Site:     Site,
		Name:     p.Name(),
		Items:    p,
		Search:   p,
		ItemInfo: p,
		Files:    p,
	}
}

func (p *Provider) Site() models.Site {
	return Site
}

func (p *Provider) Name() string {
	return "Nekomori"
}

// Mirror resolves the working base URL for the site.
func (p *Provider) Mirror(ctx context.Context) (*url.URL, error) {
	return p.mirrors.Get(ctx)
}

// api builds a throttled request against an API path.
func (p *Provider) api(base *url.URL, format string, args ...any) *network.Request {
	ref := &url.URL{Path: fmt.Sprintf(format, args...)}
	return p.client.NewRequest(base.ResolveReference(ref)).WithSemaphore(p.sem).WithAjax()
}

// toItem converts an API entry into the common domain model.
func toItem(base *url.URL, data animeData) *models.ItemInfo {
	item := &models.ItemInfo{
		Site:    Site,
		ID:      fmt.Sprint(data.ID),
		Title:   data.Name,
		Section: sectionAnime,
	}
	if base != nil {
		item.Link = base.ResolveReference(&url.URL{Path: fmt.Sprintf("/anime/%d", data.ID)})
	}
	if data.Poster != "" {
		item.Poster = models.Poster{{URL: data.Poster}}
	}
	item.Details.TitleOrigin = data.OrigName
	item.Details.Description = data.Summary
	item.Details.Year = data.Year
	if data.Rating.Up > 0 || data.Rating.Down > 0 {
		item.Details.Rating = &models.UpDownRating{Up: data.Rating.Up, Down: data.Rating.Down}
	}
	if data.Episodes > 0 {
		status := models.Status{TotalEpisodes: data.Episodes, Type: models.StatusReleased}
		if data.Ongoing {
			status.Type = models.StatusOngoing
		}
		item.Details.Status = status
	}
	if len(data.Genres) > 0 {
		genres := models.TagsContainer{Title: "Genres"}
		for _, g := range data.Genres {
			genres.Tags = append(genres.Tags, models.NewTitledTag(Site, "genre", g))
		}
		item.Details.Tags = []models.TagsContainer{genres}
	}
	for _, link := range data.Links {
		item.SetLinkedID(models.NewSite(link.Site), link.ID)
	}
	return item
}
