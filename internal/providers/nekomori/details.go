// This file implements opening Nekomori items from links and the
// idempotent preload over the single-item API endpoint.

package nekomori

import (
	"context"
	"fmt"
	"iter"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/fsclient/fsclient-go/internal/models"
	"github.com/fsclient/fsclient-go/internal/providers"
)

var itemPathRe = regexp.MustCompile(`^/anime/(\d+)`)

// CanOpenFromLink reports whether the link is a Nekomori item page on a
// known mirror.
func (p *Provider) CanOpenFromLink(link *url.URL) bool {
	if link == nil || !itemPathRe.MatchString(link.Path) {
		return false
	}
	host := strings.TrimPrefix(link.Hostname(), "www.")
	return lo.ContainsBy(p.mirrors.Candidates(), func(m *url.URL) bool {
		return strings.TrimPrefix(m.Hostname(), "www.") == host
	})
}

// OpenFromLink builds and fully preloads the item behind a link.
func (p *Provider) OpenFromLink(ctx context.Context, link *url.URL) (*models.ItemInfo, error) {
	if !p.CanOpenFromLink(link) {
		return nil, fmt.Errorf("nekomori: link %q is not an item page", link)
	}
	m := itemPathRe.FindStringSubmatch(link.Path)
	item := &models.ItemInfo{Site: Site, ID: m[1], Link: link, Section: sectionAnime}
	if err := p.PreloadItem(ctx, item, providers.PreloadFull); err != nil {
		return nil, err
	}
	return item, nil
}

// PreloadItem enriches the item from the single-item endpoint. The
// poster strategy short-circuits when the cheap fields are populated;
// the full strategy always re-fetches.
func (p *Provider) PreloadItem(ctx context.Context, item *models.ItemInfo, strategy providers.PreloadStrategy) error {
	if item == nil || item.ID == "" {
		return fmt.Errorf("nekomori: item with a site id is required")
	}
	if strategy == providers.PreloadPoster && len(item.Poster) > 0 && item.Details.Rating != nil {
		return nil
	}

	base, err := p.Mirror(ctx)
	if err != nil {
		return err
	}
	resp, err := p.api(base, "/api/anime/%s", item.ID).Do(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logrus.WithField("site", Site).Warnf("item %s preload failed: %v", item.ID, err)
		return nil
	}
	var data animeData
	if err := resp.JSON(&data); err != nil {
		return nil
	}

	fresh := toItem(base, data)
	merge(item, fresh, strategy == providers.PreloadFull)
	if item.Details.Status.Type == models.StatusOngoing && item.Details.EpisodesCalendar == nil {
		item.Details.EpisodesCalendar = p.episodesCalendar(item.ID)
	}
	return nil
}

// episodesCalendar defers fetching the air schedule until someone
// actually enumerates it. Entries the feed cannot date are still
// yielded with a zero time.
func (p *Provider) episodesCalendar(itemID string) models.EpisodesCalendarFunc {
	return func(ctx context.Context) iter.Seq[models.CalendarEpisode] {
		return func(yield func(models.CalendarEpisode) bool) {
			base, err := p.Mirror(ctx)
			if err != nil {
				return
			}
			resp, err := p.api(base, "/api/anime/%s/schedule", itemID).Do(ctx)
			if err != nil {
				return
			}
			var schedule []scheduleData
			if err := resp.JSON(&schedule); err != nil {
				return
			}
			for _, s := range schedule {
				entry := models.CalendarEpisode{Episode: s.Number, Title: s.Name}
				if at, err := time.Parse(time.RFC3339, s.AirsAt); err == nil {
					entry.DateTime = at
				}
				if !yield(entry) {
					return
				}
			}
		}
	}
}

// merge copies fresh fields into item. Without force only gaps are
// filled, so repeated preloads never downgrade existing data.
func merge(item, fresh *models.ItemInfo, force bool) {
	if force || item.Title == "" {
		item.Title = fresh.Title
	}
	if force || item.Link == nil {
		item.Link = fresh.Link
	}
	if force || len(item.Poster) == 0 {
		item.Poster = fresh.Poster
	}
	if force || item.Details.TitleOrigin == "" {
		item.Details.TitleOrigin = fresh.Details.TitleOrigin
	}
	if force || item.Details.Description == "" {
		item.Details.Description = fresh.Details.Description
	}
	if force || item.Details.Year == 0 {
		item.Details.Year = fresh.Details.Year
	}
	if force || item.Details.Rating == nil {
		item.Details.Rating = fresh.Details.Rating
	}
	if force || item.Details.Status.IsZero() {
		item.Details.Status = fresh.Details.Status
	}
	if force || len(item.Details.Tags) == 0 {
		item.Details.Tags = fresh.Details.Tags
	}
	for site, id := range fresh.Details.LinkedIDs {
		if _, ok := item.LinkedID(site); force || !ok {
			item.SetLinkedID(site, id)
		}
	}
}
