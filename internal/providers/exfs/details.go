// This file implements opening items from links and the idempotent
// item-preload strategies.

package exfs

import (
	"context"
	"fmt"
	"iter"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/fsclient/fsclient-go/internal/models"
	"github.com/fsclient/fsclient-go/internal/providers"
)

// CanOpenFromLink reports whether the link points at an ExFS item page
// on any known mirror.
func (p *Provider) CanOpenFromLink(link *url.URL) bool {
	if link == nil || idFromURL(link) == "" {
		return false
	}
	host := strings.TrimPrefix(link.Hostname(), "www.")
	return lo.ContainsBy(p.mirrors.Candidates(), func(m *url.URL) bool {
		return strings.TrimPrefix(m.Hostname(), "www.") == host
	})
}

// OpenFromLink builds an item from its page link and fully preloads it.
func (p *Provider) OpenFromLink(ctx context.Context, link *url.URL) (*models.ItemInfo, error) {
	if !p.CanOpenFromLink(link) {
		return nil, fmt.Errorf("exfs: link %q is not an item page", link)
	}
	item := &models.ItemInfo{
		Site:    Site,
		ID:      idFromURL(link),
		Link:    link,
		Section: sectionFromURL(link),
	}
	if err := p.PreloadItem(ctx, item, providers.PreloadFull); err != nil {
		return nil, err
	}
	return item, nil
}

// PreloadItem enriches the item in place. The poster strategy
// short-circuits without a network call when its fields are already
// populated; the full strategy always re-fetches and may overwrite.
func (p *Provider) PreloadItem(ctx context.Context, item *models.ItemInfo, strategy providers.PreloadStrategy) error {
	if item == nil || item.ID == "" {
		return fmt.Errorf("exfs: item with a site id is required")
	}

	if strategy == providers.PreloadPoster &&
		len(item.Poster) > 0 && item.Details.Quality != "" && item.Details.Rating != nil {
		return nil
	}

	base, err := p.Mirror(ctx)
	if err != nil {
		return err
	}

	link := item.Link
	if link == nil {
		section := item.Section.Name
		if section == "" {
			section = "films"
		}
		link = base.ResolveReference(&url.URL{Path: fmt.Sprintf("/%s/%s.html", section, item.ID)})
	}

	resp, err := p.client.NewRequest(link).WithSemaphore(p.sem).Do(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logrus.WithField("site", Site).Warnf("item %s preload failed: %v", item.ID, err)
		return nil
	}
	doc, err := resp.HTML()
	if err != nil {
		return nil
	}

	p.fillDetails(item, base, doc, strategy == providers.PreloadFull)
	return nil
}

// fillDetails merges parsed page data into the item. Unless force is
// set, populated fields keep their value and only gaps are filled.
func (p *Provider) fillDetails(item *models.ItemInfo, base *url.URL, doc *goquery.Document, force bool) {
	page := doc.Find(".fullstory").First()
	if page.Length() == 0 {
		page = doc.Selection
	}

	if title := strings.TrimSpace(page.Find("h1").First().Text()); title != "" && (force || item.Title == "") {
		item.Title = title
	}
	if src, ok := page.Find(".poster img").First().Attr("src"); ok && (force || len(item.Poster) == 0) {
		item.Poster = posterFromProxy(src)
	}
	if desc := strings.TrimSpace(page.Find(".description").First().Text()); desc != "" && (force || item.Details.Description == "") {
		item.Details.Description = desc
	}
	if origin := strings.TrimSpace(page.Find(".title-origin").First().Text()); origin != "" && (force || item.Details.TitleOrigin == "") {
		item.Details.TitleOrigin = origin
	}
	if quality := strings.TrimSpace(page.Find(".quality").First().Text()); quality != "" && (force || item.Details.Quality == "") {
		item.Details.Quality = quality
	}
	if year := parseYear(page.Find(".year").First().Text()); year > 0 && (force || item.Details.Year == 0) {
		item.Details.Year = year
	}

	if force || item.Details.Rating == nil {
		up, _ := strconv.Atoi(strings.TrimSpace(page.Find(".rating .up").First().Text()))
		down, _ := strconv.Atoi(strings.TrimSpace(page.Find(".rating .down").First().Text()))
		if up > 0 || down > 0 {
			item.Details.Rating = &models.UpDownRating{Up: up, Down: down}
		}
	}

	if force || item.Details.Status.IsZero() {
		if text := page.Find(".episodes-status").First().Text(); text != "" {
			item.Details.Status = parseEpisodeStatus(text)
		}
	}

	if force || len(item.Details.Tags) == 0 {
		var genres models.TagsContainer
		genres.Title = "Genres"
		page.Find(".genres a").Each(func(_ int, a *goquery.Selection) {
			href, _ := a.Attr("href")
			link, err := url.Parse(href)
			if err != nil {
				return
			}
			if tag, ok := tagFromLink(base.ResolveReference(link)); ok {
				tag.Title = strings.TrimSpace(a.Text())
				genres.Tags = append(genres.Tags, tag)
			}
		})
		if len(genres.Tags) > 0 {
			item.Details.Tags = []models.TagsContainer{genres}
		}
	}

	if force || len(item.Details.Similar) == 0 {
		if related := page.Find(".related"); related.Length() > 0 {
			item.Details.Similar = p.parseListing(base, related)
		}
	}

	if item.Section.Modifier.Has(models.SectionSerial) && item.Details.EpisodesCalendar == nil {
		item.Details.EpisodesCalendar = p.episodesCalendar(item)
	}
}

// episodesCalendar defers fetching the schedule table until someone
// actually enumerates it.
func (p *Provider) episodesCalendar(item *models.ItemInfo) models.EpisodesCalendarFunc {
	return func(ctx context.Context) iter.Seq[models.CalendarEpisode] {
		return func(yield func(models.CalendarEpisode) bool) {
			if item.Link == nil {
				return
			}
			resp, err := p.client.NewRequest(item.Link).WithSemaphore(p.sem).Do(ctx)
			if err != nil {
				return
			}
			doc, err := resp.HTML()
			if err != nil {
				return
			}
			doc.Find(".schedule tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
				episode, err := strconv.Atoi(strings.TrimSpace(row.Find(".num").First().Text()))
				if err != nil {
					return true
				}
				entry := models.CalendarEpisode{
					Episode: episode,
					Title:   strings.TrimSpace(row.Find(".name").First().Text()),
				}
				if season, err := strconv.Atoi(strings.TrimSpace(row.Find(".season").First().Text())); err == nil {
					entry.Season = season
				}
				if date, err := time.Parse("2006-01-02", strings.TrimSpace(row.Find(".date").First().Text())); err == nil {
					entry.DateTime = date
				}
				return yield(entry)
			})
		}
	}
}
