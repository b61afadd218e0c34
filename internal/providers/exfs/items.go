// This file implements the ExFS listing side: home page, paginated
// section listings with the tag-diff filter emulation, and the filter
// dimensions a section supports.

package exfs

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/fsclient/fsclient-go/internal/models"
	"github.com/fsclient/fsclient-go/internal/pager"
	"github.com/fsclient/fsclient-go/internal/providers"
)

// HomePage fetches and parses the landing page blocks.
func (p *Provider) HomePage(ctx context.Context) (*providers.HomePage, error) {
	base, err := p.Mirror(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := p.get(base, "/").Do(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logrus.WithField("site", Site).Warnf("home page fetch failed: %v", err)
		return &providers.HomePage{Site: Site}, nil
	}
	doc, err := resp.HTML()
	if err != nil {
		return &providers.HomePage{Site: Site}, nil
	}

	home := &providers.HomePage{Site: Site}
	doc.Find(".home-block").Each(func(_ int, block *goquery.Selection) {
		title := strings.TrimSpace(block.Find(".block-title").First().Text())
		items := p.parseListing(base, block)
		if len(items) > 0 {
			home.Blocks = append(home.Blocks, providers.HomeBlock{Title: title, Items: items})
		}
	})
	return home, nil
}

// FullResult enumerates a filtered section listing. The filter session
// is scoped to this enumeration: changed tags are re-submitted as
// separate POSTs before each listing GET, matching the site's stateful
// server-side filters, and no state is shared across enumerations.
func (p *Provider) FullResult(filter providers.FetchFilter) *pager.Enumerator[*models.ItemInfo] {
	if filter.Query != "" {
		return p.searchResult(filter)
	}

	session := providers.NewFilterSession()
	tags := withYearTags(filter)
	maxPage := -1 // unknown until the first response is parsed

	fetch := func(ctx context.Context, page int) ([]*models.ItemInfo, bool, error) {
		base, err := p.Mirror(ctx)
		if err != nil {
			return nil, false, err
		}

		if err := p.applyTags(ctx, base, session.Diff(tags)); err != nil {
			return nil, false, err
		}

		path := p.listingPath(filter, page)
		req := p.get(base, path)
		if !filter.Sort.IsAny() {
			req.WithQuery("sort", filter.Sort.Value)
		}
		resp, err := req.Do(ctx)
		if err != nil {
			return nil, false, err
		}

		// A site that ran out of content redirects back to an earlier
		// page. A resolved URL that no longer matches the request means
		// the sequence is over, not that something failed.
		if !samePath(resp.ResolvedURL, base.ResolveReference(&url.URL{Path: path})) {
			return nil, false, nil
		}

		doc, err := resp.HTML()
		if err != nil {
			return nil, false, err
		}
		items := p.parseListing(base, doc.Selection)
		if maxPage < 0 {
			maxPage = lastPageNumber(doc)
		}
		return items, maxPage > 0 && page < maxPage, nil
	}
	return pager.New(fetch)
}

// SectionPageParams reports the filter dimensions ExFS supports for a
// section, parsed from the section page's filter panel.
func (p *Provider) SectionPageParams(ctx context.Context, section models.Section) (*providers.SectionPageParams, error) {
	base, err := p.Mirror(ctx)
	if err != nil {
		return nil, err
	}

	params := &providers.SectionPageParams{
		Section:  section,
		YearFrom: 1902,
		SortTypes: []models.TitledTag{
			models.NewTitledTag(Site, "sort", "date"),
			models.NewTitledTag(Site, "sort", "rating"),
			models.NewTitledTag(Site, "sort", "title"),
		},
	}

	resp, err := p.get(base, "/"+section.Name+"/").Do(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return params, nil
	}
	doc, err := resp.HTML()
	if err != nil {
		return params, nil
	}

	doc.Find(".filter select").Each(func(_ int, sel *goquery.Selection) {
		tagType, _ := sel.Attr("name")
		if tagType == "" {
			return
		}
		container := models.TagsContainer{Title: tagType}
		sel.Find("option").Each(func(_ int, opt *goquery.Selection) {
			value, _ := opt.Attr("value")
			if value == "" {
				return
			}
			container.Tags = append(container.Tags, models.TitledTag{
				Title: strings.TrimSpace(opt.Text()),
				Site:  Site,
				Type:  tagType,
				Value: value,
			})
		})
		if len(container.Tags) > 0 {
			params.Tags = append(params.Tags, container)
		}
	})

	if years := doc.Find(".filter [name=year_from]").First(); years.Length() > 0 {
		if v, ok := years.Attr("min"); ok {
			params.YearFrom, _ = strconv.Atoi(v)
		}
		if v, ok := years.Attr("max"); ok {
			params.YearTo, _ = strconv.Atoi(v)
		}
	}
	return params, nil
}

// withYearTags folds the filter's year bounds into the tag list, so the
// session diff submits them to the server-side filter like any other
// tag.
func withYearTags(filter providers.FetchFilter) []models.TitledTag {
	if filter.YearFrom <= 0 && filter.YearTo <= 0 {
		return filter.Tags
	}
	tags := make([]models.TitledTag, 0, len(filter.Tags)+2)
	tags = append(tags, filter.Tags...)
	if filter.YearFrom > 0 {
		tags = append(tags, models.NewTitledTag(Site, "year_from", strconv.Itoa(filter.YearFrom)))
	}
	if filter.YearTo > 0 {
		tags = append(tags, models.NewTitledTag(Site, "year_to", strconv.Itoa(filter.YearTo)))
	}
	return tags
}

// applyTags re-submits each changed tag as its own POST, the way the
// site's own filter panel does.
func (p *Provider) applyTags(ctx context.Context, base *url.URL, changed []models.TitledTag) error {
	for _, tag := range changed {
		_, err := p.get(base, "/engine/ajax/filter.php").
			WithAjax().
			WithForm("type", tag.Type).
			WithForm("value", tag.Value).
			Do(ctx)
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *Provider) listingPath(filter providers.FetchFilter, page int) string {
	section := filter.Section.Name
	if section == "" {
		section = "films"
	}
	if page <= 1 {
		return fmt.Sprintf("/%s/", section)
	}
	return fmt.Sprintf("/%s/page/%d/", section, page)
}

// parseListing extracts items from any selection holding shortstory
// blocks.
func (p *Provider) parseListing(base *url.URL, root *goquery.Selection) []*models.ItemInfo {
	var items []*models.ItemInfo
	root.Find(".shortstory").Each(func(_ int, story *goquery.Selection) {
		anchor := story.Find("a.title").First()
		href, _ := anchor.Attr("href")
		link, err := url.Parse(href)
		if err != nil || href == "" {
			return
		}
		link = base.ResolveReference(link)

		id := idFromURL(link)
		if id == "" {
			return
		}

		item := &models.ItemInfo{
			Site:    Site,
			ID:      id,
			Title:   strings.TrimSpace(anchor.Text()),
			Link:    link,
			Section: sectionFromURL(link),
		}
		if src, ok := story.Find("img").First().Attr("src"); ok {
			item.Poster = posterFromProxy(src)
		}
		if quality := strings.TrimSpace(story.Find(".quality").First().Text()); quality != "" {
			item.Details.Quality = quality
		}
		if year := parseYear(story.Find(".year").First().Text()); year > 0 {
			item.Details.Year = year
		}
		items = append(items, item)
	})
	return items
}

// lastPageNumber finds the highest page number in the pagination
// control, or 0 when the listing has no pagination at all.
func lastPageNumber(doc *goquery.Document) int {
	last := 0
	doc.Find(".navigation a, .navigation span").Each(func(_ int, s *goquery.Selection) {
		if n, err := strconv.Atoi(strings.TrimSpace(s.Text())); err == nil && n > last {
			last = n
		}
	})
	return last
}

// samePath compares resolved and requested URLs ignoring trailing
// slashes and query strings.
func samePath(resolved, requested *url.URL) bool {
	if resolved == nil || requested == nil {
		return false
	}
	trim := func(s string) string { return strings.TrimRight(s, "/") }
	return resolved.Host == requested.Host && trim(resolved.Path) == trim(requested.Path)
}
