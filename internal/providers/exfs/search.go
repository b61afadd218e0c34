// This file implements ExFS search: the AJAX quick search, the
// paginated full search, and cross-site similar-item lookup.

package exfs

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sirupsen/logrus"

	"github.com/fsclient/fsclient-go/internal/models"
	"github.com/fsclient/fsclient-go/internal/pager"
	"github.com/fsclient/fsclient-go/internal/providers"
)

// ShortResult runs the single-page AJAX quick search the site uses for
// its own autocomplete.
func (p *Provider) ShortResult(ctx context.Context, query string, section models.Section) ([]*models.ItemInfo, error) {
	base, err := p.Mirror(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := p.get(base, "/engine/ajax/search.php").
		WithAjax().
		WithForm("query", query).
		Do(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logrus.WithField("site", Site).Warnf("quick search failed: %v", err)
		return nil, nil
	}
	doc, err := resp.HTML()
	if err != nil {
		return nil, nil
	}

	items := p.parseListing(base, doc.Selection)
	if !section.IsAny() {
		filtered := items[:0]
		for _, item := range items {
			if item.Section.Name == section.Name {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}
	return items, nil
}

// searchResult enumerates the site's paginated search results. It is
// reached through FullResult when the filter carries a query.
func (p *Provider) searchResult(filter providers.FetchFilter) *pager.Enumerator[*models.ItemInfo] {
	fetch := func(ctx context.Context, page int) ([]*models.ItemInfo, bool, error) {
		base, err := p.Mirror(ctx)
		if err != nil {
			return nil, false, err
		}

		req := p.get(base, "/index.php").
			WithQuery("do", "search").
			WithQuery("subaction", "search").
			WithQuery("story", filter.Query).
			WithQuery("search_start", fmt.Sprint(page))
		if filter.YearFrom > 0 {
			req.WithQuery("year_from", fmt.Sprint(filter.YearFrom))
		}
		if filter.YearTo > 0 {
			req.WithQuery("year_to", fmt.Sprint(filter.YearTo))
		}
		resp, err := req.Do(ctx)
		if err != nil {
			return nil, false, err
		}

		// Out-of-range search pages redirect like listings do; a
		// resolved URL off the search endpoint ends the sequence.
		if !samePath(resp.ResolvedURL, base.ResolveReference(&url.URL{Path: "/index.php"})) {
			return nil, false, nil
		}

		doc, err := resp.HTML()
		if err != nil {
			return nil, false, err
		}

		items := p.parseListing(base, doc.Selection)
		last := lastPageNumber(doc)
		return items, last > 0 && page < last, nil
	}
	return pager.New(fetch)
}

// FindSimilar searches this site for candidates matching an item from a
// different site. Candidates are filtered fuzzily and ranked by edit
// distance, closest first.
func (p *Provider) FindSimilar(ctx context.Context, foreign *models.ItemInfo) ([]*models.ItemInfo, error) {
	if foreign == nil || foreign.Title == "" {
		return nil, fmt.Errorf("exfs: foreign item with a title is required")
	}

	candidates, err := p.ShortResult(ctx, foreign.Title, models.SectionAny)
	if err != nil {
		return nil, err
	}

	wanted := normalizeTitle(foreign.Title)
	var matched []*models.ItemInfo
	for _, c := range candidates {
		if fuzzy.MatchNormalizedFold(wanted, normalizeTitle(c.Title)) ||
			fuzzy.MatchNormalizedFold(normalizeTitle(c.Title), wanted) {
			matched = append(matched, c)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		di := levenshtein.Distance(wanted, normalizeTitle(matched[i].Title))
		dj := levenshtein.Distance(wanted, normalizeTitle(matched[j].Title))
		return di < dj
	})
	return matched, nil
}

func normalizeTitle(title string) string {
	title = strings.ToLower(strings.TrimSpace(title))
	if idx := strings.IndexAny(title, "(["); idx > 0 {
		title = strings.TrimSpace(title[:idx])
	}
	return title
}
