// This file implements Nekomori catalog listings, search and cross-site
// similar-item lookup over the JSON feed.

package nekomori

import (
	"context"
	"fmt"
	"sort"
	"strings"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sirupsen/logrus"

	"github.com/fsclient/fsclient-go/internal/models"
	"github.com/fsclient/fsclient-go/internal/pager"
	"github.com/fsclient/fsclient-go/internal/providers"
)

// HomePage surfaces the first page of the ongoing feed as a single
// block.
func (p *Provider) HomePage(ctx context.Context) (*providers.HomePage, error) {
	items, _, err := p.fetchFeed(ctx, providers.FetchFilter{}, 1)
	if err != nil {
		return &providers.HomePage{Site: Site}, nil
	}
	home := &providers.HomePage{Site: Site}
	if len(items) > 0 {
		home.Blocks = []providers.HomeBlock{{Title: "Ongoing", Items: items}}
	}
	return home, nil
}

// FullResult enumerates the catalog (or search when the filter carries
// a query). The page bound comes from the feed itself.
func (p *Provider) FullResult(filter providers.FetchFilter) *pager.Enumerator[*models.ItemInfo] {
	fetch := func(ctx context.Context, page int) ([]*models.ItemInfo, bool, error) {
		items, pages, err := p.fetchFeed(ctx, filter, page)
		if err != nil {
			return nil, false, err
		}
		return items, page < pages, nil
	}
	return pager.New(fetch)
}

// SectionPageParams declares the anime catalog's filter dimensions.
func (p *Provider) SectionPageParams(ctx context.Context, _ models.Section) (*providers.SectionPageParams, error) {
	return &providers.SectionPageParams{
		Section:  sectionAnime,
		YearFrom: 1963,
		SortTypes: []models.TitledTag{
			models.NewTitledTag(Site, "sort", "popularity"),
			models.NewTitledTag(Site, "sort", "year"),
		},
	}, nil
}

// ShortResult runs a single-page search for autocomplete.
func (p *Provider) ShortResult(ctx context.Context, query string, _ models.Section) ([]*models.ItemInfo, error) {
	items, _, err := p.fetchFeed(ctx, providers.FetchFilter{Query: query}, 1)
	return items, err
}

// FindSimilar matches a foreign item against the search feed, ranked by
// title distance against both the localized and the original title.
func (p *Provider) FindSimilar(ctx context.Context, foreign *models.ItemInfo) ([]*models.ItemInfo, error) {
	if foreign == nil || foreign.Title == "" {
		return nil, fmt.Errorf("nekomori: foreign item with a title is required")
	}
	candidates, err := p.ShortResult(ctx, foreign.Title, models.SectionAny)
	if err != nil {
		return nil, err
	}

	wanted := strings.ToLower(strings.TrimSpace(foreign.Title))
	distance := func(item *models.ItemInfo) int {
		d := levenshtein.Distance(wanted, strings.ToLower(item.Title))
		if item.Details.TitleOrigin != "" {
			if od := levenshtein.Distance(wanted, strings.ToLower(item.Details.TitleOrigin)); od < d {
				d = od
			}
		}
		return d
	}

	var matched []*models.ItemInfo
	for _, c := range candidates {
		if fuzzy.MatchNormalizedFold(wanted, strings.ToLower(c.Title)) ||
			fuzzy.MatchNormalizedFold(wanted, strings.ToLower(c.Details.TitleOrigin)) {
			matched = append(matched, c)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return distance(matched[i]) < distance(matched[j])
	})
	return matched, nil
}

// fetchFeed loads one page of the catalog/search feed.
func (p *Provider) fetchFeed(ctx context.Context, filter providers.FetchFilter, page int) ([]*models.ItemInfo, int, error) {
	base, err := p.Mirror(ctx)
	if err != nil {
		return nil, 0, err
	}

	req := p.api(base, "/api/anime").WithQuery("page", fmt.Sprint(page))
	if filter.Query != "" {
		req.WithQuery("q", filter.Query)
	}
	for _, tag := range filter.Tags {
		if !tag.IsAny() {
			req.WithQuery(tag.Type, tag.Value)
		}
	}
	if filter.YearFrom > 0 {
		req.WithQuery("year_from", fmt.Sprint(filter.YearFrom))
	}
	if filter.YearTo > 0 {
		req.WithQuery("year_to", fmt.Sprint(filter.YearTo))
	}

	resp, err := req.Do(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, 0, ctx.Err()
		}
		logrus.WithField("site", Site).Warnf("feed fetch failed: %v", err)
		return nil, 0, err
	}
	var feed animePage
	if err := resp.JSON(&feed); err != nil {
		return nil, 0, err
	}

	items := make([]*models.ItemInfo, 0, len(feed.Items))
	for _, data := range feed.Items {
		items = append(items, toItem(base, data))
	}
	return items, feed.Pages, nil
}
