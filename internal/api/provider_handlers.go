// A handler file for all provider-related API endpoints.

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fsclient/fsclient-go/internal/models"
	"github.com/fsclient/fsclient-go/internal/providers"
)

// defaultItemLimit bounds listing responses when the client does not
// ask for a specific count.
const defaultItemLimit = 40

var capabilityNames = []struct {
	cap  providers.Capability
	name string
}{
	{providers.CapItems, "items"},
	{providers.CapSearch, "search"},
	{providers.CapItemInfo, "item_info"},
	{providers.CapAuth, "auth"},
	{providers.CapFavorites, "favorites"},
	{providers.CapFiles, "files"},
	{providers.CapReviews, "reviews"},
}

func capabilityList(c providers.Capability) []string {
	var names []string
	for _, entry := range capabilityNames {
		if c.Has(entry.cap) {
			names = append(names, entry.name)
		}
	}
	return names
}

func (s *Server) handleListProviders(w http.ResponseWriter, r *http.Request) {
	type providerInfo struct {
		Site         string   `json:"site"`
		Name         string   `json:"name"`
		Capabilities []string `json:"capabilities"`
	}
	var list []providerInfo
	for _, set := range providers.All() {
		list = append(list, providerInfo{
			Site:         set.Site.ID(),
			Name:         set.Name,
			Capabilities: capabilityList(set.Capabilities()),
		})
	}
	RespondWithJSON(w, http.StatusOK, list)
}

// providerSet resolves the {site} URL parameter to a registered set,
// writing the error response itself when the site is unknown.
func (s *Server) providerSet(w http.ResponseWriter, r *http.Request) (*providers.ProviderSet, bool) {
	siteID := chi.URLParam(r, "site")
	set, ok := providers.Get(models.NewSite(siteID))
	if !ok {
		RespondWithError(w, http.StatusNotFound, "Provider not found")
		return nil, false
	}
	return set, true
}

// itemFromRequest builds the minimal item identity the provider
// operations accept: site id plus optional section and page link.
func itemFromRequest(r *http.Request, set *providers.ProviderSet) *models.ItemInfo {
	item := &models.ItemInfo{
		Site: set.Site,
		ID:   chi.URLParam(r, "itemID"),
	}
	if name := r.URL.Query().Get("section"); name != "" {
		item.Section = models.Section{Name: name}
	}
	if raw := r.URL.Query().Get("link"); raw != "" {
		if link, err := url.Parse(raw); err == nil {
			item.Link = link
		}
	}
	return item
}

func queryLimit(r *http.Request) int {
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return defaultItemLimit
}

func (s *Server) handleHomePage(w http.ResponseWriter, r *http.Request) {
	set, ok := s.providerSet(w, r)
	if !ok {
		return
	}
	if set.Items == nil {
		RespondWithError(w, http.StatusNotImplemented, "Provider does not serve listings")
		return
	}
	page, err := set.Items.HomePage(r.Context())
	if err != nil {
		RespondWithError(w, http.StatusBadGateway, "Failed to load home page")
		return
	}
	RespondWithJSON(w, http.StatusOK, page)
}

func (s *Server) handleShortSearch(w http.ResponseWriter, r *http.Request) {
	set, ok := s.providerSet(w, r)
	if !ok {
		return
	}
	if set.Search == nil {
		RespondWithError(w, http.StatusNotImplemented, "Provider does not support search")
		return
	}
	query := r.URL.Query().Get("q")
	if query == "" {
		RespondWithError(w, http.StatusBadRequest, "Missing query parameter 'q'")
		return
	}
	section := models.SectionAny
	if name := r.URL.Query().Get("section"); name != "" {
		section = models.Section{Name: name}
	}
	results, err := set.Search.ShortResult(r.Context(), query, section)
	if err != nil {
		RespondWithError(w, http.StatusBadGateway, "Failed to perform search")
		return
	}
	RespondWithJSON(w, http.StatusOK, results)
}

// handleListItems enumerates a filtered listing (or full search when
// 'q' is present) up to the requested item count.
func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	set, ok := s.providerSet(w, r)
	if !ok {
		return
	}
	if set.Items == nil {
		RespondWithError(w, http.StatusNotImplemented, "Provider does not serve listings")
		return
	}

	q := r.URL.Query()
	filter := providers.FetchFilter{Query: q.Get("q")}
	if name := q.Get("section"); name != "" {
		filter.Section = models.Section{Name: name}
	}
	if year, err := strconv.Atoi(q.Get("year_from")); err == nil {
		filter.YearFrom = year
	}
	if year, err := strconv.Atoi(q.Get("year_to")); err == nil {
		filter.YearTo = year
	}
	for tagType, values := range q {
		if len(tagType) > 4 && tagType[:4] == "tag_" {
			for _, v := range values {
				filter.Tags = append(filter.Tags, models.TitledTag{
					Site: set.Site, Type: tagType[4:], Value: v, Title: v,
				})
			}
		}
	}

	enum := set.Items.FullResult(filter)
	first, err := enum.Next(r.Context())
	if err != nil {
		RespondWithError(w, http.StatusBadGateway, "Failed to enumerate listing")
		return
	}
	limit := queryLimit(r)
	items := first
	if len(items) < limit {
		items = append(items, enum.Collect(r.Context(), limit-len(items))...)
	} else {
		items = items[:limit]
	}
	RespondWithJSON(w, http.StatusOK, items)
}

func (s *Server) handleSectionParams(w http.ResponseWriter, r *http.Request) {
	set, ok := s.providerSet(w, r)
	if !ok {
		return
	}
	if set.Items == nil {
		RespondWithError(w, http.StatusNotImplemented, "Provider does not serve listings")
		return
	}
	section := models.Section{Name: chi.URLParam(r, "section")}
	params, err := set.Items.SectionPageParams(r.Context(), section)
	if err != nil {
		RespondWithError(w, http.StatusBadGateway, "Failed to load section parameters")
		return
	}
	RespondWithJSON(w, http.StatusOK, params)
}

func (s *Server) handleOpenFromLink(w http.ResponseWriter, r *http.Request) {
	set, ok := s.providerSet(w, r)
	if !ok {
		return
	}
	if set.ItemInfo == nil {
		RespondWithError(w, http.StatusNotImplemented, "Provider does not open links")
		return
	}
	var payload struct {
		Link string `json:"link"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Link == "" {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	link, err := url.Parse(payload.Link)
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid link")
		return
	}
	if !set.ItemInfo.CanOpenFromLink(link) {
		RespondWithError(w, http.StatusUnprocessableEntity, "Link does not point at an item page")
		return
	}
	item, err := set.ItemInfo.OpenFromLink(r.Context(), link)
	if err != nil {
		RespondWithError(w, http.StatusBadGateway, "Failed to open item")
		return
	}
	RespondWithJSON(w, http.StatusOK, item)
}

func (s *Server) handlePreloadItem(w http.ResponseWriter, r *http.Request) {
	set, ok := s.providerSet(w, r)
	if !ok {
		return
	}
	if set.ItemInfo == nil {
		RespondWithError(w, http.StatusNotImplemented, "Provider does not preload items")
		return
	}
	item := itemFromRequest(r, set)
	strategy := providers.PreloadPoster
	if r.URL.Query().Get("full") == "true" {
		strategy = providers.PreloadFull
	}
	if err := set.ItemInfo.PreloadItem(r.Context(), item, strategy); err != nil {
		RespondWithError(w, http.StatusBadGateway, "Failed to preload item")
		return
	}
	RespondWithJSON(w, http.StatusOK, item)
}

// nodeJSON is the serialized form of a content-tree node. Video URLs
// are absent: they resolve lazily at playback time, not at tree
// browsing time.
type nodeJSON struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Season   int        `json:"season,omitempty"`
	Episode  int        `json:"episode,omitempty"`
	Folder   bool       `json:"folder,omitempty"`
	Children []nodeJSON `json:"children,omitempty"`
}

func treeToJSON(node models.TreeNode) nodeJSON {
	switch n := node.(type) {
	case *models.Folder:
		out := nodeJSON{ID: n.ID, Title: n.Title, Season: n.Season, Folder: true}
		for _, child := range n.Children() {
			out.Children = append(out.Children, treeToJSON(child))
		}
		return out
	case *models.File:
		return nodeJSON{ID: n.ID, Title: n.Title, Season: n.Season, Episode: n.Episode}
	}
	return nodeJSON{}
}

type rootFunc func(ctx context.Context, item *models.ItemInfo) (*models.Folder, error)

func (s *Server) respondTree(w http.ResponseWriter, r *http.Request, set *providers.ProviderSet, root rootFunc) {
	folder, err := root(r.Context(), itemFromRequest(r, set))
	if err != nil {
		RespondWithError(w, http.StatusBadGateway, "Failed to build content tree")
		return
	}
	if folder == nil {
		RespondWithError(w, http.StatusNotImplemented, "Provider does not serve this tree")
		return
	}
	RespondWithJSON(w, http.StatusOK, treeToJSON(folder))
}

func (s *Server) handleItemFiles(w http.ResponseWriter, r *http.Request) {
	set, ok := s.providerSet(w, r)
	if !ok {
		return
	}
	if set.Files == nil {
		RespondWithError(w, http.StatusNotImplemented, "Provider does not serve files")
		return
	}
	s.respondTree(w, r, set, set.Files.ItemRoot)
}

func (s *Server) handleItemTorrents(w http.ResponseWriter, r *http.Request) {
	set, ok := s.providerSet(w, r)
	if !ok {
		return
	}
	if set.Files == nil {
		RespondWithError(w, http.StatusNotImplemented, "Provider does not serve files")
		return
	}
	s.respondTree(w, r, set, set.Files.TorrentsRoot)
}

func (s *Server) handleItemTrailers(w http.ResponseWriter, r *http.Request) {
	set, ok := s.providerSet(w, r)
	if !ok {
		return
	}
	if set.Files == nil {
		RespondWithError(w, http.StatusNotImplemented, "Provider does not serve files")
		return
	}
	s.respondTree(w, r, set, set.Files.TrailersRoot)
}

func (s *Server) handleItemReviews(w http.ResponseWriter, r *http.Request) {
	set, ok := s.providerSet(w, r)
	if !ok {
		return
	}
	if set.Reviews == nil {
		RespondWithError(w, http.StatusNotImplemented, "Provider does not serve reviews")
		return
	}
	item := itemFromRequest(r, set)
	enum := set.Reviews.Reviews(item)
	first, err := enum.Next(r.Context())
	if err != nil {
		RespondWithError(w, http.StatusBadGateway, "Failed to enumerate reviews")
		return
	}
	limit := queryLimit(r)
	reviews := first
	if len(reviews) < limit {
		reviews = append(reviews, enum.Collect(r.Context(), limit-len(reviews))...)
	} else {
		reviews = reviews[:limit]
	}
	RespondWithJSON(w, http.StatusOK, reviews)
}

func (s *Server) handleSendReview(w http.ResponseWriter, r *http.Request) {
	set, ok := s.providerSet(w, r)
	if !ok {
		return
	}
	if set.Reviews == nil {
		RespondWithError(w, http.StatusNotImplemented, "Provider does not serve reviews")
		return
	}
	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Text == "" {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	outcome := set.Reviews.SendReview(r.Context(), itemFromRequest(r, set), payload.Text)
	RespondWithOutcome(w, outcome, nil)
}

func (s *Server) handleVoteItem(w http.ResponseWriter, r *http.Request) {
	set, ok := s.providerSet(w, r)
	if !ok {
		return
	}
	if set.Reviews == nil {
		RespondWithError(w, http.StatusNotImplemented, "Provider does not serve votes")
		return
	}
	var payload struct {
		Direction int `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Direction == 0 {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	rating, outcome := set.Reviews.VoteItem(r.Context(), itemFromRequest(r, set), payload.Direction)
	RespondWithOutcome(w, outcome, rating)
}
