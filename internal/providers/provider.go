// This file defines the contract every website connector must satisfy.
// Sites implement capability subsets; the registry records which
// capabilities a site declares so callers query flags instead of doing
// type assertions.

package providers

import (
	"context"
	"net/url"

	"github.com/fsclient/fsclient-go/internal/models"
	"github.com/fsclient/fsclient-go/internal/pager"
)

// PreloadStrategy selects how much of an item to enrich.
type PreloadStrategy int

const (
	// PreloadPoster fetches the cheap part: poster, rating, quality.
	// Already-populated fields short-circuit without a network call.
	PreloadPoster PreloadStrategy = iota
	// PreloadFull forces a complete re-fetch of the item page.
	PreloadFull
)

// HomeBlock is one titled group of items on a site's landing page.
type HomeBlock struct {
	Title string             `json:"title"`
	Items []*models.ItemInfo `json:"items"`
}

// HomePage is the parsed landing page of a site.
type HomePage struct {
	Site   models.Site `json:"site"`
	Blocks []HomeBlock `json:"blocks"`
}

// SectionPageParams declares which filter dimensions a site supports
// for one content section.
type SectionPageParams struct {
	Section   models.Section         `json:"section"`
	YearFrom  int                    `json:"year_from,omitempty"`
	YearTo    int                    `json:"year_to,omitempty"`
	Tags      []models.TagsContainer `json:"tags,omitempty"`
	SortTypes []models.TitledTag     `json:"sort_types,omitempty"`
}

// SiteProvider is the base shared by every adapter of one site.
type SiteProvider interface {
	Site() models.Site
	Name() string
	// Mirror resolves the working base URL for the site.
	Mirror(ctx context.Context) (*url.URL, error)
}

// ItemProvider serves paginated section listings.
type ItemProvider interface {
	HomePage(ctx context.Context) (*HomePage, error)
	// FullResult enumerates the filtered listing lazily, page by page.
	FullResult(filter FetchFilter) *pager.Enumerator[*models.ItemInfo]
	SectionPageParams(ctx context.Context, section models.Section) (*SectionPageParams, error)
}

// SearchProvider serves quick and full search.
type SearchProvider interface {
	// ShortResult is the single-page quick search used for
	// autocomplete.
	ShortResult(ctx context.Context, query string, section models.Section) ([]*models.ItemInfo, error)
	// FullResult enumerates the full search lazily.
	FullResult(filter FetchFilter) *pager.Enumerator[*models.ItemInfo]
	// FindSimilar looks up candidates on this site matching an item
	// that lives on a different site, for cross-site id linking.
	FindSimilar(ctx context.Context, foreign *models.ItemInfo) ([]*models.ItemInfo, error)
}

// ItemInfoProvider opens and enriches single items.
type ItemInfoProvider interface {
	CanOpenFromLink(link *url.URL) bool
	OpenFromLink(ctx context.Context, link *url.URL) (*models.ItemInfo, error)
	// PreloadItem enriches the item in place. It is idempotent: gaps
	// are filled, populated fields are never downgraded, and only
	// PreloadFull forces a re-fetch.
	PreloadItem(ctx context.Context, item *models.ItemInfo, strategy PreloadStrategy) error
}

// AuthProvider manages the per-site authentication state held in the
// cookie jar.
type AuthProvider interface {
	AuthModels() []models.AuthModel
	// User derives the logged-in user purely from the cookie jar and
	// returns nil when the required cookie set is not intact.
	User(ctx context.Context) *models.User
	Authorize(ctx context.Context, model models.AuthModel, creds models.LoginCredentials) models.AuthResult
	Logout(ctx context.Context) error
}

// FavoriteProvider maintains the user's site-side lists with a local
// per-(site, user) cache.
type FavoriteProvider interface {
	Kinds() []models.FavoriteListKind
	Items(ctx context.Context, kind models.FavoriteListKind) ([]*models.ItemInfo, error)
	Add(ctx context.Context, item *models.ItemInfo, kind models.FavoriteListKind) models.ProviderOutcome
	Remove(ctx context.Context, item *models.ItemInfo, kind models.FavoriteListKind) models.ProviderOutcome
}

// FileProvider materializes playable-content trees lazily.
type FileProvider interface {
	// ItemRoot returns the playlist root for the item. File videos
	// inside it stay unresolved until playback is requested.
	ItemRoot(ctx context.Context, item *models.ItemInfo) (*models.Folder, error)
	TorrentsRoot(ctx context.Context, item *models.ItemInfo) (*models.Folder, error)
	TrailersRoot(ctx context.Context, item *models.ItemInfo) (*models.Folder, error)
	// FolderChildren loads children of a folder that was produced
	// with deferred content.
	FolderChildren(ctx context.Context, folder *models.Folder) ([]models.TreeNode, error)
}

// ReviewProvider serves reviews and vote round-trips. Vote operations
// require an authenticated user and report recoverable conditions as
// outcomes, never as errors.
type ReviewProvider interface {
	Reviews(item *models.ItemInfo) *pager.Enumerator[*models.Review]
	SendReview(ctx context.Context, item *models.ItemInfo, text string) models.ProviderOutcome
	VoteReview(ctx context.Context, review *models.Review, direction int) (*models.UpDownRating, models.ProviderOutcome)
	VoteItem(ctx context.Context, item *models.ItemInfo, direction int) (*models.UpDownRating, models.ProviderOutcome)
}
