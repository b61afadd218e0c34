// This file builds the lazy episode playlist. No video URL is resolved
// while the tree is constructed; each file defers to a factory that
// fetches the episode's translation list at playback time. A shared
// immutable preference record carries the user's translation choice
// across episodes, so picking a fan-sub group once makes later
// episodes prefer the same group automatically, without reaching into
// sibling nodes.

package nekomori

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/fsclient/fsclient-go/internal/models"
)

// TranslationPref is the immutable record of a chosen translation
// identity. Matching is fuzzy by design: an exact author match beats a
// player match, which beats a kind match.
type TranslationPref struct {
	Author string
	Kind   string
	Player string
}

// matchScore ranks a translation against the preference.
func (pref TranslationPref) matchScore(t translationData) int {
	score := 0
	if pref.Author != "" && strings.EqualFold(pref.Author, t.Author) {
		score += 4
	}
	if pref.Player != "" && strings.EqualFold(pref.Player, t.Player) {
		score += 2
	}
	if pref.Kind != "" && strings.EqualFold(pref.Kind, t.Kind) {
		score += 1
	}
	return score
}

// playlistEntry ties a file back to its episode and the playlist-wide
// preference slot. itemID keys eviction when the item's root is
// rebuilt.
type playlistEntry struct {
	itemID    string
	episodeID int
	pref      *atomic.Pointer[TranslationPref]
}

// ItemRoot builds one file per episode. All files share one playlist
// slice and one preference slot; none of them has resolved videos yet.
func (p *Provider) ItemRoot(ctx context.Context, item *models.ItemInfo) (*models.Folder, error) {
	if item == nil || item.ID == "" {
		return nil, fmt.Errorf("nekomori: item with a site id is required")
	}
	base, err := p.Mirror(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := p.api(base, "/api/anime/%s/episodes", item.ID).Do(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return &models.Folder{ID: item.ID, Title: item.Title}, nil
	}
	var episodes []episodeData
	if err := resp.JSON(&episodes); err != nil {
		return &models.Folder{ID: item.ID, Title: item.Title}, nil
	}
	sort.SliceStable(episodes, func(i, j int) bool {
		return episodes[i].Number < episodes[j].Number
	})

	root := &models.Folder{ID: item.ID, Title: item.Title, Behavior: models.PositionAverage}
	pref := &atomic.Pointer[TranslationPref]{}

	files := make([]*models.File, 0, len(episodes))
	p.plMu.Lock()
	// A rebuilt root supersedes the previous playlist of this item;
	// stale entries would otherwise pile up for the process lifetime.
	for id, entry := range p.playlistRef {
		if entry.itemID == item.ID {
			delete(p.playlistRef, id)
		}
	}
	for _, ep := range episodes {
		title := ep.Name
		if title == "" {
			title = fmt.Sprintf("Episode %d", ep.Number)
		}
		file := &models.File{
			ID:      fmt.Sprintf("%s-e%d", item.ID, ep.Number),
			Title:   title,
			Episode: ep.Number,
		}
		entry := &playlistEntry{itemID: item.ID, episodeID: ep.ID, pref: pref}
		p.playlistRef[file.ID] = entry

		file.SetVideosFactory(p.episodeFactory(entry))
		files = append(files, file)
	}
	p.plMu.Unlock()

	for _, f := range files {
		f.Playlist = files
		root.Add(f)
	}
	return root, nil
}

// TorrentsRoot is not a Nekomori capability.
func (p *Provider) TorrentsRoot(ctx context.Context, item *models.ItemInfo) (*models.Folder, error) {
	return nil, nil
}

// TrailersRoot is not a Nekomori capability.
func (p *Provider) TrailersRoot(ctx context.Context, item *models.ItemInfo) (*models.Folder, error) {
	return nil, nil
}

// FolderChildren returns the already-materialized children; Nekomori
// playlists are flat and built in one shot.
func (p *Provider) FolderChildren(ctx context.Context, folder *models.Folder) ([]models.TreeNode, error) {
	if folder == nil {
		return nil, fmt.Errorf("nekomori: folder is required")
	}
	return folder.Children(), nil
}

// episodeFactory resolves an episode at playback time: fetch its
// translations, keep only the ones whose player host we can open,
// order bluray-first, then let the current preference record promote
// its best match to the top. The winning translation is published back
// to the preference slot, which is what propagates a user's choice to
// the episodes resolved after it.
func (p *Provider) episodeFactory(entry *playlistEntry) models.VideosFactory {
	return func(ctx context.Context) ([]models.Video, error) {
		translations, err := p.fetchTranslations(ctx, entry.episodeID)
		if err != nil {
			return nil, err
		}
		best, ok := pickTranslation(translations, entry.pref.Load(), p.player.CanOpen)
		if !ok {
			return nil, nil
		}

		entry.pref.Store(&TranslationPref{Author: best.Author, Kind: best.Kind, Player: best.Player})

		videos, err := p.resolveFrame(ctx, best.Link)
		if err != nil {
			return nil, err
		}
		return videos, nil
	}
}

// SelectTranslation resolves a file with an explicitly chosen
// translation and publishes that choice as the playlist preference.
func (p *Provider) SelectTranslation(ctx context.Context, file *models.File, translationID int) ([]models.Video, error) {
	if file == nil {
		return nil, fmt.Errorf("nekomori: file is required")
	}
	p.plMu.Lock()
	entry, ok := p.playlistRef[file.ID]
	p.plMu.Unlock()
	if !ok {
		return nil, fmt.Errorf("nekomori: file %q does not belong to a playlist", file.ID)
	}

	translations, err := p.fetchTranslations(ctx, entry.episodeID)
	if err != nil {
		return nil, err
	}
	for _, t := range translations {
		if t.ID == translationID {
			entry.pref.Store(&TranslationPref{Author: t.Author, Kind: t.Kind, Player: t.Player})
			return p.resolveFrame(ctx, t.Link)
		}
	}
	return nil, nil
}

// Translations lists an episode's openable translations in the order
// pick resolution would consider them.
func (p *Provider) Translations(ctx context.Context, file *models.File) ([]Translation, error) {
	if file == nil {
		return nil, fmt.Errorf("nekomori: file is required")
	}
	p.plMu.Lock()
	entry, ok := p.playlistRef[file.ID]
	p.plMu.Unlock()
	if !ok {
		return nil, fmt.Errorf("nekomori: file %q does not belong to a playlist", file.ID)
	}

	raw, err := p.fetchTranslations(ctx, entry.episodeID)
	if err != nil {
		return nil, err
	}
	ordered := orderTranslations(raw, entry.pref.Load(), p.player.CanOpen)
	out := make([]Translation, 0, len(ordered))
	for _, t := range ordered {
		out = append(out, Translation{
			ID: t.ID, Author: t.Author, Kind: t.Kind,
			Lang: t.Lang, Player: t.Player, BluRay: t.BluRay,
		})
	}
	return out, nil
}

// Translation is the caller-facing view of a translated source.
type Translation struct {
	ID     int    `json:"id"`
	Author string `json:"author"`
	Kind   string `json:"kind"`
	Lang   string `json:"lang"`
	Player string `json:"player"`
	BluRay bool   `json:"bluray"`
}

// pickTranslation returns the top translation after preference-aware
// ordering, or ok=false when nothing is openable.
func pickTranslation(all []translationData, pref *TranslationPref, canOpen func(string) bool) (translationData, bool) {
	ordered := orderTranslations(all, pref, canOpen)
	if len(ordered) == 0 {
		return translationData{}, false
	}
	return ordered[0], true
}

// orderTranslations filters to openable players and sorts bluray-first;
// when a preference exists its match score dominates, so the best match
// lands at index 0 and the bluray ordering decides ties.
func orderTranslations(all []translationData, pref *TranslationPref, canOpen func(string) bool) []translationData {
	var usable []translationData
	for _, t := range all {
		if host := playerHost(t.Link); host != "" && canOpen(host) {
			usable = append(usable, t)
		}
	}
	sort.SliceStable(usable, func(i, j int) bool {
		return usable[i].BluRay && !usable[j].BluRay
	})
	if pref != nil {
		sort.SliceStable(usable, func(i, j int) bool {
			return pref.matchScore(usable[i]) > pref.matchScore(usable[j])
		})
	}
	return usable
}
