// This file implements the user's site-side lists with a per-user
// in-memory cache. Mutations are optimistic for instant UI feedback,
// but roll back explicitly when the remote call fails.

package exfs

import (
	"context"
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/fsclient/fsclient-go/internal/models"
	"github.com/fsclient/fsclient-go/internal/providers"
)

var favActions = map[models.FavoriteListKind]string{
	models.FavKindFavorites: "fav",
	models.FavKindForLater:  "later",
	models.FavKindInProcess: "watch",
	models.FavKindFinished:  "done",
}

// Kinds lists the favorite lists ExFS exposes.
func (p *Provider) Kinds() []models.FavoriteListKind {
	return models.AllFavoriteKinds
}

// Items returns the cached list contents, fetching them on first
// access. The cache belongs to one (site, user) pair and is dropped
// whenever the active nickname changes.
func (p *Provider) Items(ctx context.Context, kind models.FavoriteListKind) ([]*models.ItemInfo, error) {
	user := p.User(ctx)
	if user == nil {
		return nil, providers.ErrNeedLogin
	}

	p.favMu.Lock()
	p.resetCacheIfUserChanged(user.Nickname)
	if cached, ok := p.favCache[kind]; ok {
		p.favMu.Unlock()
		return cached, nil
	}
	p.favMu.Unlock()

	items, err := p.fetchFavorites(ctx, kind)
	if err != nil {
		return nil, err
	}

	p.favMu.Lock()
	defer p.favMu.Unlock()
	p.resetCacheIfUserChanged(user.Nickname)
	p.favCache[kind] = items
	return items, nil
}

// Add optimistically inserts the item into the cached list, then fires
// the remote mutation; a failed round-trip reverts the cache.
func (p *Provider) Add(ctx context.Context, item *models.ItemInfo, kind models.FavoriteListKind) models.ProviderOutcome {
	return p.mutate(ctx, item, kind, true)
}

// Remove is the optimistic inverse of Add.
func (p *Provider) Remove(ctx context.Context, item *models.ItemInfo, kind models.FavoriteListKind) models.ProviderOutcome {
	return p.mutate(ctx, item, kind, false)
}

func (p *Provider) mutate(ctx context.Context, item *models.ItemInfo, kind models.FavoriteListKind, add bool) models.ProviderOutcome {
	if item == nil || item.ID == "" {
		return models.OutcomeFailed
	}
	action, ok := favActions[kind]
	if !ok {
		return models.OutcomeNotSupported
	}
	user := p.User(ctx)
	if user == nil {
		return models.OutcomeNeedLogin
	}

	// Optimistic cache update, snapshot kept for rollback.
	p.favMu.Lock()
	p.resetCacheIfUserChanged(user.Nickname)
	snapshot, hadList := p.favCache[kind]
	if hadList {
		if add {
			p.favCache[kind] = append(slices.Clone(snapshot), item)
		} else {
			p.favCache[kind] = slices.DeleteFunc(slices.Clone(snapshot), func(i *models.ItemInfo) bool {
				return i.ID == item.ID
			})
		}
	}
	p.favMu.Unlock()

	outcome := p.remoteMutate(ctx, item, action, add)
	if outcome != models.OutcomeSuccess && hadList {
		p.favMu.Lock()
		// Revert only if nobody swapped the cache under us (user
		// change resets it wholesale anyway).
		if p.favUser == user.Nickname {
			p.favCache[kind] = snapshot
		}
		p.favMu.Unlock()
		logrus.WithField("site", Site).Warnf("favorites %s rolled back for item %s", action, item.ID)
	}
	return outcome
}

func (p *Provider) remoteMutate(ctx context.Context, item *models.ItemInfo, action string, add bool) models.ProviderOutcome {
	base, err := p.Mirror(ctx)
	if err != nil {
		return models.OutcomeFailed
	}
	verb := "add"
	if !add {
		verb = "del"
	}
	resp, err := p.get(base, "/engine/ajax/favorites.php").
		WithAjax().
		WithForm("fav_id", item.ID).
		WithForm("list", action).
		WithForm("action", verb).
		Do(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return models.OutcomeCanceled
		}
		return models.OutcomeFailed
	}
	if !resp.OK() {
		return models.OutcomeFailed
	}
	return models.OutcomeSuccess
}

// resetCacheIfUserChanged must be called with favMu held.
func (p *Provider) resetCacheIfUserChanged(nickname string) {
	if p.favUser != nickname {
		p.favUser = nickname
		p.favCache = make(map[models.FavoriteListKind][]*models.ItemInfo)
	}
}

func (p *Provider) fetchFavorites(ctx context.Context, kind models.FavoriteListKind) ([]*models.ItemInfo, error) {
	base, err := p.Mirror(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := p.get(base, fmt.Sprintf("/user/lists/%s/", favActions[kind])).Do(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logrus.WithField("site", Site).Warnf("favorites fetch failed: %v", err)
		return nil, nil
	}
	doc, err := resp.HTML()
	if err != nil {
		return nil, nil
	}
	return p.parseListing(base, doc.Selection), nil
}
