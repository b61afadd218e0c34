// Handlers for the user's site-side favorite lists.

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fsclient/fsclient-go/internal/models"
	"github.com/fsclient/fsclient-go/internal/providers"
)

func (s *Server) favoriteProvider(w http.ResponseWriter, r *http.Request) (*providers.ProviderSet, models.FavoriteListKind, bool) {
	set, ok := s.providerSet(w, r)
	if !ok {
		return nil, "", false
	}
	if set.Favorites == nil {
		RespondWithError(w, http.StatusNotImplemented, "Provider has no favorite lists")
		return nil, "", false
	}
	kind := models.FavoriteListKind(chi.URLParam(r, "kind"))
	for _, known := range set.Favorites.Kinds() {
		if known == kind {
			return set, kind, true
		}
	}
	RespondWithError(w, http.StatusNotFound, "Unknown favorite list")
	return nil, "", false
}

func (s *Server) handleFavoriteKinds(w http.ResponseWriter, r *http.Request) {
	set, ok := s.providerSet(w, r)
	if !ok {
		return
	}
	if set.Favorites == nil {
		RespondWithError(w, http.StatusNotImplemented, "Provider has no favorite lists")
		return
	}
	RespondWithJSON(w, http.StatusOK, set.Favorites.Kinds())
}

func (s *Server) handleFavoriteItems(w http.ResponseWriter, r *http.Request) {
	set, kind, ok := s.favoriteProvider(w, r)
	if !ok {
		return
	}
	items, err := set.Favorites.Items(r.Context(), kind)
	if err != nil {
		if errors.Is(err, providers.ErrNeedLogin) {
			RespondWithError(w, http.StatusUnauthorized, "Not logged in")
			return
		}
		RespondWithError(w, http.StatusBadGateway, "Failed to load favorites")
		return
	}
	RespondWithJSON(w, http.StatusOK, items)
}

func (s *Server) handleFavoriteAdd(w http.ResponseWriter, r *http.Request) {
	set, kind, ok := s.favoriteProvider(w, r)
	if !ok {
		return
	}
	item := &models.ItemInfo{
		Site:  set.Site,
		ID:    r.URL.Query().Get("item"),
		Title: r.URL.Query().Get("title"),
	}
	if item.ID == "" {
		RespondWithError(w, http.StatusBadRequest, "Missing query parameter 'item'")
		return
	}
	outcome := set.Favorites.Add(r.Context(), item, kind)
	RespondWithOutcome(w, outcome, nil)
}

func (s *Server) handleFavoriteRemove(w http.ResponseWriter, r *http.Request) {
	set, kind, ok := s.favoriteProvider(w, r)
	if !ok {
		return
	}
	item := &models.ItemInfo{
		Site: set.Site,
		ID:   r.URL.Query().Get("item"),
	}
	if item.ID == "" {
		RespondWithError(w, http.StatusBadRequest, "Missing query parameter 'item'")
		return
	}
	outcome := set.Favorites.Remove(r.Context(), item, kind)
	RespondWithOutcome(w, outcome, nil)
}
