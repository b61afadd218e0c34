// This file defines the favorite-list kinds a site may expose.

package models

// FavoriteListKind identifies one of a site's user lists.
type FavoriteListKind string

const (
	FavKindFavorites FavoriteListKind = "favorites"
	FavKindForLater  FavoriteListKind = "for_later"
	FavKindInProcess FavoriteListKind = "in_process"
	FavKindFinished  FavoriteListKind = "finished"
)

// AllFavoriteKinds lists every kind in display order.
var AllFavoriteKinds = []FavoriteListKind{
	FavKindFavorites, FavKindForLater, FavKindInProcess, FavKindFinished,
}
