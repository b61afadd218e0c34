// This file holds the DTOs of the Nekomori JSON API. The wire format
// belongs to the site, not to us; parsing is defensive and optional
// fields simply stay zero.

package nekomori

// animePage is one page of the catalog or search feed.
type animePage struct {
	Items []animeData `json:"items"`
	Page  int         `json:"page"`
	Pages int         `json:"pages"`
}

// animeData is a single catalog entry.
type animeData struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	OrigName string   `json:"origName"`
	Summary  string   `json:"summary"`
	Poster   string   `json:"poster"`
	Year     int      `json:"year"`
	Episodes int      `json:"episodes"`
	Ongoing  bool     `json:"ongoing"`
	Genres   []string `json:"genres"`
	Rating   struct {
		Up   int `json:"up"`
		Down int `json:"down"`
	} `json:"rating"`
	Links []struct {
		Site string `json:"site"`
		ID   string `json:"id"`
	} `json:"links"`
}

// episodeData is one episode of a series.
type episodeData struct {
	ID     int    `json:"id"`
	Number int    `json:"number"`
	Name   string `json:"name"`
}

// scheduleData is one planned episode of an ongoing series.
type scheduleData struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
	AirsAt string `json:"airsAt"` // RFC 3339
}

// translationData is one translated source of an episode.
type translationData struct {
	ID     int    `json:"id"`
	Link   string `json:"link"`
	Kind   string `json:"kind"` // voice / sub / raw
	Lang   string `json:"lang"`
	Author string `json:"author"`
	Player string `json:"player"` // hosting player, e.g. kodik
	BluRay bool   `json:"bluray"`
}
