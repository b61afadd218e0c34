// This file defines the airing status snapshot attached to serial
// content.

package models

import "fmt"

// StatusType describes where a serial currently stands.
type StatusType string

const (
	StatusUnknown  StatusType = "unknown"
	StatusOngoing  StatusType = "ongoing"
	StatusCanceled StatusType = "canceled"
	StatusReleased StatusType = "released"
	StatusPaused   StatusType = "paused"
)

// Status is an immutable snapshot of episode/season counters. Updates
// replace the whole value, never mutate it.
type Status struct {
	CurrentEpisode int        `json:"current_episode,omitempty"`
	TotalEpisodes  int        `json:"total_episodes,omitempty"`
	CurrentSeason  int        `json:"current_season,omitempty"`
	TotalSeasons   int        `json:"total_seasons,omitempty"`
	Type           StatusType `json:"type"`
}

// IsZero reports whether no counter and no type has been set.
func (s Status) IsZero() bool {
	return s == Status{} || s == Status{Type: StatusUnknown}
}

func (s Status) String() string {
	if s.TotalEpisodes > 0 {
		return fmt.Sprintf("%d of %d", s.CurrentEpisode, s.TotalEpisodes)
	}
	if s.CurrentEpisode > 0 {
		return fmt.Sprintf("episode %d", s.CurrentEpisode)
	}
	return string(s.Type)
}
