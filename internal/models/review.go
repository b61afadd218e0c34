// This file defines reviews and the up/down rating snapshot attached to
// items and reviews.

package models

import "time"

// UpDownRating is an immutable vote-count snapshot. A vote round-trip
// produces a new snapshot; existing ones are never mutated.
type UpDownRating struct {
	Up        int  `json:"up"`
	Down      int  `json:"down"`
	UserVoted bool `json:"user_voted,omitempty"`
	UserVote  int  `json:"user_vote,omitempty"` // +1 or -1 when UserVoted
}

// Total returns the aggregate score.
func (r UpDownRating) Total() int {
	return r.Up - r.Down
}

// WithVote returns a new snapshot with the given vote applied.
func (r UpDownRating) WithVote(direction int) UpDownRating {
	next := r
	switch {
	case direction > 0:
		next.Up++
	case direction < 0:
		next.Down++
	}
	next.UserVoted = true
	next.UserVote = direction
	return next
}

// Review is a single user review of an item.
type Review struct {
	ID        string        `json:"id"`
	Site      Site          `json:"site"`
	ItemID    string        `json:"item_id"`
	Author    string        `json:"author"`
	Avatar    string        `json:"avatar,omitempty"`
	Text      string        `json:"text"`
	Date      time.Time     `json:"date,omitempty"`
	IsUserOwn bool          `json:"is_user_own,omitempty"`
	Rating    *UpDownRating `json:"rating,omitempty"`
}
