// This file defines the per-site authentication state surfaced by auth
// providers. There is no separate session-token store: a user exists
// only while the site's cookie set stays valid.

package models

// AuthModel selects how a site authenticates its users.
type AuthModel int

const (
	// AuthModelForm posts credentials to the site's login form.
	AuthModelForm AuthModel = iota
	// AuthModelOAuth drives an external OAuth dialog flow.
	AuthModelOAuth
)

// User is the authenticated identity on one site, derived purely from
// the cookie jar. Avatar may be empty when the site exposes none.
type User struct {
	Site     Site   `json:"site"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar,omitempty"`
	HasPro   bool   `json:"has_pro,omitempty"`
}

// LoginCredentials is the input of a form-model authorization.
type LoginCredentials struct {
	Login    string
	Password string
}

// AuthResult is the outcome of an authorization attempt.
type AuthResult struct {
	Outcome ProviderOutcome `json:"outcome"`
	User    *User           `json:"user,omitempty"`
	Reason  string          `json:"reason,omitempty"`
}
