// This file provides the shared HTTP client used by every site
// adapter. The cookie jar is the sole persistence mechanism for
// authentication state, so the client owns it and exposes named-cookie
// access per mirror.

package network

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"golang.org/x/net/publicsuffix"
)

// Client wraps http.Client with a public-suffix-aware cookie jar and a
// transport tuned for concurrent scraping workloads.
type Client struct {
	http      *http.Client
	jar       http.CookieJar
	userAgent string
}

// New creates a client with the given overall request timeout.
func New(timeout time.Duration) *Client {
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	return &Client{
		http: &http.Client{
			Timeout:   timeout,
			Jar:       jar,
			Transport: newTransport(),
		},
		jar: jar,
	}
}

func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 100
	t.MaxConnsPerHost = 200
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	return t
}

// SetUserAgent overrides the agent string sent on every request.
func (c *Client) SetUserAgent(ua string) {
	c.userAgent = ua
}

// UserAgent returns the agent string in effect.
func (c *Client) UserAgent() string {
	if c.userAgent != "" {
		return c.userAgent
	}
	return DefaultUserAgent
}

// Cookie returns the named cookie stored for the mirror. The jar drops
// expired cookies on read, so a returned cookie is always live.
func (c *Client) Cookie(mirror *url.URL, name string) (*http.Cookie, bool) {
	for _, ck := range c.jar.Cookies(mirror) {
		if ck.Name == name {
			return ck, true
		}
	}
	return nil, false
}

// SetCookies stores cookies for the mirror.
func (c *Client) SetCookies(mirror *url.URL, cookies ...*http.Cookie) {
	c.jar.SetCookies(mirror, cookies)
}

// ClearCookies expires the named cookies on the mirror.
func (c *Client) ClearCookies(mirror *url.URL, names ...string) {
	expired := make([]*http.Cookie, 0, len(names))
	for _, name := range names {
		expired = append(expired, &http.Cookie{
			Name:    name,
			Value:   "",
			Path:    "/",
			MaxAge:  -1,
			Expires: time.Unix(0, 0),
		})
	}
	c.jar.SetCookies(mirror, expired)
}
