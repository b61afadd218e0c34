// This file implements the fluent request builder used by the site
// adapters: method, query/body args, headers, AJAX marker and
// rate-limiter composition over the shared client.

package network

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultUserAgent is sent when no explicit agent is configured.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// Request is a single outgoing request under construction. Builder
// methods mutate and return the same value for chaining.
type Request struct {
	client  *Client
	method  string
	url     *url.URL
	query   url.Values
	form    url.Values
	headers http.Header
	timeout time.Duration
	sem     *TimeSpanSemaphore
}

// NewRequest starts building a GET request against the given URL.
func (c *Client) NewRequest(u *url.URL) *Request {
	return &Request{
		client:  c,
		method:  http.MethodGet,
		url:     u,
		query:   url.Values{},
		form:    url.Values{},
		headers: http.Header{},
	}
}

// WithMethod overrides the HTTP method.
func (r *Request) WithMethod(method string) *Request {
	r.method = method
	return r
}

// WithQuery adds a query-string argument.
func (r *Request) WithQuery(key, value string) *Request {
	r.query.Add(key, value)
	return r
}

// WithForm adds a form-urlencoded body argument and implies POST when
// the method was not set explicitly.
func (r *Request) WithForm(key, value string) *Request {
	r.form.Add(key, value)
	return r
}

// WithHeader sets a request header.
func (r *Request) WithHeader(key, value string) *Request {
	r.headers.Set(key, value)
	return r
}

// WithAjax marks the request with the header set sites use to detect
// their own asynchronous calls.
func (r *Request) WithAjax() *Request {
	r.headers.Set("X-Requested-With", "XMLHttpRequest")
	r.headers.Set("Accept", "application/json, text/javascript, */*; q=0.01")
	return r
}

// WithTimeout bounds this request tighter than the client default.
func (r *Request) WithTimeout(d time.Duration) *Request {
	r.timeout = d
	return r
}

// WithSemaphore routes the dispatch through the site's rate limiter.
func (r *Request) WithSemaphore(sem *TimeSpanSemaphore) *Request {
	r.sem = sem
	return r
}

// Response is a fully-read response. ResolvedURL is the final URL after
// redirects, which the pagination protocol compares against the
// requested one.
type Response struct {
	StatusCode  int
	ResolvedURL *url.URL
	Header      http.Header
	body        []byte
}

// Do dispatches the request. Rate-limiter slots are released only after
// the body has been read, so the window measures whole requests.
func (r *Request) Do(ctx context.Context) (*Response, error) {
	if r.sem != nil {
		if err := r.sem.Acquire(ctx); err != nil {
			return nil, err
		}
		defer r.sem.Release()
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	u := *r.url
	if len(r.query) > 0 {
		q := u.Query()
		for key, values := range r.query {
			for _, v := range values {
				q.Add(key, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	var body io.Reader
	if len(r.form) > 0 {
		if r.method == http.MethodGet {
			r.method = http.MethodPost
		}
		body = strings.NewReader(r.form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if len(r.form) > 0 {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("User-Agent", r.client.UserAgent())
	for key, values := range r.headers {
		req.Header[key] = values
	}

	resp, err := r.client.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		ResolvedURL: resp.Request.URL,
		Header:      resp.Header,
		body:        data,
	}, nil
}

// OK reports whether the response status is in the 2xx range.
func (resp *Response) OK() bool {
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// HTML parses the body as an HTML document.
func (resp *Response) HTML() (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(bytes.NewReader(resp.body))
}

// JSON decodes the body into v.
func (resp *Response) JSON(v any) error {
	return json.Unmarshal(resp.body, v)
}

// Text returns the body as a string.
func (resp *Response) Text() string {
	return string(resp.body)
}
