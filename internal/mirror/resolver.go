// This file implements per-site mirror failover: probe the configured
// candidate base URLs once, cache the first responsive one and hand it
// to every adapter of the site.

package mirror

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/fsclient/fsclient-go/internal/models"
	"github.com/fsclient/fsclient-go/internal/network"
)

// ErrNoMirror is returned when no configured mirror responds.
var ErrNoMirror = errors.New("mirror: no responsive mirror")

// Resolver resolves and caches the working mirror of one site.
// Concurrent first calls share a single probe via singleflight; after
// that, Get returns the cached value until Invalidate.
type Resolver struct {
	site       models.Site
	client     *network.Client
	candidates []*url.URL
	healthPath string

	mu     sync.RWMutex
	cached *url.URL
	group  singleflight.Group
}

// New creates a resolver for the site. healthPath is an optional
// relative path probed on each candidate; an empty path probes the
// root.
func New(site models.Site, client *network.Client, candidates []*url.URL, healthPath string) *Resolver {
	return &Resolver{
		site:       site,
		client:     client,
		candidates: candidates,
		healthPath: healthPath,
	}
}

// Site returns the site this resolver serves.
func (r *Resolver) Site() models.Site {
	return r.site
}

// Candidates returns the configured mirror list in priority order. The
// slice is owned by the resolver and must not be mutated.
func (r *Resolver) Candidates() []*url.URL {
	return r.candidates
}

// Get returns the working mirror, probing candidates on the first call
// (or the first call after Invalidate). At most one probe is in flight
// per resolver; concurrent callers await the same resolution.
func (r *Resolver) Get(ctx context.Context) (*url.URL, error) {
	r.mu.RLock()
	cached := r.cached
	r.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	v, err, _ := r.group.Do("probe", func() (any, error) {
		// A racing caller may have completed the probe already.
		r.mu.RLock()
		cached := r.cached
		r.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}

		found, err := r.probe(ctx)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.cached = found
		r.mu.Unlock()
		return found, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*url.URL), nil
}

// Invalidate drops the cached mirror so the next Get probes again.
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	r.cached = nil
	r.mu.Unlock()
}

// probe checks candidates in priority order and returns the first one
// answering the health check with a non-server-error status.
func (r *Resolver) probe(ctx context.Context) (*url.URL, error) {
	for _, candidate := range r.candidates {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		target := *candidate
		if r.healthPath != "" {
			ref, err := url.Parse(r.healthPath)
			if err != nil {
				continue
			}
			target = *candidate.ResolveReference(ref)
		}

		resp, err := r.client.NewRequest(&target).
			WithMethod(http.MethodHead).
			Do(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logrus.WithField("site", r.site).WithField("mirror", candidate.String()).
				Debugf("mirror probe failed: %v", err)
			continue
		}
		if resp.StatusCode >= 500 {
			continue
		}

		logrus.WithField("site", r.site).Infof("resolved mirror: %s", candidate)
		return candidate, nil
	}
	return nil, ErrNoMirror
}
