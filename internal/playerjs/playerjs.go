// Package playerjs resolves player frame pages into playable stream
// URLs. Many hosts ship their playlist inside a packed
// eval(function(p,a,c,k,e,d)...) script; the packed payload is
// evaluated in an embedded JS VM and the stream URLs are pulled out of
// the unpacked source.

package playerjs

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/dop251/goja"
	"github.com/sirupsen/logrus"

	"github.com/fsclient/fsclient-go/internal/models"
	"github.com/fsclient/fsclient-go/internal/network"
)

var (
	packedRe  = regexp.MustCompile(`(?s)eval(\(function\(p,a,c,k,e,(?:d|r)\).*?\)\))\s*(?:;|</script>|$)`)
	streamRe  = regexp.MustCompile(`(?:"|')?(?:file|src|url)(?:"|')?\s*[:=]\s*(?:"|')(https?://[^"']+?\.(?:m3u8|mp4|webm)[^"']*)(?:"|')`)
	qualityRe = regexp.MustCompile(`(\d{3,4})p?[/._]`)
)

// Resolver fetches frame pages and extracts streams. Only hosts in its
// allow set are considered openable; everything else yields no sources.
type Resolver struct {
	client *network.Client
	hosts  map[string]bool
}

// NewResolver creates a resolver able to open frames on the given
// hosts.
func NewResolver(client *network.Client, hosts ...string) *Resolver {
	set := make(map[string]bool, len(hosts))
	for _, h := range hosts {
		set[strings.TrimPrefix(strings.ToLower(h), "www.")] = true
	}
	return &Resolver{client: client, hosts: set}
}

// CanOpen reports whether the frame host is one this resolver can
// parse.
func (r *Resolver) CanOpen(host string) bool {
	return r.hosts[strings.TrimPrefix(strings.ToLower(host), "www.")]
}

// Resolve fetches the frame page and extracts its streams. An empty
// result is normal ("no sources"); only transport-level problems and
// cancellation surface as errors.
func (r *Resolver) Resolve(ctx context.Context, frame *url.URL) ([]models.Video, error) {
	if frame == nil || !r.CanOpen(frame.Hostname()) {
		return nil, nil
	}
	resp, err := r.client.NewRequest(frame).Do(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logrus.WithField("frame", frame.String()).Debugf("frame fetch failed: %v", err)
		return nil, nil
	}
	return ExtractStreams(resp.Text(), frame), nil
}

// ExtractStreams pulls stream URLs out of a frame page, unpacking any
// packed script blocks first. The frame URL (optional) sets the Referer
// header required by most hosts.
func ExtractStreams(page string, frame *url.URL) []models.Video {
	source := page
	for _, m := range packedRe.FindAllStringSubmatch(page, -1) {
		if unpacked, err := Unpack(m[1]); err == nil {
			source += "\n" + unpacked
		}
	}

	seen := make(map[string]bool)
	var videos []models.Video
	for _, m := range streamRe.FindAllStringSubmatch(source, -1) {
		streamURL := m[1]
		if seen[streamURL] {
			continue
		}
		seen[streamURL] = true

		video := models.Video{URL: streamURL}
		if q := qualityRe.FindStringSubmatch(streamURL); q != nil {
			video.Quality = q[1] + "p"
		}
		if frame != nil {
			video.Headers = map[string]string{"Referer": frame.String()}
		}
		videos = append(videos, video)
	}
	return videos
}

// Unpack evaluates a packed p,a,c,k,e,d expression and returns the
// unpacked source it decodes to.
func Unpack(packed string) (string, error) {
	vm := goja.New()
	value, err := vm.RunString(packed)
	if err != nil {
		return "", err
	}
	return value.String(), nil
}
