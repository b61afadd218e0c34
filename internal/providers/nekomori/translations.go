package nekomori

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fsclient/fsclient-go/internal/models"
)

// fetchTranslations lists the translated sources of an episode.
func (p *Provider) fetchTranslations(ctx context.Context, episodeID int) ([]translationData, error) {
	base, err := p.Mirror(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := p.api(base, "/api/episodes/%d/translations", episodeID).Do(ctx)
	if err != nil {
		return nil, err
	}
	var translations []translationData
	if err := resp.JSON(&translations); err != nil {
		return nil, fmt.Errorf("nekomori: decode translations of episode %d: %w", episodeID, err)
	}
	return translations, nil
}

// resolveFrame turns a translation's frame link into playable streams.
// A frame the player cannot parse yields no videos rather than an
// error.
func (p *Provider) resolveFrame(ctx context.Context, link string) ([]models.Video, error) {
	frame, err := url.Parse(link)
	if err != nil {
		return nil, nil
	}
	return p.player.Resolve(ctx, frame)
}

// playerHost extracts the host of a frame link, or "" when the link is
// not an absolute URL.
func playerHost(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Hostname()
}
