// This file implements ExFS reviews and votes. Votes need a logged-in
// user; expected conditions (no login, unsupported direction) come back
// as outcomes, never as errors.

package exfs

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/fsclient/fsclient-go/internal/models"
	"github.com/fsclient/fsclient-go/internal/pager"
)

// Reviews enumerates an item's comments lazily, page by page.
func (p *Provider) Reviews(item *models.ItemInfo) *pager.Enumerator[*models.Review] {
	fetch := func(ctx context.Context, page int) ([]*models.Review, bool, error) {
		if item == nil || item.Link == nil {
			return nil, false, fmt.Errorf("exfs: item with a link is required")
		}
		req := p.client.NewRequest(item.Link).WithSemaphore(p.sem)
		if page > 1 {
			req.WithQuery("cstart", fmt.Sprint(page))
		}
		resp, err := req.Do(ctx)
		if err != nil {
			return nil, false, err
		}
		doc, err := resp.HTML()
		if err != nil {
			return nil, false, err
		}

		user := p.User(ctx)
		var reviews []*models.Review
		doc.Find(".comment").Each(func(_ int, c *goquery.Selection) {
			id, _ := c.Attr("data-id")
			if id == "" {
				return
			}
			review := &models.Review{
				ID:     id,
				Site:   Site,
				ItemID: item.ID,
				Author: strings.TrimSpace(c.Find(".author").First().Text()),
				Text:   strings.TrimSpace(c.Find(".text").First().Text()),
			}
			if user != nil && review.Author == user.Nickname {
				review.IsUserOwn = true
			}
			if avatar, ok := c.Find(".avatar img").First().Attr("src"); ok {
				review.Avatar = avatar
			}
			if date, err := time.Parse("2006-01-02 15:04", strings.TrimSpace(c.Find(".date").First().Text())); err == nil {
				review.Date = date
			}
			up, _ := strconv.Atoi(strings.TrimSpace(c.Find(".rate .up").First().Text()))
			down, _ := strconv.Atoi(strings.TrimSpace(c.Find(".rate .down").First().Text()))
			if up > 0 || down > 0 {
				review.Rating = &models.UpDownRating{Up: up, Down: down}
			}
			reviews = append(reviews, review)
		})

		last := lastPageNumber(doc)
		return reviews, last > 0 && page < last, nil
	}
	return pager.New(fetch)
}

// SendReview posts a comment on the item.
func (p *Provider) SendReview(ctx context.Context, item *models.ItemInfo, text string) models.ProviderOutcome {
	if item == nil || item.ID == "" || strings.TrimSpace(text) == "" {
		return models.OutcomeFailed
	}
	if p.User(ctx) == nil {
		return models.OutcomeNeedLogin
	}
	base, err := p.Mirror(ctx)
	if err != nil {
		return models.OutcomeFailed
	}

	resp, err := p.get(base, "/engine/ajax/addcomments.php").
		WithAjax().
		WithForm("post_id", item.ID).
		WithForm("comments", text).
		Do(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return models.OutcomeCanceled
		}
		return models.OutcomeFailed
	}
	if !resp.OK() {
		return models.OutcomeFailed
	}
	return models.OutcomeSuccess
}

// VoteReview applies an up/down vote to a comment and returns the new
// rating snapshot on success.
func (p *Provider) VoteReview(ctx context.Context, review *models.Review, direction int) (*models.UpDownRating, models.ProviderOutcome) {
	if review == nil || review.ID == "" || direction == 0 {
		return nil, models.OutcomeFailed
	}
	if p.User(ctx) == nil {
		return nil, models.OutcomeNeedLogin
	}
	base, err := p.Mirror(ctx)
	if err != nil {
		return nil, models.OutcomeFailed
	}

	verb := "like"
	if direction < 0 {
		verb = "dislike"
	}
	resp, err := p.get(base, "/engine/ajax/comment_rate.php").
		WithAjax().
		WithForm("comment_id", review.ID).
		WithForm("action", verb).
		Do(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, models.OutcomeCanceled
		}
		return nil, models.OutcomeFailed
	}
	if !resp.OK() {
		return nil, models.OutcomeFailed
	}

	var next models.UpDownRating
	if review.Rating != nil {
		next = review.Rating.WithVote(direction)
	} else {
		next = models.UpDownRating{}.WithVote(direction)
	}
	return &next, models.OutcomeSuccess
}

// VoteItem votes an item up. The site's rating endpoint cannot express
// a negative vote, so a down direction is NotSupported.
func (p *Provider) VoteItem(ctx context.Context, item *models.ItemInfo, direction int) (*models.UpDownRating, models.ProviderOutcome) {
	if item == nil || item.ID == "" || direction == 0 {
		return nil, models.OutcomeFailed
	}
	if direction < 0 {
		return nil, models.OutcomeNotSupported
	}
	if p.User(ctx) == nil {
		return nil, models.OutcomeNeedLogin
	}
	base, err := p.Mirror(ctx)
	if err != nil {
		return nil, models.OutcomeFailed
	}

	resp, err := p.get(base, "/engine/ajax/rating.php").
		WithAjax().
		WithQuery("news_id", item.ID).
		WithQuery("go_rate", "1").
		Do(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, models.OutcomeCanceled
		}
		return nil, models.OutcomeFailed
	}
	if !resp.OK() {
		return nil, models.OutcomeFailed
	}

	var next models.UpDownRating
	if item.Details.Rating != nil {
		next = item.Details.Rating.WithVote(direction)
	} else {
		next = models.UpDownRating{}.WithVote(direction)
	}
	item.Details.Rating = &next
	return &next, models.OutcomeSuccess
}
