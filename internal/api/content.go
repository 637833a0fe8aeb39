package api

import (
	"context"
	"net/url"
	"strconv"

	"fanfeed/internal/models"
)

// Endpoint pairs per page variant. Subscribed viewers hit the premium
// listing; everyone else gets the free/teaser listing.
const (
	feedPremiumPath = "content/feed"
	feedFreePath    = "content/feed/free"

	libraryPremiumPath = "content/library"
	libraryFreePath    = "content/library/free"
)

// ListContentParams selects a page of posts.
type ListContentParams struct {
	Page     int
	PageSize int
	// Premium selects the subscribed endpoint of the variant's pair.
	Premium bool
	Variant models.FeedVariant
	Filter  models.FeedFilter
}

type listContentResponse struct {
	Posts []models.Post `json:"posts"`
}

// ListContent fetches one page of posts for the variant/subscription
// combination. An empty slice with a nil error means the listing is
// exhausted.
func (c *Client) ListContent(ctx context.Context, p ListContentParams) ([]models.Post, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(p.Page))
	query.Set("page_size", strconv.Itoa(p.PageSize))
	if p.Filter != "" && p.Filter != models.FilterAll {
		query.Set("filter", string(p.Filter))
	}

	var resp listContentResponse
	if err := c.Get(ctx, "content", contentPath(p.Variant, p.Premium), query, &resp); err != nil {
		return nil, err
	}
	return resp.Posts, nil
}

func contentPath(variant models.FeedVariant, premium bool) string {
	if variant == models.VariantProfile {
		if premium {
			return libraryPremiumPath
		}
		return libraryFreePath
	}
	if premium {
		return feedPremiumPath
	}
	return feedFreePath
}
