package api

import (
	"context"

	"fanfeed/internal/models"
)

// GetProfile fetches the viewer's own profile.
func (c *Client) GetProfile(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.Get(ctx, "profile", "profile/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetCreatorProfile fetches the creator profile the feed belongs to.
func (c *Client) GetCreatorProfile(ctx context.Context) (*models.CreatorProfile, error) {
	var profile models.CreatorProfile
	if err := c.Get(ctx, "profile", "profile/creator", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}
