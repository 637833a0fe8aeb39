package models

import "time"

// User is the viewer identity supplied by the auth collaborator. The feed
// core treats it as read-only input and never re-validates it.
type User struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	AvatarURL  string    `json:"avatar_url"`
	Subscribed bool      `json:"subscribed"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreatorProfile describes the creator whose content the feed shows.
type CreatorProfile struct {
	ID          int    `json:"id"`
	DisplayName string `json:"display_name"`
	Bio         string `json:"bio"`
	AvatarURL   string `json:"avatar_url"`
	BannerURL   string `json:"banner_url"`
	PostsCount  int    `json:"posts_count"`
}
