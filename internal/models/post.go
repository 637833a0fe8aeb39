// Package models contains data structures for the application's domain models.
package models

import "time"

// ContentType discriminates the media carried by a post.
type ContentType string

const (
	ContentTypeImage ContentType = "image"
	ContentTypeVideo ContentType = "video"
)

// CommentCountCap is the largest comment count kept on a post. Past it the
// UI shows a "999+" style affordance, so the counter stops incrementing.
const CommentCountCap = 999

// Post represents a single feed entry.
//
// The json-tagged fields come from the backend; the rest are session-only
// and derived at ingestion time or mutated by interaction operations.
type Post struct {
	ID            int         `json:"id"`
	Type          ContentType `json:"type"`
	MediaURL      string      `json:"media_url"`
	ThumbnailURL  string      `json:"thumbnail_url"`
	Description   string      `json:"description"`
	IsPaid        bool        `json:"is_paid"`
	LikesCount    int         `json:"likes_count"`
	IsLiked       bool        `json:"is_liked"`
	IsBookmarked  bool        `json:"is_bookmarked"`
	CommentsCount int         `json:"comments_count"`
	CreatedAt     time.Time   `json:"created_at"`

	// TimeAgo is computed once at normalization, not on every render.
	TimeAgo string `json:"-"`
	// Pinned marks a post placed out-of-band at the front of the feed by
	// deep-link resolution. Pagination never duplicates a pinned post.
	Pinned bool `json:"-"`

	Playing bool `json:"-"`
	Muted   bool `json:"-"`

	// CommentsLoaded guards the comment cache: while it is set, comment
	// loads are no-ops. Cleared only through State.InvalidateComments.
	CommentsLoaded bool                  `json:"-"`
	Comments       []*Comment            `json:"-"`
	CommentAuthors map[int]CommentAuthor `json:"-"`
}
