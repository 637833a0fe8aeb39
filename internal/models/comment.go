package models

import "time"

// Comment is a top-level comment on a post. Replies nest exactly one level
// below a comment; a reply never carries further replies.
type Comment struct {
	ID         int       `json:"id"`
	AuthorID   int       `json:"author_id"`
	Text       string    `json:"text"`
	IsLiked    bool      `json:"is_liked"`
	LikesCount int       `json:"likes_count"`
	CreatedAt  time.Time `json:"created_at"`
	Replies    []*Reply  `json:"replies,omitempty"`

	TimeAgo string `json:"-"`
	// RepliesExpanded is UI state: whether the reply list is unfolded.
	RepliesExpanded bool `json:"-"`
}

// Reply is a restricted child of Comment: same shape minus nesting state.
type Reply struct {
	ID         int       `json:"id"`
	AuthorID   int       `json:"author_id"`
	Text       string    `json:"text"`
	IsLiked    bool      `json:"is_liked"`
	LikesCount int       `json:"likes_count"`
	CreatedAt  time.Time `json:"created_at"`

	TimeAgo string `json:"-"`
}

// CommentAuthor is the per-post lookup value for rendering a comment's
// author. Rebuilt wholesale on every comment load; never shared across posts.
type CommentAuthor struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}
