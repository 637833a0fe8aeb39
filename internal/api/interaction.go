package api

import "context"

type toggleRequest struct {
	ContentID int `json:"content_id"`
}

type commentToggleRequest struct {
	CommentID int `json:"comment_id"`
}

// ToggleLike flips the viewer's like on a post. The server owns the
// authoritative flag; the caller applies the change optimistically.
func (c *Client) ToggleLike(ctx context.Context, postID int) error {
	return c.Post(ctx, "interaction", "interaction/like", toggleRequest{ContentID: postID}, nil)
}

// ToggleBookmark flips the viewer's bookmark on a post.
func (c *Client) ToggleBookmark(ctx context.Context, postID int) error {
	return c.Post(ctx, "interaction", "interaction/bookmark", toggleRequest{ContentID: postID}, nil)
}

// ToggleCommentLike flips the viewer's like on a comment or reply.
func (c *Client) ToggleCommentLike(ctx context.Context, commentID int) error {
	return c.Post(ctx, "interaction", "interaction/comment-like", commentToggleRequest{CommentID: commentID}, nil)
}
