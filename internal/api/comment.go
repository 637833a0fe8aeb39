package api

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"fanfeed/internal/models"
)

// CommentsResponse is the flat wire shape for a post's comment thread: the
// author list and the comment list arrive side by side and are joined by
// the feed core during assembly.
type CommentsResponse struct {
	Users    []models.CommentAuthor `json:"users"`
	Comments []models.Comment       `json:"comments"`
}

// ListComments fetches the full comment thread for a post, replies nested
// under their parents.
func (c *Client) ListComments(ctx context.Context, postID int) (*CommentsResponse, error) {
	query := url.Values{}
	query.Set("content_id", strconv.Itoa(postID))

	var resp CommentsResponse
	if err := c.Get(ctx, "comment", "comment/list", query, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

type createCommentRequest struct {
	ContentID int    `json:"content_id"`
	Text      string `json:"text"`
	ReplyToID int    `json:"reply_to_id,omitempty"`
}

// CreateComment posts a new comment, or a reply when replyToID is non-zero.
// Text must already be validated; the client only trims it.
func (c *Client) CreateComment(ctx context.Context, postID int, text string, replyToID int) error {
	req := createCommentRequest{
		ContentID: postID,
		Text:      strings.TrimSpace(text),
		ReplyToID: replyToID,
	}
	return c.Post(ctx, "comment", "comment/create", req, nil)
}
