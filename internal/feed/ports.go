package feed

import (
	"context"
	"time"

	"fanfeed/internal/api"
	"fanfeed/internal/models"
)

// ContentAPI is the slice of the HTTP client the feed core consumes.
// *api.Client satisfies it; tests supply function-field stubs.
type ContentAPI interface {
	ListContent(ctx context.Context, p api.ListContentParams) ([]models.Post, error)
	ToggleLike(ctx context.Context, postID int) error
	ToggleBookmark(ctx context.Context, postID int) error
	ToggleCommentLike(ctx context.Context, commentID int) error
	ListComments(ctx context.Context, postID int) (*api.CommentsResponse, error)
	CreateComment(ctx context.Context, postID int, text string, replyToID int) error
}

// Viewer is the auth collaborator surface the core reads. Supplied by
// session.Session; never re-validated here.
type Viewer interface {
	Subscribed() bool
}

// Observer is a visibility-observer handle owned per post; the core only
// needs to disconnect it on teardown.
type Observer interface {
	Disconnect()
}

// Scroller scrolls a comment into view and applies the timed highlight
// during deep-link resolution.
type Scroller interface {
	ScrollToComment(postID, commentID int)
	HighlightComment(postID, commentID int, d time.Duration)
}

// History rewrites the visible URL without reloading, so a refresh does not
// replay a resolved deep link.
type History interface {
	ReplaceURL(url string)
}
