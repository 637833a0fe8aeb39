package feed

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"fanfeed/internal/api"
	"fanfeed/internal/models"
)

const highlightDuration = 2 * time.Second

// DeepLink identifies the content (and optionally the comment) a shared
// URL points at.
type DeepLink struct {
	ContentID int
	CommentID int
}

// ParseDeepLink extracts the deep-link parameters from rawURL and returns
// the link, the URL with those parameters stripped, and whether a link was
// present at all.
func ParseDeepLink(rawURL string) (DeepLink, string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return DeepLink{}, rawURL, false
	}

	q := u.Query()
	contentID, err := strconv.Atoi(q.Get("content_id"))
	if err != nil || contentID <= 0 {
		return DeepLink{}, rawURL, false
	}
	commentID, _ := strconv.Atoi(q.Get("comment_id"))

	q.Del("content_id")
	q.Del("comment_id")
	u.RawQuery = q.Encode()

	return DeepLink{ContentID: contentID, CommentID: commentID}, u.String(), true
}

// ResolveDeepLink honors content_id/comment_id parameters on initial load:
// it makes the referenced post visible, opens its lightbox, and scrolls to
// and highlights the referenced comment. On success the parameters are
// stripped from the visible URL so a refresh does not replay the flow. Any
// failure degrades to the not-found modal without leaving a partially
// opened state.
func (s *State) ResolveDeepLink(ctx context.Context, rawURL string) error {
	link, cleaned, ok := ParseDeepLink(rawURL)
	if !ok {
		return nil
	}

	s.mu.Lock()
	post := s.findPostLocked(link.ContentID)
	s.mu.Unlock()

	if post == nil {
		found, err := s.fetchDeepLinkedPost(ctx, link.ContentID)
		if err != nil {
			s.reportError(models.NewNotFoundError("content", link.ContentID))
			return classify(err)
		}
		if found == nil {
			return s.reportError(models.NewNotFoundError("content", link.ContentID))
		}
		post = found
	}

	if err := s.OpenLightbox(ctx, post.ID); err != nil {
		// Roll the overlay back rather than leave it half-open.
		s.CloseLightbox()
		appErr := classify(err)
		if appErr.Code != models.CodeSubscriptionRequired {
			s.reportError(models.NewNotFoundError("content", link.ContentID))
		}
		return appErr
	}

	if link.CommentID != 0 {
		s.locateAndHighlightComment(post, link.CommentID)
	}

	if s.history != nil {
		s.history.ReplaceURL(cleaned)
	}
	return nil
}

// fetchDeepLinkedPost issues the single oversized fallback fetch and, when
// the post is found, prepends it to the feed as pinned. Prepending is a
// deliberate exception to the append-ordering invariant; the pinned flag
// lets pagination deduplicate it later.
func (s *State) fetchDeepLinkedPost(ctx context.Context, contentID int) (*models.Post, error) {
	posts, err := s.api.ListContent(ctx, api.ListContentParams{
		Page:     1,
		PageSize: s.deepLinkFetchSize,
		Premium:  s.viewer.Subscribed(),
		Variant:  s.variant,
		Filter:   models.FilterAll,
	})
	if err != nil {
		return nil, err
	}

	for i := range posts {
		if posts[i].ID != contentID {
			continue
		}
		s.mu.Lock()
		post := s.normalizePost(posts[i])
		post.Pinned = true
		s.posts = append([]*models.Post{post}, s.posts...)
		s.mu.Unlock()
		return post, nil
	}
	return nil, nil
}

// locateAndHighlightComment finds the target among top-level comments
// first; a target that turns out to be a reply gets its parent expanded so
// the scroll destination exists in the DOM.
func (s *State) locateAndHighlightComment(post *models.Post, commentID int) {
	s.mu.Lock()
	var found bool
	for _, c := range post.Comments {
		if c.ID == commentID {
			found = true
			break
		}
	}
	if !found {
		for _, c := range post.Comments {
			for _, r := range c.Replies {
				if r.ID == commentID {
					c.RepliesExpanded = true
					found = true
					break
				}
			}
			if found {
				break
			}
		}
	}
	s.mu.Unlock()

	if !found {
		s.log.Warn("deep-linked comment not in thread", "post_id", post.ID, "comment_id", commentID)
		return
	}
	if s.scroller != nil {
		s.scroller.ScrollToComment(post.ID, commentID)
		s.scroller.HighlightComment(post.ID, commentID, highlightDuration)
	}
}
