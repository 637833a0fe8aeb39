package feed

import (
	"context"
	"strings"

	"fanfeed/internal/format"
	"fanfeed/internal/models"
)

// LoadComments fetches and assembles a post's comment tree. Loading an
// already-loaded post is a no-op; that caching contract is deliberate, and
// callers needing fresh data must InvalidateComments first.
func (s *State) LoadComments(ctx context.Context, postID int) error {
	s.mu.Lock()
	post := s.findPostLocked(postID)
	if post == nil {
		s.mu.Unlock()
		return models.NewNotFoundError("post", postID)
	}
	if post.CommentsLoaded || s.loadingComments[postID] {
		s.mu.Unlock()
		return nil
	}
	s.loadingComments[postID] = true
	s.mu.Unlock()

	resp, err := s.api.ListComments(ctx, postID)

	s.mu.Lock()
	delete(s.loadingComments, postID)
	if err != nil {
		// reportError takes the lock for its modal writes.
		s.mu.Unlock()
		return s.reportError(err)
	}

	post.CommentAuthors = s.assembleAuthors(resp.Users)
	post.Comments = s.assembleComments(resp.Comments)
	post.CommentsLoaded = true
	s.mu.Unlock()
	return nil
}

// InvalidateComments clears the comment cache for a post. The next
// LoadComments refetches; it is the only sanctioned cache reset.
func (s *State) InvalidateComments(postID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if post := s.findPostLocked(postID); post != nil {
		post.CommentsLoaded = false
	}
}

// PostComment submits trimmed text as a comment on the post, or as a reply
// when replyToID is non-zero. On success the post's comment count rises
// (capped) and the whole tree reloads; the server response is
// authoritative, so nothing is inserted locally.
func (s *State) PostComment(ctx context.Context, postID int, text string, replyToID int) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return models.NewValidationError("Comment text is required")
	}

	s.mu.Lock()
	post := s.findPostLocked(postID)
	if post == nil {
		s.mu.Unlock()
		return models.NewNotFoundError("post", postID)
	}
	if s.postingComment[postID] {
		s.mu.Unlock()
		return nil
	}
	s.postingComment[postID] = true
	s.mu.Unlock()

	err := s.api.CreateComment(ctx, postID, trimmed, replyToID)

	s.mu.Lock()
	delete(s.postingComment, postID)
	if err != nil {
		s.mu.Unlock()
		return s.reportError(err)
	}
	if post.CommentsCount < models.CommentCountCap {
		post.CommentsCount++
	}
	post.CommentsLoaded = false
	s.input = CommentInput{}
	s.mu.Unlock()

	return s.LoadComments(ctx, postID)
}

// SubmitComment posts the composer buffer against the active post.
func (s *State) SubmitComment(ctx context.Context) error {
	s.mu.Lock()
	postID := s.activePostID
	text := s.input.Text
	replyToID := 0
	if s.input.ReplyTo != nil {
		replyToID = s.input.ReplyTo.CommentID
	}
	s.mu.Unlock()

	if postID == 0 {
		return models.NewValidationError("No active post to comment on")
	}
	return s.PostComment(ctx, postID, text, replyToID)
}

// ToggleReplies flips the replies-expanded flag on a top-level comment.
func (s *State) ToggleReplies(postID, commentID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	post := s.findPostLocked(postID)
	if post == nil {
		return
	}
	for _, c := range post.Comments {
		if c.ID == commentID {
			c.RepliesExpanded = !c.RepliesExpanded
			return
		}
	}
}

func (s *State) assembleAuthors(users []models.CommentAuthor) map[int]models.CommentAuthor {
	authors := make(map[int]models.CommentAuthor, len(users))
	for _, u := range users {
		u.AvatarURL = format.NormalizeAvatarURL(u.AvatarURL)
		authors[u.ID] = u
	}
	return authors
}

// assembleComments maps the flat wire comments into the session shape,
// computing each relative-time display once rather than on every render.
func (s *State) assembleComments(raw []models.Comment) []*models.Comment {
	now := s.now()
	comments := make([]*models.Comment, 0, len(raw))
	for i := range raw {
		c := raw[i]
		c.TimeAgo = format.TimeAgo(c.CreatedAt, now)
		c.RepliesExpanded = false
		if c.LikesCount < 0 {
			c.LikesCount = 0
		}
		replies := make([]*models.Reply, 0, len(c.Replies))
		for _, r := range c.Replies {
			reply := *r
			reply.TimeAgo = format.TimeAgo(reply.CreatedAt, now)
			if reply.LikesCount < 0 {
				reply.LikesCount = 0
			}
			replies = append(replies, &reply)
		}
		c.Replies = replies
		comments = append(comments, &c)
	}
	return comments
}
