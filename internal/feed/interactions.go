package feed

import (
	"context"

	"fanfeed/internal/models"
	"fanfeed/internal/observability"
)

// The toggle operations below share one correctness contract: each
// invocation captures its own pre-toggle snapshot and a failed request
// restores exactly that snapshot. There is no shared "original" value, so
// two rapid toggles of the same post interleave safely: a failure rolls
// back to its own invocation's pre-state and never clobbers a later
// toggle's outcome.

// ToggleLike optimistically flips the viewer's like on a post.
func (s *State) ToggleLike(ctx context.Context, postID int) error {
	s.mu.Lock()
	post := s.findPostLocked(postID)
	if post == nil {
		s.mu.Unlock()
		return models.NewNotFoundError("post", postID)
	}
	prevLiked, prevCount := post.IsLiked, post.LikesCount
	post.IsLiked = !post.IsLiked
	if post.IsLiked {
		post.LikesCount++
	} else if post.LikesCount > 0 {
		post.LikesCount--
	}
	s.mu.Unlock()

	if err := s.api.ToggleLike(ctx, postID); err != nil {
		s.mu.Lock()
		post.IsLiked = prevLiked
		post.LikesCount = prevCount
		s.mu.Unlock()
		observability.OptimisticRollbacks.WithLabelValues("like").Inc()
		return s.reportError(err)
	}
	return nil
}

// ToggleBookmark optimistically flips the viewer's bookmark on a post.
func (s *State) ToggleBookmark(ctx context.Context, postID int) error {
	s.mu.Lock()
	post := s.findPostLocked(postID)
	if post == nil {
		s.mu.Unlock()
		return models.NewNotFoundError("post", postID)
	}
	prev := post.IsBookmarked
	post.IsBookmarked = !post.IsBookmarked
	s.mu.Unlock()

	if err := s.api.ToggleBookmark(ctx, postID); err != nil {
		s.mu.Lock()
		post.IsBookmarked = prev
		s.mu.Unlock()
		observability.OptimisticRollbacks.WithLabelValues("bookmark").Inc()
		return s.reportError(err)
	}
	return nil
}

// ToggleCommentLike optimistically flips the viewer's like on a comment or
// reply belonging to the post.
func (s *State) ToggleCommentLike(ctx context.Context, postID, commentID int) error {
	s.mu.Lock()
	post := s.findPostLocked(postID)
	if post == nil {
		s.mu.Unlock()
		return models.NewNotFoundError("post", postID)
	}

	liked, count, apply := findCommentTarget(post, commentID)
	if apply == nil {
		s.mu.Unlock()
		return models.NewNotFoundError("comment", commentID)
	}
	newLiked := !liked
	newCount := count
	if newLiked {
		newCount++
	} else if newCount > 0 {
		newCount--
	}
	apply(newLiked, newCount)
	s.mu.Unlock()

	if err := s.api.ToggleCommentLike(ctx, commentID); err != nil {
		s.mu.Lock()
		apply(liked, count)
		s.mu.Unlock()
		observability.OptimisticRollbacks.WithLabelValues("comment_like").Inc()
		return s.reportError(err)
	}
	return nil
}

// findCommentTarget locates commentID among the post's comments and their
// replies. It returns the current like state and a setter bound to the
// found node, so rollback restores through the same path.
func findCommentTarget(post *models.Post, commentID int) (liked bool, count int, apply func(bool, int)) {
	for _, c := range post.Comments {
		if c.ID == commentID {
			comment := c
			return comment.IsLiked, comment.LikesCount, func(l bool, n int) {
				comment.IsLiked = l
				comment.LikesCount = n
			}
		}
		for _, r := range c.Replies {
			if r.ID == commentID {
				reply := r
				return reply.IsLiked, reply.LikesCount, func(l bool, n int) {
					reply.IsLiked = l
					reply.LikesCount = n
				}
			}
		}
	}
	return false, 0, nil
}
