package feed

import (
	"context"

	"fanfeed/internal/api"
	"fanfeed/internal/format"
	"fanfeed/internal/models"
)

// LoadNextPage fetches the next page of posts and appends them to the
// feed. It is a no-op while a load is in flight or once the listing is
// exhausted. On failure the cursor and hasMore are left untouched, so the
// caller may simply retry.
func (s *State) LoadNextPage(ctx context.Context) error {
	s.mu.Lock()
	if !s.hasMore || s.loading {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	params := api.ListContentParams{
		Page:     s.page,
		PageSize: s.pageSize,
		Premium:  s.viewer.Subscribed(),
		Variant:  s.variant,
		Filter:   s.filter,
	}
	s.mu.Unlock()

	posts, err := s.api.ListContent(ctx, params)

	s.mu.Lock()
	s.loading = false
	if err != nil {
		// reportError takes the lock for its modal writes.
		s.mu.Unlock()
		return s.reportError(err)
	}

	if len(posts) == 0 {
		// Terminal: no further fetches for the rest of the session.
		s.hasMore = false
		s.mu.Unlock()
		return nil
	}

	s.appendPostsLocked(posts)
	s.page++
	s.mu.Unlock()
	return nil
}

// appendPostsLocked normalizes and appends raw posts in arrival order,
// skipping any identifier already present. The uniqueness invariant wins
// over the backend's unstable ordering, and a pinned deep-linked post is
// never duplicated when pagination reaches its natural position.
func (s *State) appendPostsLocked(raw []models.Post) {
	seen := make(map[int]struct{}, len(s.posts))
	for _, p := range s.posts {
		seen[p.ID] = struct{}{}
	}
	for i := range raw {
		if _, dup := seen[raw[i].ID]; dup {
			s.log.Debug("dropping duplicate post", "post_id", raw[i].ID)
			continue
		}
		post := s.normalizePost(raw[i])
		seen[post.ID] = struct{}{}
		s.posts = append(s.posts, post)
	}
}

// normalizePost derives the session-only fields at the ingestion boundary
// so the rest of the core only ever sees the typed shape.
func (s *State) normalizePost(raw models.Post) *models.Post {
	post := raw
	post.TimeAgo = format.TimeAgo(post.CreatedAt, s.now())
	if post.LikesCount < 0 {
		post.LikesCount = 0
	}
	if post.CommentsCount < 0 {
		post.CommentsCount = 0
	}
	// Feed-card videos start muted; the lightbox player has full controls.
	post.Muted = true
	post.Playing = false
	post.CommentsLoaded = false
	post.Comments = nil
	post.CommentAuthors = nil
	return &post
}
