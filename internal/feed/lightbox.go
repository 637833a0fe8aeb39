package feed

import (
	"context"

	"fanfeed/internal/models"
	"fanfeed/internal/player"
)

const lightboxElement = "lightbox-player"

// OpenLightbox opens the single global overlay for a post: pauses all
// other playback, marks the post active, loads its comment thread, and for
// videos mounts the full-control lightbox player. Paid posts are rejected
// for unsubscribed viewers with the upgrade modal.
func (s *State) OpenLightbox(ctx context.Context, postID int) error {
	s.mu.Lock()
	post := s.findPostLocked(postID)
	if post == nil {
		s.mu.Unlock()
		return models.NewNotFoundError("post", postID)
	}
	if post.IsPaid && !s.viewer.Subscribed() {
		s.mu.Unlock()
		return s.reportError(models.NewSubscriptionRequiredError())
	}

	// Lightbox visibility always wins over ambient autoplay.
	s.players.PauseAll(player.LightboxKey)
	for _, p := range s.posts {
		p.Playing = false
	}

	s.lightbox = Lightbox{
		Visible: true,
		URL:     post.MediaURL,
		Type:    post.Type,
		PostID:  post.ID,
	}
	s.activePostID = post.ID
	isVideo := post.Type == models.ContentTypeVideo
	mediaURL := post.MediaURL
	s.mu.Unlock()

	if isVideo && s.playerFactory != nil {
		if err := s.players.Mount(player.LightboxKey, s.playerFactory(), lightboxElement, mediaURL); err != nil {
			s.log.Warn("failed to mount lightbox player", "post_id", postID, "error", err)
		}
	}

	// Drawer-equivalent load; cached threads are served as-is. A failed
	// load rolls the overlay back so it never shows a thread-less post.
	if err := s.LoadComments(ctx, postID); err != nil {
		s.log.Warn("lightbox comment load failed", "post_id", postID, "error", err)
		s.CloseLightbox()
		return err
	}
	return nil
}

// CloseLightbox tears the overlay down. An open drawer closes first and
// the settle delay lets its transition finish before the player is
// destroyed; reordering this causes visible jank.
func (s *State) CloseLightbox() {
	s.mu.Lock()
	if !s.lightbox.Visible {
		s.mu.Unlock()
		return
	}
	drawerWasOpen := s.drawerOpen
	s.drawerOpen = false
	s.mu.Unlock()

	if drawerWasOpen {
		s.sleep(s.settleDelay)
	}

	s.players.Destroy(player.LightboxKey)

	s.mu.Lock()
	s.lightbox = Lightbox{}
	s.activePostID = 0
	s.mu.Unlock()
}

// OpenDrawer opens the side comment panel for a post and loads its thread.
func (s *State) OpenDrawer(ctx context.Context, postID int) error {
	s.mu.Lock()
	post := s.findPostLocked(postID)
	if post == nil {
		s.mu.Unlock()
		return models.NewNotFoundError("post", postID)
	}
	s.drawerOpen = true
	s.activePostID = postID
	s.mu.Unlock()

	return s.LoadComments(ctx, postID)
}

// CloseDrawer closes the side comment panel. The active post is kept while
// the lightbox stays open.
func (s *State) CloseDrawer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drawerOpen = false
	if !s.lightbox.Visible {
		s.activePostID = 0
	}
}

// PauseAllPlayers pauses every mounted player except the given post's.
// Pass zero to pause everything, lightbox included.
func (s *State) PauseAllPlayers(exceptPostID int) {
	s.players.PauseAll(exceptPostID)
}

// MountCardPlayer mounts the muted feed-card player for a video post.
func (s *State) MountCardPlayer(postID int, element string) error {
	s.mu.Lock()
	post := s.findPostLocked(postID)
	if post == nil || post.Type != models.ContentTypeVideo {
		s.mu.Unlock()
		return models.NewValidationError("Post is not a mountable video")
	}
	mediaURL := post.MediaURL
	s.mu.Unlock()

	if s.playerFactory == nil {
		return models.NewInternalError(nil)
	}
	return s.players.Mount(postID, s.playerFactory(), element, mediaURL)
}

// HandleVisibility drives the feed-card player state machine from the
// visibility observer: a sufficiently visible card plays (unless the
// lightbox is open), a scrolled-out card pauses but is never destroyed.
func (s *State) HandleVisibility(postID int, visible bool) {
	if !visible {
		s.players.Pause(postID)
		s.setPlayingFlag(postID, false)
		return
	}

	s.mu.Lock()
	lightboxOpen := s.lightbox.Visible
	s.mu.Unlock()
	if lightboxOpen {
		return
	}

	if s.players.StateOf(postID) == player.StateMountedPaused {
		if err := s.players.Play(postID); err != nil {
			s.log.Debug("autoplay failed", "post_id", postID, "error", err)
			return
		}
		s.setPlayingFlag(postID, true)
	}
}

func (s *State) setPlayingFlag(postID int, playing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.posts {
		switch {
		case p.ID == postID:
			p.Playing = playing
		case playing:
			// Only one card may be audible; the registry already paused
			// the others.
			p.Playing = false
		}
	}
}
