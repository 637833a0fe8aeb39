// Package feed implements the client-side feed state core: the reactive
// in-memory aggregate for posts, comments, optimistic interactions,
// pagination, deep links, and lightbox/player coordination. A reactive
// binding layer observes the exported snapshots; the core only assumes
// that field mutation is observable, never a particular framework.
package feed

import (
	"sync"
	"time"

	"fanfeed/internal/models"
	"fanfeed/internal/observability"
	"fanfeed/internal/player"
)

const defaultSettleDelay = 350 * time.Millisecond

// Lightbox is the single global overlay descriptor. Zero value means
// closed.
type Lightbox struct {
	Visible bool
	URL     string
	Type    models.ContentType
	PostID  int
}

// Modal is the popup descriptor. Locked modals cannot be dismissed until
// the countdown reaches zero.
type Modal struct {
	Visible     bool
	Header      string
	Message     string
	ButtonLabel string
	// ButtonAction names the UI action bound to the button: "dismiss",
	// "upgrade" or "login".
	ButtonAction string
	Locked       bool
	Countdown    int
}

// ReplyTarget identifies the comment a buffered reply is addressed to.
type ReplyTarget struct {
	CommentID  int
	AuthorName string
}

// CommentInput is the transient comment-composer buffer.
type CommentInput struct {
	Text    string
	ReplyTo *ReplyTarget
}

// Options wires the collaborators and knobs into a State.
type Options struct {
	API     ContentAPI
	Viewer  Viewer
	Variant models.FeedVariant

	Players  player.Factory
	Scroller Scroller
	History  History

	PageSize          int
	DeepLinkFetchSize int
	SettleDelay       time.Duration

	// OnAuthError runs when any operation hits an authentication error;
	// the session layer hooks its logout flow here.
	OnAuthError func()

	// Now and Sleep exist for tests; nil means real time.
	Now   func() time.Time
	Sleep func(time.Duration)
}

// State is the aggregate root owning the in-memory feed. All exported
// methods are safe for the single-threaded event-driven call pattern the
// UI produces and for concurrent test drivers.
type State struct {
	mu sync.Mutex

	api     ContentAPI
	viewer  Viewer
	variant models.FeedVariant

	playerFactory player.Factory
	players       *player.Registry
	observers     map[int]Observer
	scroller      Scroller
	history       History

	pageSize          int
	deepLinkFetchSize int
	settleDelay       time.Duration
	onAuthError       func()
	now               func() time.Time
	sleep             func(time.Duration)
	log               *observability.Logger

	posts   []*models.Post
	page    int
	hasMore bool
	loading bool
	filter  models.FeedFilter

	activePostID int
	drawerOpen   bool
	lightbox     Lightbox
	input        CommentInput
	modal        Modal

	loadingComments map[int]bool
	postingComment  map[int]bool
}

// NewState creates the feed aggregate for one page load.
func NewState(opts Options) *State {
	if opts.PageSize <= 0 {
		opts.PageSize = 10
	}
	if opts.DeepLinkFetchSize < opts.PageSize {
		opts.DeepLinkFetchSize = opts.PageSize * 5
	}
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = defaultSettleDelay
	}
	if opts.Variant == "" {
		opts.Variant = models.VariantFeed
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}
	if opts.OnAuthError == nil {
		opts.OnAuthError = func() {}
	}

	return &State{
		api:               opts.API,
		viewer:            opts.Viewer,
		variant:           opts.Variant,
		playerFactory:     opts.Players,
		players:           player.NewRegistry(),
		observers:         make(map[int]Observer),
		scroller:          opts.Scroller,
		history:           opts.History,
		pageSize:          opts.PageSize,
		deepLinkFetchSize: opts.DeepLinkFetchSize,
		settleDelay:       opts.SettleDelay,
		onAuthError:       opts.OnAuthError,
		now:               opts.Now,
		sleep:             opts.Sleep,
		log:               observability.Component("feed"),
		page:              1,
		hasMore:           true,
		filter:            models.FilterAll,
		loadingComments:   make(map[int]bool),
		postingComment:    make(map[int]bool),
	}
}

// Posts returns the current feed slice. Callers must treat it as
// read-only; mutation goes through operations.
func (s *State) Posts() []*models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Post, len(s.posts))
	copy(out, s.posts)
	return out
}

// Post returns the post with the given ID, nil when absent.
func (s *State) Post(id int) *models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findPostLocked(id)
}

// HasMore reports whether pagination may fetch further pages.
func (s *State) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasMore
}

// Filter returns the active feed filter.
func (s *State) Filter() models.FeedFilter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// SetFilter switches the active filter and resets pagination; the next
// LoadNextPage refetches from the first page. Pinned (deep-linked) posts
// survive the reset.
func (s *State) SetFilter(f models.FeedFilter) error {
	if !s.variant.ValidFilter(f) {
		return models.NewValidationError("Unknown filter for this page")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if f == s.filter {
		return nil
	}
	s.filter = f
	s.resetPaginationLocked()
	return nil
}

// ActivePostID returns the post the drawer/lightbox is focused on, zero
// when none.
func (s *State) ActivePostID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activePostID
}

// LightboxState returns a copy of the lightbox descriptor.
func (s *State) LightboxState() Lightbox {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lightbox
}

// DrawerOpen reports whether the comment drawer is open.
func (s *State) DrawerOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drawerOpen
}

// ModalState returns a copy of the modal descriptor.
func (s *State) ModalState() Modal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modal
}

// Input returns a copy of the comment-composer buffer.
func (s *State) Input() CommentInput {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// SetCommentText updates the buffered comment text.
func (s *State) SetCommentText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input.Text = text
}

// SetReplyTarget marks the buffered text as a reply to a comment.
func (s *State) SetReplyTarget(commentID int, authorName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input.ReplyTo = &ReplyTarget{CommentID: commentID, AuthorName: authorName}
}

// ClearReplyTarget reverts the buffer to a top-level comment.
func (s *State) ClearReplyTarget() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input.ReplyTo = nil
}

// ShowModal replaces the modal descriptor.
func (s *State) ShowModal(m Modal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.Visible = true
	s.modal = m
}

// DismissModal hides the modal unless it is still locked.
func (s *State) DismissModal() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.modal.Locked {
		return false
	}
	s.modal = Modal{}
	return true
}

// TickModalCountdown decrements a locked modal's countdown; at zero the
// modal unlocks. The UI calls this once per second while the modal shows.
func (s *State) TickModalCountdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.modal.Visible || !s.modal.Locked {
		return
	}
	if s.modal.Countdown > 0 {
		s.modal.Countdown--
	}
	if s.modal.Countdown == 0 {
		s.modal.Locked = false
	}
}

// RegisterObserver records the visibility-observer handle for a post so
// teardown can disconnect it.
func (s *State) RegisterObserver(postID int, o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.observers[postID]; ok {
		old.Disconnect()
	}
	s.observers[postID] = o
}

// Players exposes the player registry for mounting feed-card players.
func (s *State) Players() *player.Registry {
	return s.players
}

// Teardown releases every live resource and resets the aggregate to its
// initial empty state. Runs on logout and page unload.
func (s *State) Teardown() {
	s.mu.Lock()
	observers := s.observers
	s.observers = make(map[int]Observer)
	s.posts = nil
	s.page = 1
	s.hasMore = true
	s.loading = false
	s.filter = models.FilterAll
	s.activePostID = 0
	s.drawerOpen = false
	s.lightbox = Lightbox{}
	s.input = CommentInput{}
	s.modal = Modal{}
	s.loadingComments = make(map[int]bool)
	s.postingComment = make(map[int]bool)
	s.mu.Unlock()

	for _, o := range observers {
		o.Disconnect()
	}
	s.players.DestroyAll()
	s.log.Info("feed state torn down")
}

func (s *State) findPostLocked(id int) *models.Post {
	for _, p := range s.posts {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *State) resetPaginationLocked() {
	var kept []*models.Post
	for _, p := range s.posts {
		if p.Pinned {
			kept = append(kept, p)
		}
	}
	s.posts = kept
	s.page = 1
	s.hasMore = true
	s.loading = false
}

// reportError classifies err, drives the shared modal for the
// modal-worthy codes, and triggers the auth teardown path for 401s. It
// returns the classified error for the caller.
func (s *State) reportError(err error) *models.AppError {
	appErr := classify(err)

	switch appErr.Code {
	case models.CodeUnauthorized:
		s.onAuthError()
	case models.CodeSubscriptionRequired:
		s.ShowModal(Modal{
			Header:       "Subscribers only",
			Message:      "Subscribe to unlock this content.",
			ButtonLabel:  "Upgrade",
			ButtonAction: "upgrade",
		})
	case models.CodeRateLimited:
		s.ShowModal(Modal{
			Header:       "Slow down",
			Message:      "You are doing that too often.",
			ButtonLabel:  "OK",
			ButtonAction: "dismiss",
			Locked:       true,
			Countdown:    appErr.RetryAfter,
		})
	case models.CodeNotFound:
		s.ShowModal(Modal{
			Header:       "Content not found",
			Message:      "This content is no longer available.",
			ButtonLabel:  "OK",
			ButtonAction: "dismiss",
		})
	}
	return appErr
}
