package feed

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fanfeed/internal/api"
	"fanfeed/internal/format"
	"fanfeed/internal/models"
)

func threadResponse() *api.CommentsResponse {
	return &api.CommentsResponse{
		Users: []models.CommentAuthor{
			{ID: 1, Name: "ada", AvatarURL: "//cdn.example.com/ada.png"},
			{ID: 2, Name: "lin", AvatarURL: ""},
		},
		Comments: []models.Comment{
			{
				ID:         10,
				AuthorID:   1,
				Text:       "first",
				LikesCount: 3,
				CreatedAt:  testEpoch.Add(-30 * time.Minute),
				Replies: []*models.Reply{
					{ID: 11, AuthorID: 2, Text: "re: first", CreatedAt: testEpoch.Add(-10 * time.Minute)},
				},
			},
			{ID: 12, AuthorID: 2, Text: "second", CreatedAt: testEpoch.Add(-2 * time.Hour)},
		},
	}
}

func TestLoadComments_AssemblesTree(t *testing.T) {
	stub := noopAPI()
	stub.listCommentsFn = func(context.Context, int) (*api.CommentsResponse, error) {
		return threadResponse(), nil
	}
	h := feedWithPost(t, stub, makePost(1))
	ctx := context.Background()

	require.NoError(t, h.state.LoadComments(ctx, 1))

	post := h.state.Post(1)
	require.True(t, post.CommentsLoaded)
	require.Len(t, post.Comments, 2)

	first := post.Comments[0]
	assert.Equal(t, "30m ago", first.TimeAgo)
	assert.False(t, first.RepliesExpanded)
	require.Len(t, first.Replies, 1)
	assert.Equal(t, "10m ago", first.Replies[0].TimeAgo)

	// Author lookup is keyed by ID with normalized avatars.
	require.Len(t, post.CommentAuthors, 2)
	assert.Equal(t, "https://cdn.example.com/ada.png", post.CommentAuthors[1].AvatarURL)
	assert.Equal(t, format.DefaultAvatarURL, post.CommentAuthors[2].AvatarURL)
}

func TestLoadComments_CacheIdempotence(t *testing.T) {
	var calls int32
	stub := noopAPI()
	stub.listCommentsFn = func(context.Context, int) (*api.CommentsResponse, error) {
		atomic.AddInt32(&calls, 1)
		return threadResponse(), nil
	}
	h := feedWithPost(t, stub, makePost(1))
	ctx := context.Background()

	require.NoError(t, h.state.LoadComments(ctx, 1))
	require.NoError(t, h.state.LoadComments(ctx, 1))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	// Explicit invalidation is the only way to refetch.
	h.state.InvalidateComments(1)
	require.NoError(t, h.state.LoadComments(ctx, 1))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestLoadComments_FailureLeavesCacheCold(t *testing.T) {
	fail := true
	stub := noopAPI()
	stub.listCommentsFn = func(context.Context, int) (*api.CommentsResponse, error) {
		if fail {
			return nil, &api.HTTPError{Status: 500}
		}
		return threadResponse(), nil
	}
	h := feedWithPost(t, stub, makePost(1))
	ctx := context.Background()

	require.Error(t, h.state.LoadComments(ctx, 1))
	assert.False(t, h.state.Post(1).CommentsLoaded)

	fail = false
	require.NoError(t, h.state.LoadComments(ctx, 1))
	assert.True(t, h.state.Post(1).CommentsLoaded)
}

func TestLoadComments_NotFoundShowsModal(t *testing.T) {
	stub := noopAPI()
	stub.listCommentsFn = func(context.Context, int) (*api.CommentsResponse, error) {
		return nil, &api.HTTPError{Status: 404}
	}
	h := feedWithPost(t, stub, makePost(1))

	// Guard against the load wedging instead of surfacing the modal.
	done := make(chan error, 1)
	go func() { done <- h.state.LoadComments(context.Background(), 1) }()
	select {
	case err := <-done:
		require.Error(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("LoadComments did not return on a missing thread")
	}

	m := h.state.ModalState()
	assert.True(t, m.Visible)
	assert.Equal(t, "Content not found", m.Header)
	assert.False(t, h.state.Post(1).CommentsLoaded)
}

func TestPostComment_RejectsWhitespaceWithoutNetwork(t *testing.T) {
	var networkCalls int32
	stub := noopAPI()
	stub.createCommentFn = func(context.Context, int, string, int) error {
		atomic.AddInt32(&networkCalls, 1)
		return nil
	}
	post := makePost(1)
	post.CommentsCount = 5
	h := feedWithPost(t, stub, post)

	err := h.state.PostComment(context.Background(), 1, "   \n\t ", 0)
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeValidation, appErr.Code)
	assert.Equal(t, int32(0), atomic.LoadInt32(&networkCalls))
	assert.Equal(t, 5, h.state.Post(1).CommentsCount)
}

func TestPostComment_IncrementsAndReloads(t *testing.T) {
	var listCalls int32
	var created []string
	stub := noopAPI()
	stub.createCommentFn = func(_ context.Context, _ int, text string, _ int) error {
		created = append(created, text)
		return nil
	}
	stub.listCommentsFn = func(context.Context, int) (*api.CommentsResponse, error) {
		atomic.AddInt32(&listCalls, 1)
		return threadResponse(), nil
	}
	post := makePost(1)
	post.CommentsCount = 2
	h := feedWithPost(t, stub, post)
	ctx := context.Background()

	require.NoError(t, h.state.LoadComments(ctx, 1))
	require.NoError(t, h.state.PostComment(ctx, 1, "  nice shot  ", 0))

	assert.Equal(t, []string{"nice shot"}, created)
	assert.Equal(t, 3, h.state.Post(1).CommentsCount)
	// Reload is authoritative: the tree was fetched again, nothing was
	// inserted locally.
	assert.Equal(t, int32(2), atomic.LoadInt32(&listCalls))
	assert.True(t, h.state.Post(1).CommentsLoaded)
}

func TestPostComment_CountCapsAtLimit(t *testing.T) {
	post := makePost(1)
	post.CommentsCount = models.CommentCountCap
	h := feedWithPost(t, noopAPI(), post)

	require.NoError(t, h.state.PostComment(context.Background(), 1, "over the top", 0))
	assert.Equal(t, models.CommentCountCap, h.state.Post(1).CommentsCount)
}

func TestPostComment_FailureLeavesCountAlone(t *testing.T) {
	stub := noopAPI()
	stub.createCommentFn = func(context.Context, int, string, int) error {
		return &api.HTTPError{Status: 500}
	}
	post := makePost(1)
	post.CommentsCount = 7
	h := feedWithPost(t, stub, post)

	require.Error(t, h.state.PostComment(context.Background(), 1, "doomed", 0))
	assert.Equal(t, 7, h.state.Post(1).CommentsCount)
}

func TestSubmitComment_UsesBufferAndReplyTarget(t *testing.T) {
	var gotText string
	var gotReplyTo int
	stub := noopAPI()
	stub.createCommentFn = func(_ context.Context, _ int, text string, replyToID int) error {
		gotText = text
		gotReplyTo = replyToID
		return nil
	}
	h := feedWithPost(t, stub, makePost(1))
	ctx := context.Background()

	require.NoError(t, h.state.OpenDrawer(ctx, 1))
	h.state.SetCommentText("agreed!")
	h.state.SetReplyTarget(10, "ada")

	require.NoError(t, h.state.SubmitComment(ctx))

	assert.Equal(t, "agreed!", gotText)
	assert.Equal(t, 10, gotReplyTo)
	// The buffer clears after a successful submit.
	assert.Empty(t, h.state.Input().Text)
	assert.Nil(t, h.state.Input().ReplyTo)
}

func TestToggleReplies(t *testing.T) {
	stub := noopAPI()
	stub.listCommentsFn = func(context.Context, int) (*api.CommentsResponse, error) {
		return threadResponse(), nil
	}
	h := feedWithPost(t, stub, makePost(1))
	ctx := context.Background()
	require.NoError(t, h.state.LoadComments(ctx, 1))

	h.state.ToggleReplies(1, 10)
	assert.True(t, h.state.Post(1).Comments[0].RepliesExpanded)
	h.state.ToggleReplies(1, 10)
	assert.False(t, h.state.Post(1).Comments[0].RepliesExpanded)
}
