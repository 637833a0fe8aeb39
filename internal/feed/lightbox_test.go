package feed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fanfeed/internal/api"
	"fanfeed/internal/models"
	"fanfeed/internal/player"
)

func videoFeed(t *testing.T) *harness {
	t.Helper()
	stub := noopAPI()
	stub.listContentFn = pages([]models.Post{makeVideoPost(1), makeVideoPost(2), makeVideoPost(3)})
	h := newHarness(t, stub, true)
	require.NoError(t, h.state.LoadNextPage(context.Background()))
	for id := 1; id <= 3; id++ {
		require.NoError(t, h.state.MountCardPlayer(id, "card"))
	}
	return h
}

func TestSingleActivePlayer(t *testing.T) {
	h := videoFeed(t)

	h.state.HandleVisibility(1, true)
	h.state.HandleVisibility(3, true)
	// Playing video 2 must pause 1 and 3.
	h.state.HandleVisibility(2, true)

	reg := h.state.Players()
	assert.Equal(t, player.StateMountedPlaying, reg.StateOf(2))
	assert.Equal(t, player.StateMountedPaused, reg.StateOf(1))
	assert.Equal(t, player.StateMountedPaused, reg.StateOf(3))

	assert.True(t, h.state.Post(2).Playing)
	assert.False(t, h.state.Post(1).Playing)
	assert.False(t, h.state.Post(3).Playing)
}

func TestHandleVisibility_ScrollOutPausesNotDestroys(t *testing.T) {
	h := videoFeed(t)
	h.state.HandleVisibility(1, true)

	h.state.HandleVisibility(1, false)

	assert.Equal(t, player.StateMountedPaused, h.state.Players().StateOf(1))
	assert.False(t, h.state.Post(1).Playing)
	for _, p := range h.players {
		assert.Zero(t, p.destroyCalls.Load())
	}
}

func TestHandleVisibility_LightboxWinsOverAutoplay(t *testing.T) {
	h := videoFeed(t)
	ctx := context.Background()

	require.NoError(t, h.state.OpenLightbox(ctx, 2))

	// A card scrolling into view while the lightbox is open must not play.
	h.state.HandleVisibility(1, true)
	assert.Equal(t, player.StateMountedPaused, h.state.Players().StateOf(1))
	assert.False(t, h.state.Post(1).Playing)
}

func TestOpenLightbox_PaidPostUnsubscribed(t *testing.T) {
	stub := noopAPI()
	paid := makeVideoPost(1)
	paid.IsPaid = true
	stub.listContentFn = pages([]models.Post{paid})
	h := newHarness(t, stub, false)
	ctx := context.Background()
	require.NoError(t, h.state.LoadNextPage(ctx))

	err := h.state.OpenLightbox(ctx, 1)
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeSubscriptionRequired, appErr.Code)

	assert.False(t, h.state.LightboxState().Visible)
	m := h.state.ModalState()
	assert.True(t, m.Visible)
	assert.Equal(t, "upgrade", m.ButtonAction)
}

func TestOpenLightbox_PausesAmbientPlayback(t *testing.T) {
	h := videoFeed(t)
	ctx := context.Background()
	h.state.HandleVisibility(1, true)
	require.True(t, h.state.Post(1).Playing)

	require.NoError(t, h.state.OpenLightbox(ctx, 2))

	assert.Equal(t, player.StateMountedPaused, h.state.Players().StateOf(1))
	assert.False(t, h.state.Post(1).Playing)

	lb := h.state.LightboxState()
	assert.True(t, lb.Visible)
	assert.Equal(t, 2, lb.PostID)
	assert.Equal(t, models.ContentTypeVideo, lb.Type)
	assert.Equal(t, 2, h.state.ActivePostID())
	// The lightbox player was mounted under the reserved key.
	assert.Equal(t, player.StateMountedPaused, h.state.Players().StateOf(player.LightboxKey))
	// Comment thread loads with the overlay.
	assert.True(t, h.state.Post(2).CommentsLoaded)
}

func TestCloseLightbox_DrawerSettleDelay(t *testing.T) {
	h := videoFeed(t)
	ctx := context.Background()
	require.NoError(t, h.state.OpenLightbox(ctx, 2))
	require.NoError(t, h.state.OpenDrawer(ctx, 2))

	h.state.CloseLightbox()

	// The drawer closed first and its transition settled before teardown.
	require.Len(t, h.slept, 1)
	assert.Equal(t, 350*time.Millisecond, h.slept[0])
	assert.False(t, h.state.DrawerOpen())
	assert.False(t, h.state.LightboxState().Visible)
	assert.Zero(t, h.state.ActivePostID())
	assert.Equal(t, player.StateUninitialized, h.state.Players().StateOf(player.LightboxKey))
}

func TestCloseLightbox_NoDrawerNoDelay(t *testing.T) {
	h := videoFeed(t)
	require.NoError(t, h.state.OpenLightbox(context.Background(), 1))

	h.state.CloseLightbox()

	assert.Empty(t, h.slept)
	assert.False(t, h.state.LightboxState().Visible)
}

func TestCloseLightbox_WhenClosedIsNoop(t *testing.T) {
	h := videoFeed(t)
	h.state.CloseLightbox()
	assert.Empty(t, h.slept)
}

func TestOpenLightbox_CommentLoadFailureRollsBack(t *testing.T) {
	stub := noopAPI()
	stub.listContentFn = pages([]models.Post{makeVideoPost(1)})
	stub.listCommentsFn = func(context.Context, int) (*api.CommentsResponse, error) {
		return nil, &api.HTTPError{Status: 500}
	}
	h := newHarness(t, stub, true)
	require.NoError(t, h.state.LoadNextPage(context.Background()))

	require.Error(t, h.state.OpenLightbox(context.Background(), 1))

	// The overlay never shows a post whose thread failed to load.
	assert.False(t, h.state.LightboxState().Visible)
	assert.Zero(t, h.state.ActivePostID())
	assert.Equal(t, player.StateUninitialized, h.state.Players().StateOf(player.LightboxKey))
}

func TestMountCardPlayer_RejectsImagePosts(t *testing.T) {
	stub := noopAPI()
	stub.listContentFn = pages([]models.Post{makePost(1)})
	h := newHarness(t, stub, true)
	require.NoError(t, h.state.LoadNextPage(context.Background()))

	assert.Error(t, h.state.MountCardPlayer(1, "card"))
}
