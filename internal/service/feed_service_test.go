package service

import (
	"context"
	"errors"
	"testing"

	"vzsocial/internal/featureflags"
	"vzsocial/internal/models"
	"vzsocial/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingSamplePosts serves real posts except Sample, which always fails.
type failingSamplePosts struct {
	repository.PostRepository
}

func (failingSamplePosts) Sample(context.Context, string, int) ([]models.Post, error) {
	return nil, errors.New("sample unavailable")
}

func postIDs(posts []models.FeedPost) []uint {
	out := make([]uint, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}

func TestFeedService_Home_RequiresViewer(t *testing.T) {
	e := newTestEnv(t)
	_, err := e.feedService("").Home(ctx, 0)
	assertValidationError(t, err)
}

func TestFeedService_Home_EmptyStore(t *testing.T) {
	e := newTestEnv(t)
	viewer := e.customer(t, "viewer")

	feed, err := e.feedService("").Home(ctx, viewer.ID)
	require.NoError(t, err)
	assert.NotNil(t, feed.StatusList)
	assert.Empty(t, feed.StatusList)
	assert.Empty(t, feed.RecentPosts)
	assert.Empty(t, feed.SuggestedUsers)
	assert.NotNil(t, feed.FinalPosts)
}

func TestFeedService_Home_StatusList(t *testing.T) {
	e := newTestEnv(t)
	viewer := e.customer(t, "viewer")
	alice := e.customer(t, "alice")
	bob := e.customer(t, "bob")
	carol := e.customer(t, "carol")

	e.post(t, alice.ID, models.PostTypeStory, models.MediaTypeImage)
	latest := e.post(t, alice.ID, models.PostTypeStory, models.MediaTypeImage)
	bobStory := e.post(t, bob.ID, models.PostTypeStory, models.MediaTypeImage)
	e.post(t, carol.ID, models.PostTypePost, models.MediaTypeImage)

	_, err := e.likeService().Toggle(ctx, viewer.ID, latest.ID)
	require.NoError(t, err)
	e.comment(t, latest.ID, bob.ID, nil, "nice")

	feed, err := e.feedService("").Home(ctx, viewer.ID)
	require.NoError(t, err)

	require.Len(t, feed.StatusList, 2, "accounts without a story are omitted")
	assert.Equal(t, alice.ID, feed.StatusList[0].ID)
	assert.Equal(t, latest.ID, feed.StatusList[0].PostID, "most recent story wins")
	assert.Equal(t, "alice", feed.StatusList[0].Name)
	assert.EqualValues(t, 1, feed.StatusList[0].LikeCount)
	assert.EqualValues(t, 1, feed.StatusList[0].CommentCount)
	assert.Equal(t, 1, feed.StatusList[0].IsLiked)

	assert.Equal(t, bob.ID, feed.StatusList[1].ID)
	assert.Equal(t, bobStory.ID, feed.StatusList[1].PostID)
	assert.Equal(t, 0, feed.StatusList[1].IsLiked)

	t.Run("deleted accounts are skipped", func(t *testing.T) {
		require.NoError(t, e.db.Model(bob).Update("is_deleted", true).Error)
		feed, err := e.feedService("").Home(ctx, viewer.ID)
		require.NoError(t, err)
		require.Len(t, feed.StatusList, 1)
		assert.Equal(t, alice.ID, feed.StatusList[0].ID)
	})
}

func TestFeedService_Home_StatusList_IncludesViewer(t *testing.T) {
	e := newTestEnv(t)
	viewer := e.customer(t, "viewer")
	story := e.post(t, viewer.ID, models.PostTypeStory, models.MediaTypeImage)

	feed, err := e.feedService("").Home(ctx, viewer.ID)
	require.NoError(t, err)

	require.Len(t, feed.StatusList, 1)
	own := feed.StatusList[0]
	assert.Equal(t, viewer.ID, own.ID)
	assert.Equal(t, story.ID, own.PostID)
	assert.EqualValues(t, 0, own.LikeCount)
	assert.EqualValues(t, 0, own.CommentCount)
	assert.Equal(t, 0, own.IsLiked)
}

func TestFeedService_Home_Suggestions(t *testing.T) {
	e := newTestEnv(t)
	viewer := e.customer(t, "viewer")
	followed := e.customer(t, "followed")
	stranger := e.customer(t, "stranger")

	_, err := e.follows.Create(ctx, viewer.ID, followed.ID)
	require.NoError(t, err)

	feed, err := e.feedService("").Home(ctx, viewer.ID)
	require.NoError(t, err)

	require.Len(t, feed.SuggestedUsers, 1)
	assert.Equal(t, stranger.ID, feed.SuggestedUsers[0].ID)
	assert.Equal(t, "stranger", feed.SuggestedUsers[0].Name)
}

func TestFeedService_Home_PostSections(t *testing.T) {
	e := newTestEnv(t)
	viewer := e.customer(t, "viewer")
	author := e.customer(t, "author")

	var posts []*models.Post
	for i := 0; i < 12; i++ {
		posts = append(posts, e.post(t, author.ID, models.PostTypePost, models.MediaTypeImage))
	}
	videoReel := e.post(t, author.ID, models.PostTypeReel, models.MediaTypeVideo)
	e.post(t, author.ID, models.PostTypeReel, models.MediaTypeImage)
	orphan := e.post(t, 9999, models.PostTypePost, models.MediaTypeImage, "https://cdn.example.com/only.png")

	feed, err := e.feedService("").Home(ctx, viewer.ID)
	require.NoError(t, err)

	require.Len(t, feed.RecentPosts, 10)
	assert.Equal(t, orphan.ID, feed.RecentPosts[0].ID)
	assert.Equal(t, posts[11].ID, feed.RecentPosts[1].ID)
	assert.Empty(t, feed.RecentPosts[0].UserName, "missing author renders empty")
	assert.Empty(t, feed.RecentPosts[0].UserProfileImage)

	first := feed.RecentPosts[1]
	require.NotNil(t, first.Image)
	assert.Equal(t, "https://cdn.example.com/1.png", *first.Image)
	assert.Len(t, first.Images, 2)
	assert.Equal(t, "author", first.UserName)

	require.Len(t, feed.Reels, 1)
	assert.Equal(t, videoReel.ID, feed.Reels[0].ID)

	assert.Len(t, feed.RandomPosts, 10)
	for _, p := range feed.RandomPosts {
		assert.Equal(t, models.PostTypePost, p.PostType)
	}

	require.Len(t, feed.MorePosts, 10)
	assert.Equal(t, postIDs(feed.MorePosts), postIDs(feed.FinalPosts))
	assert.NotEqual(t, orphan.ID, feed.MorePosts[0].ID, "offset skips the newest post")
}

func TestFeedService_Home_FailurePolicy(t *testing.T) {
	e := newTestEnv(t)
	viewer := e.customer(t, "viewer")
	author := e.customer(t, "author")
	e.post(t, author.ID, models.PostTypePost, models.MediaTypeImage)
	e.post(t, author.ID, models.PostTypeStory, models.MediaTypeImage)

	build := func(flags string) *FeedService {
		return NewFeedService(e.customers, failingSamplePosts{e.posts}, e.follows, e.engagement,
			featureflags.NewManager(flags), 0)
	}

	t.Run("all or nothing by default", func(t *testing.T) {
		feed, err := build("").Home(ctx, viewer.ID)
		require.Error(t, err)
		assert.Nil(t, feed)
		assert.Contains(t, err.Error(), "randomPosts")
	})

	t.Run("isolation renders the failing section null", func(t *testing.T) {
		feed, err := build(featureflags.FeedSectionIsolation + "=on").Home(ctx, viewer.ID)
		require.NoError(t, err)
		assert.Nil(t, feed.RandomPosts)
		assert.Len(t, feed.RecentPosts, 1)
		assert.Len(t, feed.StatusList, 1)
	})
}
