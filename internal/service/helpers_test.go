package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"testing"
	"time"

	"vzsocial/internal/featureflags"
	"vzsocial/internal/models"
	"vzsocial/internal/repository"
	"vzsocial/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var ctx = context.Background()

// testEnv wires real repositories over a private in-memory database.
type testEnv struct {
	db         *gorm.DB
	customers  repository.CustomerRepository
	posts      repository.PostRepository
	follows    repository.FollowRepository
	comments   repository.CommentRepository
	likes      repository.LikeRepository
	engagement *EngagementCounter
	store      *testutil.MemoryStore
	clock      time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	e := &testEnv{
		db:        db,
		customers: repository.NewCustomerRepository(db),
		posts:     repository.NewPostRepository(db),
		follows:   repository.NewFollowRepository(db),
		comments:  repository.NewCommentRepository(db),
		likes:     repository.NewLikeRepository(db),
		store:     testutil.NewMemoryStore(),
		clock:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	e.engagement = NewEngagementCounter(e.likes, e.comments)
	return e
}

// tick returns strictly increasing timestamps.
func (e *testEnv) tick() time.Time {
	e.clock = e.clock.Add(time.Second)
	return e.clock
}

func (e *testEnv) commentService() *CommentService {
	return NewCommentService(e.comments, e.posts, e.customers)
}

func (e *testEnv) feedService(flags string) *FeedService {
	return NewFeedService(e.customers, e.posts, e.follows, e.engagement, featureflags.NewManager(flags), 4)
}

func (e *testEnv) likeService() *LikeService {
	return NewLikeService(e.likes, e.posts, e.customers)
}

func (e *testEnv) customer(t *testing.T, name string) *models.Customer {
	t.Helper()
	c := &models.Customer{
		Name:         name,
		Email:        name + "@example.com",
		Phone:        "+1-" + name,
		Password:     "x",
		Gender:       models.GenderOther,
		ProfileImage: fmt.Sprintf("https://img.example.com/%s.png", name),
		CreatedAt:    e.tick(),
	}
	require.NoError(t, e.db.Create(c).Error)
	return c
}

func (e *testEnv) post(t *testing.T, owner uint, postType, mediaType string, media ...string) *models.Post {
	t.Helper()
	if len(media) == 0 {
		media = []string{"https://cdn.example.com/1.png", "https://cdn.example.com/2.png"}
	}
	p := &models.Post{
		CustomerID: owner,
		Type:       mediaType,
		PostType:   postType,
		Media:      media,
		CreatedAt:  e.tick(),
	}
	require.NoError(t, e.db.Create(p).Error)
	return p
}

func (e *testEnv) comment(t *testing.T, postID, userID uint, parent *models.Comment, text string) *models.Comment {
	t.Helper()
	c := &models.Comment{PostID: postID, UserID: userID, CommentText: text, CreatedAt: e.tick()}
	if parent != nil {
		c.ParentCommentID = &parent.ID
	}
	require.NoError(t, e.comments.Create(ctx, c))
	return c
}

func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppError(t, err, models.CodeValidation)
}

func mustDecodePNG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}
