package repository

import (
	"regexp"
	"testing"
	"time"

	"vzsocial/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_CreateReplyBumpsParent(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)

	parent := uint(7)
	reply := &models.Comment{PostID: 1, UserID: 2, ParentCommentID: &parent, CommentText: "hi"}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "comments"`)).
		WillReturnRows(sqlmock.NewRows([]string{"like_count", "reply_count", "status", "is_deleted", "id"}).AddRow(0, 0, "active", false, 8))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "comments" SET "reply_count"=reply_count + $1 WHERE id = $2`)).
		WithArgs(1, parent).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(ctx, reply))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_Tree(t *testing.T) {
	db := setupSQLite(t)
	repo := NewCommentRepository(db)
	u := seedCustomer(t, db, "u")
	p := seedPost(t, db, u.ID, models.PostTypePost, models.MediaTypeImage, time.Now())

	top := &models.Comment{PostID: p.ID, UserID: u.ID, CommentText: "top"}
	require.NoError(t, repo.Create(ctx, top))
	r1 := &models.Comment{PostID: p.ID, UserID: u.ID, ParentCommentID: &top.ID, CommentText: "r1"}
	require.NoError(t, repo.Create(ctx, r1))
	r2 := &models.Comment{PostID: p.ID, UserID: u.ID, ParentCommentID: &top.ID, CommentText: "r2"}
	require.NoError(t, repo.Create(ctx, r2))

	got, err := repo.GetByID(ctx, top.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.ReplyCount)

	roots, err := repo.TopLevel(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, roots, 1)

	children, err := repo.ChildrenOf(ctx, []uint{top.ID})
	require.NoError(t, err)
	assert.Len(t, children, 2)

	counts, err := repo.CountLiveByPosts(ctx, []uint{p.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 3, counts[p.ID])

	t.Run("SoftDelete decrements and hides", func(t *testing.T) {
		require.NoError(t, repo.SoftDelete(ctx, r1.ID))

		parent, err := repo.GetByID(ctx, top.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, parent.ReplyCount)

		children, err := repo.ChildrenOf(ctx, []uint{top.ID})
		require.NoError(t, err)
		require.Len(t, children, 1)
		assert.Equal(t, r2.ID, children[0].ID)

		counts, err := repo.CountLiveByPosts(ctx, []uint{p.ID})
		require.NoError(t, err)
		assert.EqualValues(t, 2, counts[p.ID])
	})

	t.Run("SoftDelete twice is not found", func(t *testing.T) {
		err := repo.SoftDelete(ctx, r1.ID)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeNotFound, appErr.Code)
	})

	t.Run("reply_count never drops below zero", func(t *testing.T) {
		require.NoError(t, db.Model(&models.Comment{}).Where("id = ?", top.ID).Update("reply_count", 0).Error)
		require.NoError(t, repo.SoftDelete(ctx, r2.ID))

		parent, err := repo.GetByID(ctx, top.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, parent.ReplyCount)
	})
}
