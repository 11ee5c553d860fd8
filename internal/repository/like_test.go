package repository

import (
	"regexp"
	"sync"
	"testing"
	"time"

	"vzsocial/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeRepository_Toggle(t *testing.T) {
	db := setupSQLite(t)
	repo := NewLikeRepository(db)
	u := seedCustomer(t, db, "u")
	p := seedPost(t, db, u.ID, models.PostTypePost, models.MediaTypeImage, time.Now())

	for i := 1; i <= 5; i++ {
		liked, err := repo.Toggle(ctx, u.ID, p.ID)
		require.NoError(t, err)
		assert.Equal(t, i%2 == 1, liked, "toggle %d", i)
	}

	counts, err := repo.CountByPosts(ctx, []uint{p.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, counts[p.ID])

	liked, err := repo.LikedPostIDs(ctx, u.ID, []uint{p.ID, 999})
	require.NoError(t, err)
	assert.True(t, liked[p.ID])
	assert.False(t, liked[999])
}

func TestLikeRepository_ConcurrentTogglesKeepOneRow(t *testing.T) {
	db := setupSQLite(t)
	repo := NewLikeRepository(db)
	u := seedCustomer(t, db, "u")
	p := seedPost(t, db, u.ID, models.PostTypePost, models.MediaTypeImage, time.Now())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.Toggle(ctx, u.ID, p.ID)
		}()
	}
	wg.Wait()

	var rows int64
	require.NoError(t, db.Model(&models.Like{}).Where("user_id = ? AND post_id = ?", u.ID, p.ID).Count(&rows).Error)
	assert.LessOrEqual(t, rows, int64(1))
}

func TestLikeRepository_Toggle_LostInsertRace(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewLikeRepository(db)

	deleteLike := regexp.QuoteMeta(`DELETE FROM "likes" WHERE user_id = $1 AND post_id = $2`)
	mock.ExpectBegin()
	mock.ExpectExec(deleteLike).WithArgs(7, 9).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "likes"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(deleteLike).WithArgs(7, 9).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	liked, err := repo.Toggle(ctx, 7, 9)
	require.NoError(t, err)
	assert.False(t, liked, "the competing like is undone, not reported as ours")
	assert.NoError(t, mock.ExpectationsWereMet())
}
