package repository

import (
	"regexp"
	"testing"

	"vzsocial/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowRepository(t *testing.T) {
	db := setupSQLite(t)
	repo := NewFollowRepository(db)
	a := seedCustomer(t, db, "a")
	b := seedCustomer(t, db, "b")

	t.Run("Create is idempotent", func(t *testing.T) {
		first, err := repo.Create(ctx, a.ID, b.ID)
		require.NoError(t, err)
		second, err := repo.Create(ctx, a.ID, b.ID)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)

		var count int64
		db.Model(&models.Follow{}).Count(&count)
		assert.EqualValues(t, 1, count)
	})

	t.Run("directional counts", func(t *testing.T) {
		followers, err := repo.CountFollowers(ctx, b.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, followers)

		following, err := repo.CountFollowing(ctx, b.ID)
		require.NoError(t, err)
		assert.Zero(t, following)

		ids, err := repo.FollowingIDs(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, []uint{b.ID}, ids)
	})

	t.Run("FollowBack materializes reciprocal edge", func(t *testing.T) {
		edge, err := repo.Create(ctx, a.ID, b.ID)
		require.NoError(t, err)

		back, err := repo.FollowBack(ctx, edge.ID)
		require.NoError(t, err)
		assert.Equal(t, b.ID, back.MyID)
		assert.Equal(t, a.ID, back.FollowID)
		assert.True(t, back.FollowBack)

		original, err := repo.GetByID(ctx, edge.ID)
		require.NoError(t, err)
		assert.True(t, original.FollowBack)

		again, err := repo.FollowBack(ctx, edge.ID)
		require.NoError(t, err)
		assert.Equal(t, back.ID, again.ID)
	})

	t.Run("FollowBack unknown record", func(t *testing.T) {
		_, err := repo.FollowBack(ctx, 9999)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeNotFound, appErr.Code)
	})
}

func TestFollowRepository_CountsInTheDatabase(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFollowRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "follows" WHERE follow_id = $1`)).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1200))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "follows" WHERE my_id = $1`)).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	followers, err := repo.CountFollowers(ctx, 3)
	require.NoError(t, err)
	assert.EqualValues(t, 1200, followers)

	following, err := repo.CountFollowing(ctx, 3)
	require.NoError(t, err)
	assert.EqualValues(t, 7, following)

	assert.NoError(t, mock.ExpectationsWereMet())
}
