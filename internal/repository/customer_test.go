package repository

import (
	"regexp"
	"testing"

	"vzsocial/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCustomerRepository_GetByID(t *testing.T) {
	tests := []struct {
		name          string
		mockBehavior  func(mock sqlmock.Sqlmock)
		expectedError string
	}{
		{
			name: "found",
			mockBehavior: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "customers" WHERE "customers"."id" = $1 ORDER BY "customers"."id" LIMIT $2`)).
					WithArgs(1, 1).
					WillReturnRows(sqlmock.NewRows([]string{"id", "name", "phone"}).AddRow(1, "Ada", "+1555"))
			},
		},
		{
			name: "not found",
			mockBehavior: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "customers"`)).
					WithArgs(1, 1).
					WillReturnError(gorm.ErrRecordNotFound)
			},
			expectedError: models.CodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			repo := NewCustomerRepository(db)
			tt.mockBehavior(mock)

			customer, err := repo.GetByID(ctx, 1)
			if tt.expectedError != "" {
				var appErr *models.AppError
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, tt.expectedError, appErr.Code)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "Ada", customer.Name)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCustomerRepository_CreateDuplicateIsConflict(t *testing.T) {
	db := setupSQLite(t)
	repo := NewCustomerRepository(db)

	first := &models.Customer{Name: "a", Email: "dup@example.com", Phone: "1", Password: "x"}
	require.NoError(t, repo.Create(ctx, first))

	second := &models.Customer{Name: "b", Email: "dup@example.com", Phone: "2", Password: "x"}
	err := repo.Create(ctx, second)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeConflict, appErr.Code)
}

func TestCustomerRepository_Lookups(t *testing.T) {
	db := setupSQLite(t)
	repo := NewCustomerRepository(db)

	ada := seedCustomer(t, db, "ada")
	bob := seedCustomer(t, db, "bob")
	gone := seedCustomer(t, db, "gone")
	require.NoError(t, db.Model(gone).Update("is_deleted", true).Error)

	t.Run("GetByPhone miss is nil", func(t *testing.T) {
		c, err := repo.GetByPhone(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, c)
	})

	t.Run("GetByIDs skips unknown ids", func(t *testing.T) {
		got, err := repo.GetByIDs(ctx, []uint{ada.ID, 999})
		require.NoError(t, err)
		assert.Len(t, got, 1)
		assert.Equal(t, "ada", got[ada.ID].Name)
	})

	t.Run("ListActive excludes deleted accounts", func(t *testing.T) {
		got, err := repo.ListActive(ctx)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, ada.ID, got[0].ID)
		assert.Equal(t, bob.ID, got[1].ID)
	})

	t.Run("ListSuggestions honours exclusions", func(t *testing.T) {
		got, err := repo.ListSuggestions(ctx, []uint{ada.ID}, 10)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, bob.ID, got[0].ID)
	})

	t.Run("UpdateToken unknown account", func(t *testing.T) {
		err := repo.UpdateToken(ctx, 999, "tok")
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeNotFound, appErr.Code)
	})
}
