package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"vzsocial/internal/models"
	"vzsocial/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func setupSQLite(t *testing.T) *gorm.DB {
	return testutil.NewSQLiteDB(t)
}

func seedCustomer(t *testing.T, db *gorm.DB, name string) *models.Customer {
	t.Helper()
	c := &models.Customer{
		Name:     name,
		Email:    fmt.Sprintf("%s@example.com", name),
		Phone:    "+1555-" + name,
		Password: "hash",
		Gender:   models.GenderOther,
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

func seedPost(t *testing.T, db *gorm.DB, owner uint, postType, mediaType string, at time.Time) *models.Post {
	t.Helper()
	p := &models.Post{
		CustomerID: owner,
		Type:       mediaType,
		PostType:   postType,
		Media:      []string{"https://cdn.example.com/a.png"},
		CreatedAt:  at,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

var ctx = context.Background()
