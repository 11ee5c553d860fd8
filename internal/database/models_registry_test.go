package database

import (
	"testing"

	modelspkg "vzsocial/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestPersistentModels_IncludesEngagementTables(t *testing.T) {
	var hasComment, hasLike bool
	for _, model := range PersistentModels() {
		switch model.(type) {
		case *modelspkg.Comment:
			hasComment = true
		case *modelspkg.Like:
			hasLike = true
		}
	}
	require.True(t, hasComment, "PersistentModels should include Comment")
	require.True(t, hasLike, "PersistentModels should include Like")
}

func TestPersistentModels_AutoMigrate(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(PersistentModels()...))
	assert.True(t, db.Migrator().HasIndex(&modelspkg.Like{}, "idx_like_user_post"))
	assert.True(t, db.Migrator().HasIndex(&modelspkg.Follow{}, "idx_follow_pair"))
}
