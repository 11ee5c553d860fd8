package database

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestLoadMigrations_SortsAndPairs(t *testing.T) {
	fsys := fstest.MapFS{
		"m/000002_second.up.sql":   {Data: []byte("CREATE TABLE b (id INTEGER);")},
		"m/000002_second.down.sql": {Data: []byte("DROP TABLE b;")},
		"m/000001_first.up.sql":    {Data: []byte("CREATE TABLE a (id INTEGER);")},
		"m/000001_first.down.sql":  {Data: []byte("DROP TABLE a;")},
		"m/README.md":              {Data: []byte("ignored")},
	}

	got, err := LoadMigrations(fsys, "m")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Version)
	assert.Equal(t, "first", got[0].Name)
	assert.Equal(t, "000002_second", got[1].String())
	assert.Equal(t, "DROP TABLE b;", got[1].DownScript)
}

func TestLoadMigrations_MissingDownScript(t *testing.T) {
	fsys := fstest.MapFS{
		"m/000001_first.up.sql": {Data: []byte("SELECT 1;")},
	}
	_, err := LoadMigrations(fsys, "m")
	assert.Error(t, err)
}

func TestEmbeddedMigrationsAreWellFormed(t *testing.T) {
	all, err := GetMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, all)
	for i, m := range all {
		assert.Equal(t, i+1, m.Version, "migration versions must be contiguous")
		assert.NotEmpty(t, m.UpScript)
		assert.NotEmpty(t, m.DownScript)
	}
}

func TestRunMigrations_AppliesOnce(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	ctx := context.Background()

	all := []Migration{
		{Version: 1, Name: "widgets", UpScript: "CREATE TABLE widgets (id INTEGER PRIMARY KEY);", DownScript: "DROP TABLE widgets;"},
	}

	require.NoError(t, runMigrations(ctx, db, all))
	require.NoError(t, runMigrations(ctx, db, all))

	versions, err := appliedVersions(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, versions)
	assert.True(t, db.Migrator().HasTable("widgets"))
}

func TestRunMigrations_RejectsUnknownAppliedVersion(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, ensureMigrationLog(ctx, db))
	require.NoError(t, db.Create(&MigrationLog{Version: 99, Name: "ghost"}).Error)

	err = runMigrations(ctx, db, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "000099")
}
