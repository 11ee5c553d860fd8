package main

import (
	"bytes"
	"testing"

	"vzsocial/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	cmd, err := parseCommand([]string{" UP "})
	require.NoError(t, err)
	assert.Equal(t, "up", cmd.name)

	cmd, err = parseCommand([]string{"down", "3"})
	require.NoError(t, err)
	assert.Equal(t, command{name: "down", version: 3}, cmd)

	for _, args := range [][]string{nil, {"sideways"}, {"down"}, {"down", "x"}, {"down", "0"}} {
		_, err := parseCommand(args)
		assert.Error(t, err, "%v", args)
	}
}

func TestPrintStatus(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printStatus(&buf, &database.SchemaStatus{
		Mode:              "sql",
		Environment:       "development",
		WillRunSQL:        true,
		AppliedVersions:   []int{1},
		PendingMigrations: []database.Migration{{Version: 2, Name: "media_posts"}},
	}))

	out := buf.String()
	assert.Regexp(t, `mode\s+sql`, out)
	assert.Regexp(t, `pending\s+1\n`, out)
	assert.Contains(t, out, "000002_media_posts")
}
