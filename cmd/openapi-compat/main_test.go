package main

import (
	"os"
	"testing"

	"vzsocial/docs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseYAML = `
paths:
  /home/{id}:
    get:
      parameters:
        - name: id
          in: path
          required: true
      responses:
        "200": {}
        "404": {}
  /like:
    post:
      responses:
        "200": {}
`

func TestParseSpec_CompiledDocs(t *testing.T) {
	spec, err := parseSpec([]byte(docs.SwaggerInfo.ReadDoc()))
	require.NoError(t, err)
	require.Contains(t, spec.Paths, "/comment/{post_id}")
	assert.Contains(t, spec.Paths["/comment/{post_id}"]["get"].Responses, "200")
	assert.True(t, spec.Paths["/comment/{post_id}"]["get"].Parameters["post_id"])

	assert.Empty(t, compare(spec, spec))
}

func TestCompare_FlagsBreakingChanges(t *testing.T) {
	base, err := parseSpec([]byte(baseYAML))
	require.NoError(t, err)

	revision, err := parseSpec([]byte(`
paths:
  /home/{id}:
    get:
      parameters:
        - name: id
          in: path
          required: true
        - name: page
          in: query
          required: true
      responses:
        "200": {}
`))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"new required parameter: GET /home/{id} -> page",
		"removed path: /like",
		"removed response code: GET /home/{id} -> 404",
	}, compare(base, revision))
}

func TestCompare_AdditionsAreCompatible(t *testing.T) {
	base, err := parseSpec([]byte(baseYAML))
	require.NoError(t, err)

	revision, err := parseSpec([]byte(baseYAML + `
  /follow:
    post:
      responses:
        "201": {}
`))
	require.NoError(t, err)
	assert.Empty(t, compare(base, revision))
}

func TestParseSpec_RequiresPaths(t *testing.T) {
	_, err := parseSpec([]byte("info: {}\n"))
	assert.Error(t, err)
}

func TestCompiledDocsMatchBaseline(t *testing.T) {
	base, err := loadSpec("../../docs/swagger.json")
	require.NoError(t, err)
	compiled, err := parseSpec([]byte(docs.SwaggerInfo.ReadDoc()))
	require.NoError(t, err)

	assert.Empty(t, compare(base, compiled))
	assert.Empty(t, compare(compiled, base), "baseline is stale; rerun swag init")
	assert.Len(t, compiled.Paths, len(base.Paths))

	ops := 0
	for _, byMethod := range compiled.Paths {
		ops += len(byMethod)
	}
	assert.Equal(t, 25, ops)
}

func TestLoadSpec_MissingFile(t *testing.T) {
	_, err := loadSpec(t.TempDir() + "/none.json")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
