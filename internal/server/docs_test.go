package server

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"
	"testing"

	"vzsocial/docs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var routeParam = regexp.MustCompile(`:([A-Za-z0-9_]+)`)

func TestEveryAPIRouteIsDocumented(t *testing.T) {
	ts := newTestServer(t)

	var doc struct {
		BasePath string                                `json:"basePath"`
		Paths    map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(docs.SwaggerInfo.ReadDoc()), &doc))
	require.Equal(t, "/api", doc.BasePath)

	checked := 0
	for _, r := range ts.app.GetRoutes(true) {
		if r.Method == http.MethodHead || !strings.HasPrefix(r.Path, doc.BasePath+"/") {
			continue
		}
		rel := strings.TrimSuffix(strings.TrimPrefix(r.Path, doc.BasePath), "/")
		if rel == "" {
			continue
		}
		rel = routeParam.ReplaceAllString(rel, "{$1}")

		ops, ok := doc.Paths[rel]
		if !assert.True(t, ok, "undocumented path %s", rel) {
			continue
		}
		assert.Contains(t, ops, strings.ToLower(r.Method), "undocumented operation %s %s", r.Method, rel)
		checked++
	}
	assert.Equal(t, 25, checked)
}
