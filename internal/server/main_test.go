package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"vzsocial/internal/config"
	"vzsocial/internal/models"
	"vzsocial/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

type testServer struct {
	srv   *Server
	app   *fiber.App
	db    *gorm.DB
	store *testutil.MemoryStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	store := testutil.NewMemoryStore()
	cfg := &config.Config{
		JWTSecret:            testSecret,
		Port:                 "0",
		Env:                  "test",
		MediaMaxUploadSizeMB: 5,
		FeedConcurrency:      4,
	}
	srv, err := NewServerWithDeps(cfg, db, nil, store)
	require.NoError(t, err)
	return &testServer{srv: srv, app: srv.NewApp(), db: db, store: store}
}

// do sends a JSON request and decodes a JSON object response.
func (ts *testServer) do(t *testing.T, method, path string, body any, token string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return ts.send(t, req, token)
}

func (ts *testServer) send(t *testing.T, req *http.Request, token string) (int, map[string]any) {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	out := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	} else if len(raw) > 0 && raw[0] == '[' {
		var list []any
		require.NoError(t, json.Unmarshal(raw, &list))
		out["items"] = list
	}
	return resp.StatusCode, out
}

type formFile struct {
	field, name string
	data        []byte
}

// upload sends a multipart form.
func (ts *testServer) upload(t *testing.T, path string, fields map[string]string, files []formFile, token string) (int, map[string]any) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return ts.send(t, req, token)
}

// register creates a customer through the API and returns its id and token.
func (ts *testServer) register(t *testing.T, name string, n int) (uint, string) {
	t.Helper()
	status, body := ts.do(t, http.MethodPost, "/api/register", map[string]any{
		"name":     name,
		"email":    fmt.Sprintf("%s@example.com", name),
		"phone":    fmt.Sprintf("+1555000%04d", n),
		"password": "pw-" + name,
		"gender":   models.GenderOther,
	}, "")
	require.Equal(t, fiber.StatusCreated, status, body)
	detail := body["customer_detail"].(map[string]any)
	return uint(detail["customer_id"].(float64)), body["token"].(string)
}

func (ts *testServer) seedPost(t *testing.T, customerID uint, postType, mediaType string) models.Post {
	t.Helper()
	p := models.Post{
		CustomerID: customerID,
		Type:       mediaType,
		PostType:   postType,
		Media:      []string{"mem://a.png", "mem://b.png"},
	}
	require.NoError(t, ts.db.Create(&p).Error)
	return p
}

func idOf(v any) uint {
	return uint(v.(map[string]any)["_id"].(float64))
}
