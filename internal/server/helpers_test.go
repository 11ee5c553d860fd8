package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"vzsocial/internal/config"
	"vzsocial/internal/middleware"
	"vzsocial/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHumanizeParam(t *testing.T) {
	tests := []struct {
		param    string
		expected string
	}{
		{"id", "ID"},
		{"post_id", "post ID"},
		{"movie_id", "movie ID"},
		{"commentId", "comment ID"},
		{"followRecordId", "follow record ID"},
		{"something", "something"},
	}
	for _, tt := range tests {
		t.Run(tt.param, func(t *testing.T) {
			assert.Equal(t, tt.expected, humanizeParam(tt.param))
		})
	}
}

func TestFlexID(t *testing.T) {
	var req struct {
		A flexID  `json:"a"`
		B flexID  `json:"b"`
		C flexID  `json:"c"`
		D *flexID `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":12,"b":"34","c":"","d":null}`), &req))
	assert.Equal(t, flexID(12), req.A)
	assert.Equal(t, flexID(34), req.B)
	assert.Equal(t, flexID(0), req.C)
	assert.Nil(t, req.D)

	assert.Error(t, json.Unmarshal([]byte(`{"a":"abc"}`), &req))
	assert.Error(t, json.Unmarshal([]byte(`{"a":-1}`), &req))
}

func TestActingCustomer(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		viewer  uint
		body    uint
		want    uint
		wantErr bool
	}{
		{"anonymous uses body", "", 0, 7, 7, false},
		{"token fills missing body", middleware.KindCustomer, 3, 0, 3, false},
		{"token matches body", middleware.KindCustomer, 3, 3, 3, false},
		{"token disagrees with body", middleware.KindCustomer, 3, 7, 0, true},
		{"admin token is not a customer", middleware.KindAdmin, 3, 7, 7, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				if tt.kind != "" {
					c.Locals(middleware.LocalKind, tt.kind)
					c.Locals(middleware.LocalUserID, tt.viewer)
				}
				got, err := actingCustomer(c, tt.body)
				if tt.wantErr {
					assert.Equal(t, fiber.StatusForbidden, models.StatusFor(err))
				} else {
					assert.NoError(t, err)
					assert.Equal(t, tt.want, got)
				}
				return nil
			})
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			_ = resp.Body.Close()
		})
	}
}

func TestParseID(t *testing.T) {
	s := &Server{}
	app := fiber.New()
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		id, err := s.parseID(c, "id")
		if err != nil {
			return nil
		}
		return c.JSON(fiber.Map{"id": id})
	})

	for path, status := range map[string]int{
		"/items/5":   fiber.StatusOK,
		"/items/0":   fiber.StatusBadRequest,
		"/items/-3":  fiber.StatusBadRequest,
		"/items/abc": fiber.StatusBadRequest,
	} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		assert.Equal(t, status, resp.StatusCode, path)
		_ = resp.Body.Close()
	}
}

func TestSetupMiddleware_SecurityAndCORS(t *testing.T) {
	srv := &Server{
		config: &config.Config{AllowedOrigins: "http://localhost:5173"},
	}
	app := fiber.New()
	srv.SetupMiddleware(app)
	app.Get("/ok", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, resp.Header.Get("X-Content-Type-Options"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
	assert.NotEmpty(t, resp.Header.Get("X-Trace-ID"))

	preflight := httptest.NewRequest(http.MethodOptions, "/ok", nil)
	preflight.Header.Set("Origin", "http://localhost:5173")
	preflight.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp2, err := app.Test(preflight, -1)
	require.NoError(t, err)
	defer func() { _ = resp2.Body.Close() }()
	assert.Equal(t, fiber.StatusNoContent, resp2.StatusCode)
}
