package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_AddsScope(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "production")

	ctx := WithScope(context.Background(), RequestScope{RequestID: "req-1", PrincipalID: 7, Kind: KindCustomer})
	logger.With("component", "feed").InfoContext(ctx, "built")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, float64(7), line["principal_id"])
	assert.Equal(t, KindCustomer, line["principal_kind"])
	assert.Equal(t, "feed", line["component"])
	assert.NotContains(t, line, "trace_id")
}

func TestNewLogger_TestEnvSuppressesInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "test")
	logger.Info("hidden")
	assert.Empty(t, buf.String())
	logger.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func withCapturedLogger(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := Logger
	Logger = NewLogger(&buf, "production")
	t.Cleanup(func() { Logger = prev })
	return &buf
}

func TestStructuredLogger_LevelsAndScope(t *testing.T) {
	buf := withCapturedLogger(t)

	app := fiber.New()
	app.Use(requestid.New(), ContextMiddleware(), StructuredLogger())
	app.Get("/health/live", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Get("/me", AuthRequired(testSecret), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/boom", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusBadGateway, "upstream") })

	token, err := IssueToken(testSecret, Principal{ID: 9, Kind: KindCustomer}, time.Hour)
	require.NoError(t, err)

	for _, tc := range []struct {
		path, token string
	}{{"/health/live", ""}, {"/me", token}, {"/me", ""}, {"/boom", ""}} {
		req := httptest.NewRequest("GET", tc.path, nil)
		if tc.token != "" {
			req.Header.Set("Authorization", "Bearer "+tc.token)
		}
		_, err := app.Test(req)
		require.NoError(t, err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3, "successful health checks are not logged")

	var entries []map[string]any
	for _, l := range lines {
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(l), &m))
		entries = append(entries, m)
	}
	assert.Equal(t, "INFO", entries[0]["level"])
	assert.Equal(t, float64(9), entries[0]["principal_id"])
	assert.NotEmpty(t, entries[0]["request_id"])

	assert.Equal(t, "WARN", entries[1]["level"])
	assert.Equal(t, float64(401), entries[1]["status"])

	assert.Equal(t, "ERROR", entries[2]["level"])
	assert.Equal(t, float64(502), entries[2]["status"])
	assert.Equal(t, "upstream", entries[2]["error"])
}
