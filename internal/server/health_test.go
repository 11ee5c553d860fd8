package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"vzsocial/internal/config"
	"vzsocial/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingStore struct {
	*testutil.MemoryStore
	err error
}

func (p pingStore) Ping(context.Context) error { return p.err }

func readiness(t *testing.T, srv *Server) (int, map[string]any) {
	t.Helper()
	resp, err := srv.NewApp().Test(httptest.NewRequest("GET", "/health/ready", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestReadiness_Dependencies(t *testing.T) {
	cfg := &config.Config{JWTSecret: testSecret, Env: "test"}
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	t.Run("all healthy", func(t *testing.T) {
		srv, err := NewServerWithDeps(cfg, testutil.NewSQLiteDB(t), rdb, pingStore{MemoryStore: testutil.NewMemoryStore()})
		require.NoError(t, err)

		status, body := readiness(t, srv)
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, map[string]any{"database": "healthy", "redis": "healthy", "storage": "healthy"}, body["checks"])
	})

	t.Run("storage failure degrades", func(t *testing.T) {
		store := pingStore{MemoryStore: testutil.NewMemoryStore(), err: errors.New("no bucket")}
		srv, err := NewServerWithDeps(cfg, testutil.NewSQLiteDB(t), rdb, store)
		require.NoError(t, err)

		status, body := readiness(t, srv)
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "degraded", body["status"])
		assert.Equal(t, "unhealthy", body["checks"].(map[string]any)["storage"])
	})

	t.Run("database failure is fatal", func(t *testing.T) {
		db := testutil.NewSQLiteDB(t)
		srv, err := NewServerWithDeps(cfg, db, rdb, testutil.NewMemoryStore())
		require.NoError(t, err)
		sqlDB, err := db.DB()
		require.NoError(t, err)
		require.NoError(t, sqlDB.Close())

		status, body := readiness(t, srv)
		assert.Equal(t, fiber.StatusServiceUnavailable, status)
		assert.Equal(t, "unhealthy", body["status"])
	})
}
