package database

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func captureLogger(level logger.LogLevel) (*queryLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return newQueryLogger(l, level), &buf
}

func TestQueryLogger_Trace(t *testing.T) {
	ctx := context.Background()
	sql := func() (string, int64) { return "SELECT 1", 1 }

	t.Run("errors logged except not found", func(t *testing.T) {
		q, buf := captureLogger(logger.Warn)
		q.Trace(ctx, time.Now(), sql, gorm.ErrRecordNotFound)
		assert.Empty(t, buf.String())

		q.Trace(ctx, time.Now(), sql, errors.New("deadlock"))
		assert.Contains(t, buf.String(), `"msg":"query failed"`)
		assert.Contains(t, buf.String(), "deadlock")
	})

	t.Run("slow query warns", func(t *testing.T) {
		q, buf := captureLogger(logger.Warn)
		q.Trace(ctx, time.Now().Add(-time.Second), sql, nil)
		assert.Contains(t, buf.String(), `"msg":"slow query"`)
	})

	t.Run("fast query quiet below info", func(t *testing.T) {
		q, buf := captureLogger(logger.Warn)
		q.Trace(ctx, time.Now(), sql, nil)
		assert.Empty(t, buf.String())

		q.LogMode(logger.Info).Trace(ctx, time.Now(), sql, nil)
		assert.Contains(t, buf.String(), `"sql":"SELECT 1"`)
	})

	t.Run("silent", func(t *testing.T) {
		q, buf := captureLogger(logger.Silent)
		q.Trace(ctx, time.Now(), sql, errors.New("boom"))
		assert.Empty(t, buf.String())
	})
}
