package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"vzsocial/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// queryLogger routes GORM output through slog. Record-not-found is routine
// for lookups and never logged as an error.
type queryLogger struct {
	log   *slog.Logger
	level logger.LogLevel
	slow  time.Duration
}

func newQueryLogger(l *slog.Logger, level logger.LogLevel) *queryLogger {
	return &queryLogger{log: l, level: level, slow: slowQueryThreshold}
}

func (q *queryLogger) LogMode(level logger.LogLevel) logger.Interface {
	clone := *q
	clone.level = level
	return &clone
}

func (q *queryLogger) Info(ctx context.Context, msg string, data ...any) {
	if q.level >= logger.Info {
		q.log.InfoContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (q *queryLogger) Warn(ctx context.Context, msg string, data ...any) {
	if q.level >= logger.Warn {
		q.log.WarnContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (q *queryLogger) Error(ctx context.Context, msg string, data ...any) {
	if q.level >= logger.Error {
		q.log.ErrorContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (q *queryLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if q.level <= logger.Silent {
		return
	}
	elapsed := time.Since(begin)
	slow := q.slow > 0 && elapsed > q.slow
	if slow {
		observability.SlowQueries.Inc()
	}

	failed := err != nil && !errors.Is(err, gorm.ErrRecordNotFound)
	if !failed && !slow && q.level < logger.Info {
		return
	}

	sql, rows := fc()
	attrs := []any{slog.String("sql", sql), slog.Int64("rows", rows), slog.Duration("elapsed", elapsed)}
	switch {
	case failed && q.level >= logger.Error:
		q.log.ErrorContext(ctx, "query failed", append(attrs, slog.String("error", err.Error()))...)
	case slow && q.level >= logger.Warn:
		q.log.WarnContext(ctx, "slow query", attrs...)
	case q.level >= logger.Info:
		q.log.DebugContext(ctx, "query", attrs...)
	}
}
