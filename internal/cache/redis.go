// Package cache provides Redis caching utilities for the application.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"vzsocial/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// client is nil when Redis is unreachable; every helper then degrades to a no-op.
var client *redis.Client

const (
	dialTimeout = 2 * time.Second
	ioTimeout   = 500 * time.Millisecond
)

// errorHook counts failed commands. redis.Nil is a cache miss, not a failure.
type errorHook struct{}

func (errorHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (errorHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			middleware.RedisErrors.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (errorHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			middleware.RedisErrors.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// options accepts either a redis:// URL or a bare host:port.
func options(addr string) (*redis.Options, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New("empty redis address")
	}
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}
	// Cache reads sit on request paths; fail fast and fall back to the database.
	opts.DialTimeout = dialTimeout
	opts.ReadTimeout = ioTimeout
	opts.WriteTimeout = ioTimeout
	return opts, nil
}

// Connect dials Redis and pings it.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	opts, err := options(addr)
	if err != nil {
		return nil, err
	}
	c := redis.NewClient(opts)
	c.AddHook(errorHook{})
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

// InitRedis installs the package client. Failures leave caching disabled.
func InitRedis(addr string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, err := Connect(ctx, addr)
	if err != nil {
		middleware.Logger.Warn("Redis unavailable, continuing without cache",
			slog.String("addr", addr), slog.String("error", err.Error()))
		client = nil
		return
	}
	client = c
	middleware.Logger.Info("Redis connected", slog.String("addr", c.Options().Addr))
}

// GetClient returns the current Redis client instance.
func GetClient() *redis.Client {
	return client
}

// SetClient replaces the Redis client. Passing nil disables caching.
func SetClient(c *redis.Client) {
	client = c
}
