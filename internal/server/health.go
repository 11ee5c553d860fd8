package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"
)

const (
	statusHealthy     = "healthy"
	statusUnhealthy   = "unhealthy"
	statusUnavailable = "unavailable"
	statusDegraded    = "degraded"
)

// pinger is implemented by object stores that can ping their bucket.
type pinger interface {
	Ping(ctx context.Context) error
}

// dependency is one readiness check. Only critical dependencies fail it.
type dependency struct {
	name     string
	critical bool
	run      func(ctx context.Context) error // nil means not configured
}

func (s *Server) dependencies() []dependency {
	out := []dependency{{
		name:     "database",
		critical: true,
		run: func(ctx context.Context) error {
			sqlDB, err := s.db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}}

	redisDep := dependency{name: "redis"}
	if s.redis != nil {
		redisDep.run = func(ctx context.Context) error { return s.redis.Ping(ctx).Err() }
	}
	out = append(out, redisDep)

	if p, ok := s.store.(pinger); ok {
		out = append(out, dependency{name: "storage", run: p.Ping})
	}
	return out
}

// LivenessCheck answers as long as the process serves requests.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "up", "time": time.Now()})
}

// ReadinessCheck pings dependencies concurrently. Only the database is
// critical; the cache and object store degrade the status instead.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	deps := s.dependencies()
	results := make([]string, len(deps))
	var g errgroup.Group
	for i, p := range deps {
		if p.run == nil {
			results[i] = statusUnavailable
			continue
		}
		i, p := i, p
		g.Go(func() error {
			results[i] = statusHealthy
			if err := p.run(ctx); err != nil {
				results[i] = statusUnhealthy
			}
			return nil
		})
	}
	_ = g.Wait()

	overall, code := statusHealthy, fiber.StatusOK
	checks := fiber.Map{}
	for i, p := range deps {
		checks[p.name] = results[i]
		if results[i] == statusHealthy {
			continue
		}
		if p.critical {
			overall, code = statusUnhealthy, fiber.StatusServiceUnavailable
		} else if overall == statusHealthy {
			overall = statusDegraded
		}
	}

	return c.Status(code).JSON(fiber.Map{"status": overall, "checks": checks, "time": time.Now()})
}
