package middleware

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Logger is the process-wide structured logger.
var Logger *slog.Logger

// RequestScope is what the logger knows about the request being served.
type RequestScope struct {
	RequestID   string
	TraceID     string
	PrincipalID uint
	Kind        string // customer or admin; empty for anonymous callers
}

type scopeKey struct{}

// WithScope attaches s to ctx; records logged with ctx carry its fields.
func WithScope(ctx context.Context, s RequestScope) context.Context {
	return context.WithValue(ctx, scopeKey{}, s)
}

// ScopeFrom returns the scope attached by WithScope.
func ScopeFrom(ctx context.Context) (RequestScope, bool) {
	s, ok := ctx.Value(scopeKey{}).(RequestScope)
	return s, ok
}

type scopeHandler struct {
	slog.Handler
}

func (h *scopeHandler) Handle(ctx context.Context, r slog.Record) error {
	if s, ok := ScopeFrom(ctx); ok {
		if s.RequestID != "" {
			r.AddAttrs(slog.String("request_id", s.RequestID))
		}
		if s.TraceID != "" {
			r.AddAttrs(slog.String("trace_id", s.TraceID))
		}
		if s.PrincipalID != 0 {
			r.AddAttrs(slog.Any("principal_id", s.PrincipalID), slog.String("principal_kind", s.Kind))
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h *scopeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &scopeHandler{h.Handler.WithAttrs(attrs)}
}

func (h *scopeHandler) WithGroup(name string) slog.Handler {
	return &scopeHandler{h.Handler.WithGroup(name)}
}

func init() {
	Logger = NewLogger(os.Stdout, os.Getenv("APP_ENV"))
}

// NewLogger builds the scope-aware logger: JSON in production, text
// elsewhere, and warnings only under test.
func NewLogger(w io.Writer, env string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var handler slog.Handler
	switch strings.ToLower(env) {
	case "production", "prod":
		handler = slog.NewJSONHandler(w, opts)
	case "test":
		opts.Level = slog.LevelWarn
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(&scopeHandler{handler})
}

// ContextMiddleware moves request id and trace id from Fiber locals into the
// request context so service-layer logs carry them. Auth middleware adds the
// principal when it runs.
func ContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, _ := ScopeFrom(c.UserContext())
		if rid, ok := c.Locals("requestid").(string); ok {
			s.RequestID = rid
		}
		if tid, ok := c.Locals("traceID").(string); ok {
			s.TraceID = tid
		}
		c.SetUserContext(WithScope(c.UserContext(), s))
		return c.Next()
	}
}

// scopePrincipal records the authenticated caller on the request scope.
func scopePrincipal(c *fiber.Ctx, p Principal) {
	s, _ := ScopeFrom(c.UserContext())
	s.PrincipalID, s.Kind = p.ID, p.Kind
	c.SetUserContext(WithScope(c.UserContext(), s))
}

var quietPaths = map[string]bool{
	"/health/live":  true,
	"/health/ready": true,
	"/metrics":      true,
}

// StructuredLogger writes one line per request, at error for 5xx and warn
// for 4xx. Successful health and scrape requests are skipped.
func StructuredLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		if quietPaths[c.Path()] && status < fiber.StatusBadRequest {
			return err
		}

		attrs := []any{
			slog.Int("status", status),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("route", c.Route().Path),
			slog.String("ip", c.IP()),
			slog.Duration("latency", time.Since(start)),
			slog.String("user_agent", c.Get(fiber.HeaderUserAgent)),
		}
		if err != nil {
			attrs = append(attrs, slog.String("error", err.Error()))
		}

		level := slog.LevelInfo
		switch {
		case status >= fiber.StatusInternalServerError:
			level = slog.LevelError
		case status >= fiber.StatusBadRequest:
			level = slog.LevelWarn
		}
		Logger.Log(c.UserContext(), level, "request", attrs...)
		return err
	}
}
