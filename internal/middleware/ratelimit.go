package middleware

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Limit is a fixed-window budget for one named action.
type Limit struct {
	Name   string
	Max    int
	Window time.Duration
	// FailClosed answers 503 when Redis is unreachable instead of letting
	// the request through.
	FailClosed bool
}

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed   bool
	Remaining int
	ResetIn   time.Duration
}

var errNoLimiterStore = errors.New("rate limiter has no redis client")

// Local and dev stacks often run without Redis; only real deployments limit.
func rateLimitBypassed() bool {
	switch os.Getenv("APP_ENV") {
	case "", "test", "development", "stress":
		return true
	}
	return false
}

// Allow counts one hit against caller's window for l. The counter and its
// expiry are read in one round trip; the expiry is set by the first hit.
func Allow(ctx context.Context, rdb *redis.Client, l Limit, caller string) (Decision, error) {
	if rateLimitBypassed() {
		return Decision{Allowed: true, Remaining: l.Max, ResetIn: l.Window}, nil
	}
	if rdb == nil {
		return Decision{}, errNoLimiterStore
	}

	key := "rl:" + l.Name + ":" + caller
	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	if _, err := rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, key)
		ttl = p.PTTL(ctx, key)
		return nil
	}); err != nil {
		return Decision{}, err
	}

	resetIn := ttl.Val()
	if resetIn < 0 {
		if err := rdb.PExpire(ctx, key, l.Window).Err(); err != nil {
			return Decision{}, err
		}
		resetIn = l.Window
	}

	count := int(incr.Val())
	return Decision{
		Allowed:   count <= l.Max,
		Remaining: max(l.Max-count, 0),
		ResetIn:   resetIn,
	}, nil
}

// callerKey identifies the caller: the authenticated principal when there is
// one, otherwise the remote address.
func callerKey(c *fiber.Ctx) string {
	if uid, ok := c.Locals(LocalUserID).(uint); ok {
		kind, _ := c.Locals(LocalKind).(string)
		if kind == "" {
			kind = KindCustomer
		}
		return kind + ":" + strconv.FormatUint(uint64(uid), 10)
	}
	return "ip:" + c.IP()
}

// RateLimit enforces l per caller and reports the budget in X-RateLimit
// headers.
func RateLimit(rdb *redis.Client, l Limit) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d, err := Allow(c.UserContext(), rdb, l, callerKey(c))
		if err != nil {
			if !l.FailClosed {
				return c.Next()
			}
			Logger.WarnContext(c.UserContext(), "rate limit store unavailable",
				slog.String("limit", l.Name), slog.String("error", err.Error()))
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "rate limit unavailable",
			})
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(l.Max))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		if !d.Allowed {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(d.ResetIn.Seconds()))))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "rate limit exceeded",
			})
		}
		return c.Next()
	}
}
