// Package middleware provides HTTP middleware and request-scoped helpers for the application.
package middleware

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token issuer and audience.
const (
	TokenIssuer   = "vzsocial-api"
	TokenAudience = "vzsocial-client"
)

// Principal kinds carried in the "kind" claim.
const (
	KindCustomer = "customer"
	KindAdmin    = "admin"
)

// Fiber locals populated by the auth middleware.
const (
	LocalUserID = "userID"
	LocalKind   = "principalKind"
	LocalRole   = "role"
)

var (
	ErrMissingToken = errors.New("authorization required")
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Principal is the authenticated caller extracted from a token.
type Principal struct {
	ID   uint
	Kind string
	Role string
}

// IssueToken signs an HS256 token for the given principal.
func IssueToken(secret string, p Principal, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(p.ID), 10),
		"kind": p.Kind,
		"role": p.Role,
		"iss":  TokenIssuer,
		"aud":  TokenAudience,
		"exp":  now.Add(ttl).Unix(),
		"iat":  now.Unix(),
		"nbf":  now.Unix(),
		"jti":  fmt.Sprintf("%d-%s", now.Unix(), uuid.New().String()[:8]),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates a raw token and returns its principal.
func ParseToken(secret, raw string) (*Principal, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(TokenIssuer), jwt.WithAudience(TokenAudience))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}
	id, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || id == 0 {
		return nil, ErrInvalidToken
	}

	kind, _ := claims["kind"].(string)
	if kind == "" {
		kind = KindCustomer
	}
	role, _ := claims["role"].(string)

	return &Principal{ID: uint(id), Kind: kind, Role: role}, nil
}

func bearerToken(c *fiber.Ctx) (string, error) {
	header := c.Get("Authorization")
	if header == "" {
		return "", ErrMissingToken
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", ErrInvalidToken
	}
	return parts[1], nil
}

func storePrincipal(c *fiber.Ctx, p *Principal) {
	c.Locals(LocalUserID, p.ID)
	c.Locals(LocalKind, p.Kind)
	c.Locals(LocalRole, p.Role)
	scopePrincipal(c, *p)
}

// AuthRequired rejects requests without a valid bearer token.
func AuthRequired(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := bearerToken(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization required",
				"code":  "UNAUTHORIZED",
			})
		}
		p, err := ParseToken(secret, raw)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
				"code":  "UNAUTHORIZED",
			})
		}
		storePrincipal(c, p)
		return c.Next()
	}
}

// OptionalAuth records the principal when a valid token is present and never rejects.
func OptionalAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if raw, err := bearerToken(c); err == nil {
			if p, err := ParseToken(secret, raw); err == nil {
				storePrincipal(c, p)
			}
		}
		return c.Next()
	}
}

// AdminRequired allows only admin principals with one of the given roles.
// Must run after AuthRequired.
func AdminRequired(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind, _ := c.Locals(LocalKind).(string)
		role, _ := c.Locals(LocalRole).(string)
		if kind != KindAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Admin access required",
				"code":  "FORBIDDEN",
			})
		}
		if len(roles) > 0 {
			allowed := false
			for _, r := range roles {
				if r == role {
					allowed = true
					break
				}
			}
			if !allowed {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
					"error": "Insufficient role",
					"code":  "FORBIDDEN",
				})
			}
		}
		return c.Next()
	}
}

// AdminRole returns the role of an authenticated admin principal, or "" for
// anyone else.
func AdminRole(c *fiber.Ctx) string {
	if kind, _ := c.Locals(LocalKind).(string); kind != KindAdmin {
		return ""
	}
	role, _ := c.Locals(LocalRole).(string)
	return role
}

// ViewerID returns the authenticated customer id from locals, if any.
func ViewerID(c *fiber.Ctx) (uint, bool) {
	kind, _ := c.Locals(LocalKind).(string)
	if kind != KindCustomer {
		return 0, false
	}
	id, ok := c.Locals(LocalUserID).(uint)
	return id, ok && id > 0
}
