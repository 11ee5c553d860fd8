package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

func TestIssueAndParseToken(t *testing.T) {
	raw, err := IssueToken(testSecret, Principal{ID: 42, Kind: KindAdmin, Role: "moderator"}, time.Hour)
	require.NoError(t, err)

	p, err := ParseToken(testSecret, raw)
	require.NoError(t, err)
	assert.Equal(t, uint(42), p.ID)
	assert.Equal(t, KindAdmin, p.Kind)
	assert.Equal(t, "moderator", p.Role)

	_, err = ParseToken("other-secret", raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_RejectsForeignAudience(t *testing.T) {
	claims := jwt.MapClaims{
		"sub": "7",
		"iss": TokenIssuer,
		"aud": "someone-else",
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = ParseToken(testSecret, raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthRequired(t *testing.T) {
	app := fiber.New()
	app.Get("/test", AuthRequired(testSecret), func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"userID": c.Locals(LocalUserID)})
	})

	valid, err := IssueToken(testSecret, Principal{ID: 123, Kind: KindCustomer}, time.Hour)
	require.NoError(t, err)
	expired, err := IssueToken(testSecret, Principal{ID: 123, Kind: KindCustomer}, -time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
		expectedUserID uint
	}{
		{name: "Happy Path", authHeader: "Bearer " + valid, expectedStatus: http.StatusOK, expectedUserID: 123},
		{name: "Missing Header", authHeader: "", expectedStatus: http.StatusUnauthorized},
		{name: "Invalid Format", authHeader: "Basic dXNlcjpwYXNz", expectedStatus: http.StatusUnauthorized},
		{name: "Expired Token", authHeader: "Bearer " + expired, expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == http.StatusOK {
				var body struct {
					UserID uint `json:"userID"`
				}
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, tt.expectedUserID, body.UserID)
			}
		})
	}
}

func TestOptionalAuthAndViewerID(t *testing.T) {
	app := fiber.New()
	app.Get("/viewer", OptionalAuth(testSecret), func(c *fiber.Ctx) error {
		id, ok := ViewerID(c)
		return c.JSON(fiber.Map{"id": id, "ok": ok})
	})

	customer, err := IssueToken(testSecret, Principal{ID: 9, Kind: KindCustomer}, time.Hour)
	require.NoError(t, err)
	admin, err := IssueToken(testSecret, Principal{ID: 9, Kind: KindAdmin, Role: "admin"}, time.Hour)
	require.NoError(t, err)

	cases := map[string]bool{
		"":                   false,
		"Bearer garbage":     false,
		"Bearer " + customer: true,
		"Bearer " + admin:    false,
	}
	for header, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/viewer", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		var body struct {
			ID uint `json:"id"`
			OK bool `json:"ok"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, want, body.OK, "header %q", header)
	}
}

func TestAdminRequired(t *testing.T) {
	app := fiber.New()
	app.Get("/admin", AuthRequired(testSecret), AdminRequired("admin"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	customer, _ := IssueToken(testSecret, Principal{ID: 1, Kind: KindCustomer}, time.Hour)
	moderator, _ := IssueToken(testSecret, Principal{ID: 2, Kind: KindAdmin, Role: "moderator"}, time.Hour)
	admin, _ := IssueToken(testSecret, Principal{ID: 3, Kind: KindAdmin, Role: "admin"}, time.Hour)

	for token, want := range map[string]int{
		customer:  http.StatusForbidden,
		moderator: http.StatusForbidden,
		admin:     http.StatusNoContent,
	} {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, want, resp.StatusCode)
	}
}
