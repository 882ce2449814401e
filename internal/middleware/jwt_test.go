package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func jwtApp() *fiber.App {
	app := fiber.New()
	app.Use(JWTProtected(testSecret))
	app.Get("/me", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id": c.Locals("user_id"),
			"role":    c.Locals("user_role"),
		})
	})
	return app
}

func requestWithToken(t *testing.T, app *fiber.App, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestJWTProtectedAcceptsAccessToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":  "42",
		"role": "Teacher",
		"typ":  "access",
		"exp":  time.Now().Add(time.Minute).Unix(),
	})

	resp := requestWithToken(t, jwtApp(), token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestJWTProtectedRejectsMissingHeader(t *testing.T) {
	resp := requestWithToken(t, jwtApp(), "")
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJWTProtectedRejectsRefreshToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "42",
		"typ": "refresh",
		"exp": time.Now().Add(time.Minute).Unix(),
	})

	resp := requestWithToken(t, jwtApp(), token)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJWTProtectedRejectsExpiredAndForeignTokens(t *testing.T) {
	expired := signToken(t, testSecret, jwt.MapClaims{"sub": "42", "exp": time.Now().Add(-time.Minute).Unix()})
	foreign := signToken(t, "other-secret", jwt.MapClaims{"sub": "42", "exp": time.Now().Add(time.Minute).Unix()})

	for _, token := range []string{expired, foreign, "not-a-token"} {
		resp := requestWithToken(t, jwtApp(), token)
		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	}
}

func TestJWTProtectedRequiresSubject(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{"role": "student", "typ": "access", "exp": time.Now().Add(time.Minute).Unix()})

	resp := requestWithToken(t, jwtApp(), token)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJWTProtectedRejectsTokensWithoutExpiry(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{"sub": "42", "typ": "access"})

	resp := requestWithToken(t, jwtApp(), token)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestBearerToken(t *testing.T) {
	cases := map[string]string{
		"Bearer abc":   "abc",
		"bearer  abc ": "abc",
		"Basic abc":    "",
		"Bearer":       "",
		"":             "",
	}

	for header, expected := range cases {
		token, ok := bearerToken(header)
		require.Equal(t, expected, token, header)
		require.Equal(t, expected != "", ok, header)
	}
}
