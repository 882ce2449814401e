package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func correlationApp() *fiber.App {
	app := fiber.New()
	app.Use(CorrelationID())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(CorrelationIDFromContext(c.UserContext()) + "|" + GetCorrelationID(c))
	})
	return app
}

func TestCorrelationIDPropagatesIncomingHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "req-123")

	resp, err := correlationApp().Test(req)
	require.NoError(t, err)
	require.Equal(t, "req-123", resp.Header.Get(HeaderCorrelationID))

	body := make([]byte, 64)
	n, _ := resp.Body.Read(body)
	require.Equal(t, "req-123|req-123", string(body[:n]))
}

func TestCorrelationIDReplacesOversizedValues(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderCorrelationID, strings.Repeat("x", maxCorrelationIDLength+1))

	resp, err := correlationApp().Test(req)
	require.NoError(t, err)

	id := resp.Header.Get(HeaderCorrelationID)
	require.NotEmpty(t, id)
	require.LessOrEqual(t, len(id), maxCorrelationIDLength)
}
