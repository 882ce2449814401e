package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-api/internal/service"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{service.NewValidationError("receiver", "cannot send a message to yourself"), http.StatusBadRequest},
		{service.ErrInvalidCode, http.StatusBadRequest},
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{service.ErrInvalidToken, http.StatusUnauthorized},
		{service.ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("complete: %w", service.ErrTaskNotFound), http.StatusNotFound},
		{service.ErrClassNotFound, http.StatusNotFound},
		{service.ErrAvatarStorageUnavailable, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		app := fiber.New()
		err := tc.err
		app.Get("/", func(c *fiber.Ctx) error {
			return respondError(c, zerolog.Nop(), err)
		})

		resp, testErr := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, testErr)
		require.Equal(t, tc.status, resp.StatusCode, tc.err.Error())
	}
}

func TestParseIdentifiers(t *testing.T) {
	app := fiber.New()
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		id, err := parseUintParam(c, "id")
		if err != nil {
			return c.SendStatus(http.StatusBadRequest)
		}
		other, err := parseOptionalUintQuery(c, "user_id")
		if err != nil {
			return c.SendStatus(http.StatusBadRequest)
		}
		if other != nil {
			return c.SendString(fmt.Sprintf("%d:%d", id, *other))
		}
		return c.SendString(fmt.Sprintf("%d", id))
	})

	for path, status := range map[string]int{
		"/items/4":           http.StatusOK,
		"/items/4?user_id=2": http.StatusOK,
		"/items/0":           http.StatusBadRequest,
		"/items/abc":         http.StatusBadRequest,
		"/items/4?user_id=x": http.StatusBadRequest,
	} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		require.Equal(t, status, resp.StatusCode, path)
	}
}
