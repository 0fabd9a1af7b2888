package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorHandler(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
		details map[string]string
	}{
		{"validation", apperr.InvalidField("label", "is required"), http.StatusBadRequest, "validation failed", map[string]string{"label": "is required"}},
		{"invalid body", errInvalidBody, http.StatusBadRequest, "invalid request body", nil},
		{"unauthorized", apperr.Unauthorized("bad token"), http.StatusUnauthorized, "bad token", nil},
		{"forbidden", apperr.Forbidden("nope"), http.StatusForbidden, "nope", nil},
		{"not found", apperr.NotFound("user not found"), http.StatusNotFound, "user not found", nil},
		{"fiber", fiber.NewError(http.StatusMethodNotAllowed, "method not allowed"), http.StatusMethodNotAllowed, "method not allowed", nil},
		{"internal", errors.New("connection reset"), http.StatusInternalServerError, "internal server error", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
			app.Get("/", func(c *fiber.Ctx) error { return tc.err })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)

			var body dto.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tc.message, body.Error)
			assert.Equal(t, tc.details, body.Details)
		})
	}
}
