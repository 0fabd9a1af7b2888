package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/dto"
	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
)

var errInvalidBody = apperr.Invalid("invalid request body")

// ErrorHandler is the single place where errors become HTTP responses.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	resp := dto.ErrorResponse{Error: "internal server error"}

	var fe *fiber.Error
	verr, invalid := apperr.AsValidation(err)
	switch {
	case invalid:
		code = fiber.StatusBadRequest
		resp = dto.ErrorResponse{Error: verr.Message}
		if len(verr.Fields) > 0 {
			resp.Details = verr.Fields
		}
	case errors.Is(err, apperr.ErrUnauthorized):
		code = fiber.StatusUnauthorized
		resp.Error = err.Error()
	case errors.Is(err, apperr.ErrForbidden):
		code = fiber.StatusForbidden
		resp.Error = err.Error()
	case errors.Is(err, apperr.ErrNotFound):
		code = fiber.StatusNotFound
		resp.Error = err.Error()
	case errors.As(err, &fe):
		code = fe.Code
		resp.Error = fe.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= fiber.StatusInternalServerError {
		slog.Error("unhandled server error",
			"method", c.Method(),
			"path", c.Path(),
			"request_id", requestID(c),
			"error", err.Error(),
		)
		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		} else {
			sentry.CaptureException(err)
		}
		resp = dto.ErrorResponse{Error: "internal server error"}
	}

	return c.Status(code).JSON(resp)
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return c.GetRespHeader(fiber.HeaderXRequestID)
}
