package middleware

import (
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/access"
	"github.com/gofiber/fiber/v2"
)

// AdminRequired must run after LoadSession.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := access.RequireAdministrator(CurrentSession(c)); err != nil {
			return err
		}
		return c.Next()
	}
}
