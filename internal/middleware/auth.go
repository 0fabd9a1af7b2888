package middleware

import (
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/config"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return apperr.Unauthorized("invalid or expired token")
		},
	})
}
