package middleware

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/access"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const sessionKey = "session"

// LoadSession turns the verified token into an access.Session backed by a fresh
// read of the user row, so role and approval changes apply immediately.
func LoadSession(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := subject(c)
		if err != nil {
			return apperr.Unauthorized("invalid token subject")
		}

		var user models.User
		if err := db.WithContext(c.UserContext()).First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.Unauthorized("user no longer exists")
			}
			return err
		}

		c.Locals(sessionKey, access.FromUser(&user))
		return c.Next()
	}
}

func subject(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, errors.New("invalid token in context")
	}
	sub, err := token.Claims.GetSubject()
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(sub)
}

// CurrentSession returns the session stored by LoadSession, or nil.
func CurrentSession(c *fiber.Ctx) *access.Session {
	s, _ := c.Locals(sessionKey).(*access.Session)
	return s
}
