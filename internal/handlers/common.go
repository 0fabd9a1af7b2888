package handlers

import (
	"strings"

	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/apperr"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return errInvalidBody
	}
	return nil
}

func paramID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, apperr.InvalidField("id", "must be a valid id")
	}
	return id, nil
}

// queryBool reads an optional true/false filter.
func queryBool(c *fiber.Ctx, key string) (*bool, error) {
	switch strings.ToLower(c.Query(key)) {
	case "":
		return nil, nil
	case "true":
		v := true
		return &v, nil
	case "false":
		v := false
		return &v, nil
	default:
		return nil, apperr.InvalidField(key, "must be true or false")
	}
}
