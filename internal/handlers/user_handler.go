package handlers

import (
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// UserHandler serves the admin user screens plus the self-service account routes.
type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	approved, err := queryBool(c, "approved")
	if err != nil {
		return err
	}
	resp, err := h.userService.List(c.UserContext(), middleware.CurrentSession(c), dto.UserFilter{
		Page:     c.QueryInt("page", 1),
		Limit:    c.QueryInt("limit", 0),
		Approved: approved,
		Role:     c.Query("role"),
		Type:     c.Query("type"),
		Search:   c.Query("search"),
	})
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	user, err := h.userService.Get(c.UserContext(), middleware.CurrentSession(c), id)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (h *UserHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.userService.Create(c.UserContext(), middleware.CurrentSession(c), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.userService.Update(c.UserContext(), middleware.CurrentSession(c), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.userService.Delete(c.UserContext(), middleware.CurrentSession(c), id); err != nil {
		return err
	}
	return c.JSON(dto.SuccessResponse{Success: true})
}

func (h *UserHandler) Bulk(c *fiber.Ctx) error {
	var req dto.BulkUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	resp, err := h.userService.Bulk(c.UserContext(), middleware.CurrentSession(c), &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *UserHandler) ResetPassword(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req dto.ResetPasswordRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return err
		}
	}
	resp, err := h.userService.ResetPassword(c.UserContext(), middleware.CurrentSession(c), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *UserHandler) Me(c *fiber.Ctx) error {
	resp, err := h.userService.Me(c.UserContext(), middleware.CurrentSession(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *UserHandler) Profile(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	resp, err := h.userService.Profile(c.UserContext(), middleware.CurrentSession(c), id)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
