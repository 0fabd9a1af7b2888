package handlers

import (
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	resp, err := h.authService.Register(c.UserContext(), &req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	resp, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	resp, err := h.authService.Refresh(c.UserContext(), &req)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req dto.LogoutRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := h.authService.Logout(c.UserContext(), middleware.CurrentSession(c), &req); err != nil {
		return err
	}

	return c.JSON(dto.SuccessResponse{Success: true})
}

// ChangePassword serves PATCH /api/account/password.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var req dto.ChangePasswordRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	resp, err := h.authService.ChangePassword(c.UserContext(), middleware.CurrentSession(c), &req)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}
