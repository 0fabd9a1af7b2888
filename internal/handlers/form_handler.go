package handlers

import (
	"bytes"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/access"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/export"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type FormHandler struct {
	formService *services.FormService
}

func NewFormHandler(formService *services.FormService) *FormHandler {
	return &FormHandler{formService: formService}
}

func (h *FormHandler) Get(c *fiber.Ctx) error {
	resp, err := h.formService.GetOrCreateForm(c.UserContext(), middleware.CurrentSession(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *FormHandler) Save(c *fiber.Ctx) error {
	var req dto.SaveAnswersRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	form, err := h.formService.SaveAnswers(c.UserContext(), middleware.CurrentSession(c), &req)
	if err != nil {
		return err
	}
	return c.JSON(form)
}

// PDF exports the caller's own form.
func (h *FormHandler) PDF(c *fiber.Ctx) error {
	sess, err := access.RequireAuthenticated(middleware.CurrentSession(c))
	if err != nil {
		return err
	}
	return h.sendPDF(c, sess.UserID)
}

// UserPDF exports any user's form for administrators.
func (h *FormHandler) UserPDF(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	return h.sendPDF(c, id)
}

func (h *FormHandler) sendPDF(c *fiber.Ctx, userID uuid.UUID) error {
	user, form, families, err := h.formService.ExportData(c.UserContext(), middleware.CurrentSession(c), userID)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := export.FormPDF(&buf, user, form, families, time.Now()); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, export.FileName(user.Pseudo)))
	return c.Send(buf.Bytes())
}
