package handlers

import (
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type NoteHandler struct {
	noteService *services.NoteService
}

func NewNoteHandler(noteService *services.NoteService) *NoteHandler {
	return &NoteHandler{noteService: noteService}
}

func (h *NoteHandler) List(c *fiber.Ctx) error {
	resp, err := h.noteService.List(c.UserContext(), middleware.CurrentSession(c), c.Query("userId"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *NoteHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateNoteRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	note, err := h.noteService.Create(c.UserContext(), middleware.CurrentSession(c), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(note)
}

func (h *NoteHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateNoteRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	note, err := h.noteService.Update(c.UserContext(), middleware.CurrentSession(c), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(note)
}

func (h *NoteHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.noteService.Delete(c.UserContext(), middleware.CurrentSession(c), id); err != nil {
		return err
	}
	return c.JSON(dto.SuccessResponse{Success: true})
}
