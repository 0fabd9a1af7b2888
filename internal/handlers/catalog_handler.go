package handlers

import (
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// CatalogHandler serves /api/admin/question-families and /api/admin/questions.
type CatalogHandler struct {
	catalogService *services.CatalogService
}

func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func (h *CatalogHandler) ListFamilies(c *fiber.Ctx) error {
	resp, err := h.catalogService.ListFamilies(c.UserContext(), middleware.CurrentSession(c), dto.FamilyFilter{
		Page:   c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", 0),
		Type:   c.Query("type"),
		Search: c.Query("search"),
	})
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *CatalogHandler) CreateFamily(c *fiber.Ctx) error {
	var req dto.CreateFamilyRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	family, err := h.catalogService.CreateFamily(c.UserContext(), middleware.CurrentSession(c), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(family)
}

func (h *CatalogHandler) GetFamily(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	family, err := h.catalogService.GetFamily(c.UserContext(), middleware.CurrentSession(c), id)
	if err != nil {
		return err
	}
	return c.JSON(family)
}

func (h *CatalogHandler) UpdateFamily(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateFamilyRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	family, err := h.catalogService.UpdateFamily(c.UserContext(), middleware.CurrentSession(c), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(family)
}

func (h *CatalogHandler) DeleteFamily(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.catalogService.DeleteFamily(c.UserContext(), middleware.CurrentSession(c), id); err != nil {
		return err
	}
	return c.JSON(dto.SuccessResponse{Success: true})
}

func (h *CatalogHandler) ListQuestions(c *fiber.Ctx) error {
	resp, err := h.catalogService.ListQuestions(c.UserContext(), middleware.CurrentSession(c), dto.QuestionFilter{
		Page:     c.QueryInt("page", 1),
		Limit:    c.QueryInt("limit", 0),
		FamilyID: c.Query("familyId"),
		Search:   c.Query("search"),
	})
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *CatalogHandler) CreateQuestion(c *fiber.Ctx) error {
	var req dto.CreateQuestionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	question, err := h.catalogService.CreateQuestion(c.UserContext(), middleware.CurrentSession(c), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(question)
}

func (h *CatalogHandler) GetQuestion(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	question, err := h.catalogService.GetQuestion(c.UserContext(), middleware.CurrentSession(c), id)
	if err != nil {
		return err
	}
	return c.JSON(question)
}

func (h *CatalogHandler) UpdateQuestion(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateQuestionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	question, err := h.catalogService.UpdateQuestion(c.UserContext(), middleware.CurrentSession(c), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(question)
}

func (h *CatalogHandler) DeleteQuestion(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.catalogService.DeleteQuestion(c.UserContext(), middleware.CurrentSession(c), id); err != nil {
		return err
	}
	return c.JSON(dto.SuccessResponse{Success: true})
}
