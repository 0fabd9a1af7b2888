package dto

import "github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/models"

type CreateFamilyRequest struct {
	Label string              `json:"label"`
	Type  models.QuestionType `json:"type"`
	Order *int                `json:"order"`
}

type UpdateFamilyRequest struct {
	Label *string              `json:"label"`
	Type  *models.QuestionType `json:"type"`
	Order *int                 `json:"order"`
}

type CreateQuestionRequest struct {
	QuestionFamilyID string `json:"questionFamilyId"`
	Text             string `json:"text"`
	Order            *int   `json:"order"`
}

type UpdateQuestionRequest struct {
	Text             *string `json:"text"`
	Order            *int    `json:"order"`
	QuestionFamilyID *string `json:"questionFamilyId"`
}

type FamilyFilter struct {
	Page   int
	Limit  int
	Type   string
	Search string
}

type QuestionFilter struct {
	Page     int
	Limit    int
	FamilyID string
	Search   string
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

func NewPagination(page, limit int, total int64) Pagination {
	pages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

type ListResponse[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}
