package validation

import (
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/models"
)

const (
	MaxLabelLength    = 100
	MaxQuestionLength = 1000
)

func questionType(field string, t models.QuestionType, v Violations) {
	if t == "" {
		v.Add(field, "is required")
		return
	}
	if !t.Valid() {
		v.Add(field, "must be TYPE_1 or TYPE_2")
	}
}

func ValidateCreateFamily(req *dto.CreateFamilyRequest, v Violations) {
	Length("label", req.Label, 1, MaxLabelLength, v)
	questionType("type", req.Type, v)
	if req.Order != nil {
		NonNegative("order", *req.Order, v)
	}
}

func ValidateUpdateFamily(req *dto.UpdateFamilyRequest, v Violations) {
	if req.Label != nil {
		Length("label", *req.Label, 1, MaxLabelLength, v)
	}
	if req.Type != nil {
		questionType("type", *req.Type, v)
	}
	if req.Order != nil {
		NonNegative("order", *req.Order, v)
	}
}

func ValidateCreateQuestion(req *dto.CreateQuestionRequest, v Violations) {
	Required("questionFamilyId", req.QuestionFamilyID, v)
	Length("text", req.Text, 1, MaxQuestionLength, v)
	if req.Order != nil {
		NonNegative("order", *req.Order, v)
	}
}

func ValidateUpdateQuestion(req *dto.UpdateQuestionRequest, v Violations) {
	if req.Text != nil {
		Length("text", *req.Text, 1, MaxQuestionLength, v)
	}
	if req.Order != nil {
		NonNegative("order", *req.Order, v)
	}
	if req.QuestionFamilyID != nil {
		Required("questionFamilyId", *req.QuestionFamilyID, v)
	}
}
