package dto

import "github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/models"

// AnswerFields is one answer payload. A nil pointer means the field was not sent.
type AnswerFields struct {
	Score   *int    `json:"score"`
	Notes   *string `json:"notes"`
	Top     *bool   `json:"top"`
	Bot     *bool   `json:"bot"`
	Talk    *bool   `json:"talk"`
	Include *bool   `json:"include"`
}

type AnswerInput struct {
	QuestionID string       `json:"questionId"`
	Answer     AnswerFields `json:"answer"`
}

type SaveAnswersRequest struct {
	Answers   []AnswerInput `json:"answers"`
	Submitted bool          `json:"submitted"`
}

type FormResponse struct {
	Form             *models.UserForm        `json:"form"`
	QuestionFamilies []models.QuestionFamily `json:"questionFamilies"`
}
