package validation

import (
	"fmt"

	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/models"
	"github.com/google/uuid"
)

const (
	MinScore       = 1
	MaxScore       = 4
	MaxNotesLength = 2000
)

func validateAnswerBase(field string, a dto.AnswerFields, v Violations) {
	if a.Score == nil {
		v.Add(field+".score", "is required")
	} else {
		IntRange(field+".score", *a.Score, MinScore, MaxScore, v)
	}
	if a.Notes != nil {
		MaxLength(field+".notes", *a.Notes, MaxNotesLength, v)
	}
}

// ValidateType1Answer accepts score, notes, top, bot and talk.
func ValidateType1Answer(field string, a dto.AnswerFields, v Violations) {
	validateAnswerBase(field, a, v)
	if a.Include != nil {
		v.Add(field+".include", "is not allowed for TYPE_1 questions")
	}
}

// ValidateType2Answer accepts score, notes, talk and include.
func ValidateType2Answer(field string, a dto.AnswerFields, v Violations) {
	validateAnswerBase(field, a, v)
	if a.Top != nil {
		v.Add(field+".top", "is not allowed for TYPE_2 questions")
	}
	if a.Bot != nil {
		v.Add(field+".bot", "is not allowed for TYPE_2 questions")
	}
}

// ValidateAnswer checks a payload whose family type is not known yet. It accepts
// either shape but rejects one that mixes include with top or bot.
func ValidateAnswer(field string, a dto.AnswerFields, v Violations) {
	validateAnswerBase(field, a, v)
	if a.Include != nil && (a.Top != nil || a.Bot != nil) {
		v.Add(field, "cannot combine include with top or bot")
	}
}

func ValidateAnswerFor(t models.QuestionType, field string, a dto.AnswerFields, v Violations) {
	switch t {
	case models.QuestionType1:
		ValidateType1Answer(field, a, v)
	case models.QuestionType2:
		ValidateType2Answer(field, a, v)
	default:
		v.Add(field, fmt.Sprintf("unknown question type %q", t))
	}
}

// ValidateSaveAnswers checks a whole batch and returns the parsed question ids in
// input order.
func ValidateSaveAnswers(req *dto.SaveAnswersRequest, v Violations) []uuid.UUID {
	if len(req.Answers) == 0 {
		v.Add("answers", "at least one answer is required")
		return nil
	}

	ids := make([]uuid.UUID, len(req.Answers))
	seen := make(map[uuid.UUID]int, len(req.Answers))
	for i, in := range req.Answers {
		field := fmt.Sprintf("answers[%d]", i)
		id, err := uuid.Parse(in.QuestionID)
		if err != nil {
			v.Add(field+".questionId", "must be a valid id")
		} else if first, dup := seen[id]; dup {
			v.Add(field+".questionId", fmt.Sprintf("duplicates answers[%d]", first))
		} else {
			seen[id] = i
		}
		ids[i] = id
		ValidateAnswer(field+".answer", in.Answer, v)
	}
	return ids
}
