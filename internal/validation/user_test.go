package validation

import (
	"strings"
	"testing"

	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestValidateCreateUser(t *testing.T) {
	role := models.Role("ROOT")
	v := Violations{}
	ValidateCreateUser(&dto.CreateUserRequest{
		Pseudo:   "ab",
		Email:    strPtr("nope"),
		Password: "short",
		Role:     &role,
		Types:    []models.UserType{models.UserTypeSoumis, "OTHER"},
	}, v)

	assert.Equal(t, "must be at least 3 characters", v["pseudo"])
	assert.Contains(t, v, "email")
	assert.Contains(t, v, "password")
	assert.Contains(t, v, "role")
	assert.Contains(t, v, "types[1]")
	assert.NotContains(t, v, "types[0]")

	v = Violations{}
	ValidateCreateUser(&dto.CreateUserRequest{Pseudo: "renard", Email: strPtr(""), Password: "longenough"}, v)
	assert.True(t, v.Empty())
}

func TestValidateUpdateUserOnlyChecksPresentFields(t *testing.T) {
	v := Violations{}
	ValidateUpdateUser(&dto.UpdateUserRequest{}, v)
	assert.True(t, v.Empty())

	v = Violations{}
	ValidateUpdateUser(&dto.UpdateUserRequest{LastName: strPtr(strings.Repeat("x", MaxNameLength+1))}, v)
	assert.Equal(t, []string{"lastName"}, keys(v))
}

func TestValidateNotes(t *testing.T) {
	v := Violations{}
	ValidateCreateNote(&dto.CreateNoteRequest{}, v)
	assert.Contains(t, v, "userId")
	assert.Contains(t, v, "content")

	v = Violations{}
	ValidateUpdateNote(&dto.UpdateNoteRequest{Content: strPtr(strings.Repeat("x", MaxNoteLength+1))}, v)
	assert.Contains(t, v, "content")
}

func TestValidateCatalog(t *testing.T) {
	v := Violations{}
	ValidateCreateFamily(&dto.CreateFamilyRequest{Label: " ", Order: intPtr(-1)}, v)
	assert.Equal(t, "is required", v["label"])
	assert.Equal(t, "is required", v["type"])
	assert.Contains(t, v, "order")

	v = Violations{}
	ValidateCreateFamily(&dto.CreateFamilyRequest{Label: "Massages", Type: models.QuestionType1}, v)
	assert.True(t, v.Empty())

	v = Violations{}
	ValidateCreateQuestion(&dto.CreateQuestionRequest{Text: strings.Repeat("q", MaxQuestionLength+1)}, v)
	assert.Contains(t, v, "questionFamilyId")
	assert.Contains(t, v, "text")
}

func keys(v Violations) []string {
	out := make([]string, 0, len(v))
	for k := range v {
		out = append(out, k)
	}
	return out
}
