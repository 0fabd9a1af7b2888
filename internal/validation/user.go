package validation

import (
	"fmt"

	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/models"
)

const (
	MinPseudoLength = 3
	MaxPseudoLength = 50
	MaxNameLength   = 100
	MaxNoteLength   = 5000
)

func Pseudo(field, value string, v Violations) {
	Length(field, value, MinPseudoLength, MaxPseudoLength, v)
}

// OptionalEmail accepts nil or the empty string.
func OptionalEmail(field string, value *string, v Violations) {
	if value != nil && *value != "" {
		Email(field, *value, v)
	}
}

func Role(field string, r models.Role, v Violations) {
	if !r.Valid() {
		v.Add(field, "must be USER, ADMIN or MODERATOR")
	}
}

func UserTypes(field string, types []models.UserType, v Violations) {
	for i, t := range types {
		if !t.Valid() {
			v.Add(fmt.Sprintf("%s[%d]", field, i), "must be ETUDIANT or SOUMIS")
		}
	}
}

func ValidateRegister(req *dto.RegisterRequest, v Violations) {
	Pseudo("pseudo", req.Pseudo, v)
	OptionalEmail("email", req.Email, v)
	Password("password", req.Password, v)
	MaxLength("firstName", req.FirstName, MaxNameLength, v)
	MaxLength("lastName", req.LastName, MaxNameLength, v)
}

func ValidateCreateUser(req *dto.CreateUserRequest, v Violations) {
	Pseudo("pseudo", req.Pseudo, v)
	OptionalEmail("email", req.Email, v)
	Password("password", req.Password, v)
	MaxLength("firstName", req.FirstName, MaxNameLength, v)
	MaxLength("lastName", req.LastName, MaxNameLength, v)
	if req.Role != nil {
		Role("role", *req.Role, v)
	}
	UserTypes("types", req.Types, v)
}

func ValidateUpdateUser(req *dto.UpdateUserRequest, v Violations) {
	if req.Pseudo != nil {
		Pseudo("pseudo", *req.Pseudo, v)
	}
	OptionalEmail("email", req.Email, v)
	if req.FirstName != nil {
		MaxLength("firstName", *req.FirstName, MaxNameLength, v)
	}
	if req.LastName != nil {
		MaxLength("lastName", *req.LastName, MaxNameLength, v)
	}
	if req.Role != nil {
		Role("role", *req.Role, v)
	}
	if req.Types != nil {
		UserTypes("types", *req.Types, v)
	}
}

func ValidateResetPassword(req *dto.ResetPasswordRequest, v Violations) {
	if req.Password != nil {
		Password("password", *req.Password, v)
	}
}

func ValidateChangePassword(req *dto.ChangePasswordRequest, v Violations) {
	if req.OldPassword == "" {
		v.Add("oldPassword", "is required")
	}
	Password("newPassword", req.NewPassword, v)
}

func ValidateCreateNote(req *dto.CreateNoteRequest, v Violations) {
	Required("userId", req.UserID, v)
	Length("content", req.Content, 1, MaxNoteLength, v)
}

func ValidateUpdateNote(req *dto.UpdateNoteRequest, v Violations) {
	if req.Content != nil {
		Length("content", *req.Content, 1, MaxNoteLength, v)
	}
}
