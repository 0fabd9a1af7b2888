package dto

import (
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/models"
	"github.com/google/uuid"
)

type RegisterRequest struct {
	Pseudo    string  `json:"pseudo"`
	Email     *string `json:"email"`
	Password  string  `json:"password"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
}

// LoginRequest accepts either a pseudo or an email as Identifier.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type AuthResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         UserResponse `json:"user"`
}

type UserResponse struct {
	ID                 uuid.UUID   `json:"id"`
	Pseudo             string      `json:"pseudo"`
	Email              *string     `json:"email"`
	Role               models.Role `json:"role"`
	Approved           bool        `json:"approved"`
	MustChangePassword bool        `json:"mustChangePassword"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:                 u.ID,
		Pseudo:             u.Pseudo,
		Email:              u.Email,
		Role:               u.Role,
		Approved:           u.Approved,
		MustChangePassword: u.MustChangePassword,
	}
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
