package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/models"
	"github.com/google/uuid"
)

type UserFilter struct {
	Page     int
	Limit    int
	Approved *bool
	Role     string
	Type     string
	Search   string
}

type CreateUserRequest struct {
	Pseudo    string            `json:"pseudo"`
	Email     *string           `json:"email"`
	FirstName string            `json:"firstName"`
	LastName  string            `json:"lastName"`
	Password  string            `json:"password"`
	Role      *models.Role      `json:"role"`
	Types     []models.UserType `json:"types"`
	Approved  *bool             `json:"approved"`
}

// UpdateUserRequest carries only the fields to change. An empty email clears it.
type UpdateUserRequest struct {
	Pseudo    *string            `json:"pseudo"`
	Email     *string            `json:"email"`
	FirstName *string            `json:"firstName"`
	LastName  *string            `json:"lastName"`
	Role      *models.Role       `json:"role"`
	Types     *[]models.UserType `json:"types"`
	Approved  *bool              `json:"approved"`
}

type BulkUserRequest struct {
	UserIDs []string `json:"userIds"`
	Action  string   `json:"action"`
}

type BulkUserResponse struct {
	Success bool  `json:"success"`
	Count   int64 `json:"count"`
}

type ResetPasswordRequest struct {
	Password           *string `json:"password"`
	MustChangePassword *bool   `json:"mustChangePassword"`
}

type ResetPasswordResponse struct {
	Password           string `json:"password"`
	MustChangePassword bool   `json:"mustChangePassword"`
}

type FormSummary struct {
	ID          uuid.UUID  `json:"id"`
	Submitted   bool       `json:"submitted"`
	SubmittedAt *time.Time `json:"submittedAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func NewFormSummary(f *models.UserForm) *FormSummary {
	if f == nil {
		return nil
	}
	return &FormSummary{ID: f.ID, Submitted: f.Submitted, SubmittedAt: f.SubmittedAt, UpdatedAt: f.UpdatedAt}
}

type UserListItem struct {
	models.User
	NoteCount int64        `json:"noteCount"`
	Form      *FormSummary `json:"form"`
}

type UserDetail struct {
	models.User
	Form  *models.UserForm `json:"form"`
	Notes []NoteResponse   `json:"notes"`
}

type MeResponse struct {
	models.User
	CanAdminister bool `json:"canAdminister"`
}

type ProfileResponse struct {
	models.User
	Form *FormSummary `json:"form"`
}
