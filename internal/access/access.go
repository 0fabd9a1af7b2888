// Package access decides who may do what. It has no HTTP dependency: callers build a
// Session per request and pass it explicitly.
package access

import (
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/models"
	"github.com/google/uuid"
)

type Session struct {
	UserID             uuid.UUID
	Pseudo             string
	Role               models.Role
	Approved           bool
	MustChangePassword bool
}

// FromUser builds a session from a freshly loaded user row.
func FromUser(u *models.User) *Session {
	return &Session{
		UserID:             u.ID,
		Pseudo:             u.Pseudo,
		Role:               u.Role,
		Approved:           u.Approved,
		MustChangePassword: u.MustChangePassword,
	}
}

// CanAdminister is the only place that maps a role to administrative capability.
func CanAdminister(role models.Role) bool {
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleUser, models.RoleModerator:
		return false
	default:
		return false
	}
}

func RequireAuthenticated(s *Session) (*Session, error) {
	if s == nil || s.UserID == uuid.Nil {
		return nil, apperr.Unauthorized("authentication required")
	}
	return s, nil
}

func RequireAdministrator(s *Session) (*Session, error) {
	s, err := RequireAuthenticated(s)
	if err != nil {
		return nil, err
	}
	if !CanAdminister(s.Role) {
		return nil, apperr.Forbidden("admin access required")
	}
	return s, nil
}

func RequireApproved(s *Session) error {
	if _, err := RequireAuthenticated(s); err != nil {
		return err
	}
	if !s.Approved {
		return apperr.Forbidden("must be approved to access the form")
	}
	return nil
}

// CanViewProfile allows administrators and the profile owner.
func CanViewProfile(s *Session, ownerID uuid.UUID) error {
	if _, err := RequireAuthenticated(s); err != nil {
		return err
	}
	if CanAdminister(s.Role) || s.UserID == ownerID {
		return nil
	}
	return apperr.Forbidden("not allowed to view this profile")
}
