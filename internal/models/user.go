package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User is a Fox Club member or administrator.
type User struct {
	ID                 uuid.UUID                    `gorm:"type:uuid;primaryKey" json:"id"`
	Pseudo             string                       `gorm:"size:50;not null;uniqueIndex" json:"pseudo"`
	Email              *string                      `gorm:"size:255;uniqueIndex" json:"email"`
	FirstName          string                       `gorm:"size:100" json:"firstName"`
	LastName           string                       `gorm:"size:100" json:"lastName"`
	Password           string                       `gorm:"not null" json:"-"`
	Role               Role                         `gorm:"size:20;not null;default:'USER';index" json:"role"`
	Approved           bool                         `gorm:"not null;default:false;index" json:"approved"`
	MustChangePassword bool                         `gorm:"not null;default:false" json:"mustChangePassword"`
	Types              datatypes.JSONSlice[UserType] `json:"types"`
	CreatedAt          time.Time                    `json:"createdAt"`
	UpdatedAt          time.Time                    `json:"updatedAt"`

	UserForm   *UserForm   `gorm:"constraint:OnDelete:CASCADE" json:"userForm,omitempty"`
	AdminNotes []AdminNote `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	if u.Types == nil {
		u.Types = datatypes.JSONSlice[UserType]{}
	}
	return nil
}

// HasType reports whether the user carries the given tag.
func (u *User) HasType(t UserType) bool {
	for _, ut := range u.Types {
		if ut == t {
			return true
		}
	}
	return false
}
