package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminNote is a private note written by an administrator about a user.
// It is never exposed to its subject.
type AdminNote struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"userId"`
	AdminID   *uuid.UUID `gorm:"type:uuid;index" json:"adminId"`
	Content   string     `gorm:"size:5000;not null" json:"content"`
	Pinned    bool       `gorm:"not null;default:false" json:"pinned"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`

	Admin *User `gorm:"foreignKey:AdminID;constraint:OnDelete:SET NULL" json:"admin,omitempty"`
}

func (n *AdminNote) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
