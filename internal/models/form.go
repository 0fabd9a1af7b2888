package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserForm is a member's single questionnaire. Once Submitted is true the form and its
// answers are frozen.
type UserForm struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"userId"`
	Submitted   bool       `gorm:"not null;default:false" json:"submitted"`
	SubmittedAt *time.Time `json:"submittedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	Answers []FormAnswer `gorm:"foreignKey:FormID;constraint:OnDelete:CASCADE" json:"answers"`
}

func (f *UserForm) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// FormAnswer is unique per (FormID, QuestionID); upsert on that key is the only write path.
type FormAnswer struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FormID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_form_answers_form_question,priority:1" json:"formId"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_form_answers_form_question,priority:2;index" json:"questionId"`
	Score      int       `gorm:"not null" json:"score"`
	Top        *bool     `json:"top"`
	Bot        *bool     `json:"bot"`
	Talk       *bool     `json:"talk"`
	Include    *bool     `json:"include"`
	Notes      *string   `gorm:"size:2000" json:"notes"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	Question *Question `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
}

func (a *FormAnswer) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
