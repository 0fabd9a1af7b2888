package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuestionFamily groups questions that share one answer shape.
type QuestionFamily struct {
	ID        uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Label     string       `gorm:"size:100;not null" json:"label"`
	Type      QuestionType `gorm:"size:10;not null;index" json:"type"`
	Order     int          `gorm:"not null;default:0;index" json:"order"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`

	Questions []Question `gorm:"foreignKey:QuestionFamilyID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`

	QuestionCount int64 `gorm:"-" json:"questionCount"`
}

func (f *QuestionFamily) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

type Question struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuestionFamilyID uuid.UUID `gorm:"type:uuid;not null;index:idx_questions_family_order,priority:1" json:"questionFamilyId"`
	Text             string    `gorm:"size:1000;not null" json:"text"`
	Order            int       `gorm:"not null;default:0;index:idx_questions_family_order,priority:2" json:"order"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`

	QuestionFamily *QuestionFamily `gorm:"foreignKey:QuestionFamilyID" json:"questionFamily,omitempty"`
	Answers        []FormAnswer    `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"-"`

	AnswerCount int64 `gorm:"-" json:"answerCount"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}
