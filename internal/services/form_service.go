package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/access"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/validation"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrFormSubmitted is returned for any write to a submitted form.
var ErrFormSubmitted = apperr.Forbidden("form has already been submitted")

// FormService runs a member's questionnaire: Absent -> Draft -> Submitted.
type FormService struct {
	db      *gorm.DB
	catalog *CatalogService
}

func NewFormService(db *gorm.DB, catalog *CatalogService) *FormService {
	return &FormService{db: db, catalog: catalog}
}

// GetOrCreateForm returns the caller's form, creating a draft on first access, along
// with the full catalog. Submitted forms are returned as-is.
func (s *FormService) GetOrCreateForm(ctx context.Context, sess *access.Session) (*dto.FormResponse, error) {
	if err := access.RequireApproved(sess); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)

	form, err := ensureForm(db, sess.UserID)
	if err != nil {
		return nil, err
	}
	loaded, err := loadForm(db, form.ID, false)
	if err != nil {
		return nil, err
	}
	families, err := s.catalog.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.FormResponse{Form: loaded, QuestionFamilies: families}, nil
}

// ensureForm creates the draft row if absent. The unique user_id index makes a
// concurrent duplicate a no-op instead of a second form.
func ensureForm(db *gorm.DB, userID uuid.UUID) (*models.UserForm, error) {
	draft := models.UserForm{UserID: userID}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&draft).Error; err != nil {
		return nil, fmt.Errorf("failed to create form: %w", err)
	}

	var form models.UserForm
	if err := db.Where("user_id = ?", userID).First(&form).Error; err != nil {
		return nil, fmt.Errorf("failed to load form: %w", err)
	}
	return &form, nil
}

func loadForm(db *gorm.DB, formID uuid.UUID, withQuestions bool) (*models.UserForm, error) {
	q := db.Preload("Answers", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at asc")
	})
	if withQuestions {
		q = q.Preload("Answers.Question.QuestionFamily")
	}
	var form models.UserForm
	if err := q.First(&form, "id = ?", formID).Error; err != nil {
		return nil, fmt.Errorf("failed to load form: %w", err)
	}
	if form.Answers == nil {
		form.Answers = []models.FormAnswer{}
	}
	return &form, nil
}

// SaveAnswers upserts a batch of answers and optionally submits the form. Either
// every answer is written (and the submit flag flipped) or nothing is.
func (s *FormService) SaveAnswers(ctx context.Context, sess *access.Session, req *dto.SaveAnswersRequest) (*models.UserForm, error) {
	if err := access.RequireApproved(sess); err != nil {
		return nil, err
	}

	v := validation.Violations{}
	questionIDs := validation.ValidateSaveAnswers(req, v)
	if err := v.Err(); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	form, err := ensureForm(db, sess.UserID)
	if err != nil {
		return nil, err
	}
	if form.Submitted {
		return nil, ErrFormSubmitted
	}

	if err := s.checkAgainstCatalog(db, req, questionIDs); err != nil {
		return nil, err
	}

	if err := writeAnswers(db, form.ID, questionIDs, req, time.Now()); err != nil {
		if errors.Is(err, ErrFormSubmitted) {
			return nil, err
		}
		slog.Error("failed to save answers", "user_id", sess.UserID.String(), "action", "save_answers", "error", err)
		return nil, fmt.Errorf("failed to save answers: %w", err)
	}

	metrics.AnswersSaved.Add(float64(len(req.Answers)))
	if req.Submitted {
		metrics.FormsSubmitted.Inc()
		slog.Info("form submitted", "user_id", sess.UserID.String(), "action", "form_submit", "answers", len(req.Answers))
	}

	return loadForm(db, form.ID, true)
}

// writeAnswers upserts the batch inside one transaction and flips the submit flag
// when asked. A form submitted since it was read yields ErrFormSubmitted and
// leaves every answer untouched.
func writeAnswers(db *gorm.DB, formID uuid.UUID, questionIDs []uuid.UUID, req *dto.SaveAnswersRequest, now time.Time) error {
	return db.Transaction(func(tx *gorm.DB) error {
		// Touching the draft row first makes the submitted check and the writes one
		// unit: zero rows means another request submitted in between.
		res := tx.Model(&models.UserForm{}).
			Where("id = ? AND submitted = ?", formID, false).
			Update("updated_at", now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrFormSubmitted
		}

		for i, in := range req.Answers {
			if err := upsertAnswer(tx, formID, questionIDs[i], in.Answer, now); err != nil {
				return err
			}
		}

		if req.Submitted {
			res := tx.Model(&models.UserForm{}).
				Where("id = ? AND submitted = ?", formID, false).
				Updates(map[string]interface{}{"submitted": true, "submitted_at": now, "updated_at": now})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrFormSubmitted
			}
		}
		return nil
	})
}

// checkAgainstCatalog resolves every referenced question and validates the answer
// against its family's type.
func (s *FormService) checkAgainstCatalog(db *gorm.DB, req *dto.SaveAnswersRequest, ids []uuid.UUID) error {
	var questions []models.Question
	if err := db.Preload("QuestionFamily").Where("id IN ?", ids).Find(&questions).Error; err != nil {
		return err
	}
	byID := make(map[uuid.UUID]*models.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}

	v := validation.Violations{}
	for i, in := range req.Answers {
		field := fmt.Sprintf("answers[%d]", i)
		q, ok := byID[ids[i]]
		if !ok || q.QuestionFamily == nil {
			v.Add(field+".questionId", "question does not exist")
			continue
		}
		validation.ValidateAnswerFor(q.QuestionFamily.Type, field+".answer", in.Answer, v)
	}
	return v.Err()
}

// upsertAnswer writes one answer on the (form_id, question_id) key. Only fields
// present in the payload overwrite stored values.
func upsertAnswer(tx *gorm.DB, formID, questionID uuid.UUID, in dto.AnswerFields, now time.Time) error {
	answer := models.FormAnswer{
		FormID:     formID,
		QuestionID: questionID,
		Score:      *in.Score,
		Top:        in.Top,
		Bot:        in.Bot,
		Talk:       in.Talk,
		Include:    in.Include,
		Notes:      in.Notes,
		UpdatedAt:  now,
	}

	columns := []string{"score", "updated_at"}
	for name, present := range map[string]bool{
		"top":     in.Top != nil,
		"bot":     in.Bot != nil,
		"talk":    in.Talk != nil,
		"include": in.Include != nil,
		"notes":   in.Notes != nil,
	} {
		if present {
			columns = append(columns, name)
		}
	}

	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "form_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(&answer).Error
}

// ExportData loads a user's form for rendering. Admins may export anyone, members
// only themselves.
func (s *FormService) ExportData(ctx context.Context, sess *access.Session, userID uuid.UUID) (*models.User, *models.UserForm, []models.QuestionFamily, error) {
	if err := access.CanViewProfile(sess, userID); err != nil {
		return nil, nil, nil, err
	}
	if sess.UserID == userID {
		if err := access.RequireApproved(sess); err != nil {
			return nil, nil, nil, err
		}
	}
	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, nil, nil, notFound(err, "user not found")
	}

	var form *models.UserForm
	var existing models.UserForm
	err := db.Preload("Answers").Where("user_id = ?", userID).Limit(1).Find(&existing).Error
	if err != nil {
		return nil, nil, nil, err
	}
	if existing.ID != uuid.Nil {
		form = &existing
	}

	families, err := s.catalog.Catalog(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	return &user, form, families, nil
}
