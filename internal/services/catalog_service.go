package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/access"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/validation"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	defaultFamilyLimit   = 20
	defaultQuestionLimit = 50
)

var (
	errFamilyNotFound   = apperr.NotFound("question family not found")
	errQuestionNotFound = apperr.NotFound("question not found")
)

// CatalogService manages question families and their questions.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

func orderedQuestions(db *gorm.DB) *gorm.DB {
	return db.Order(byOrder(false)).Order("created_at asc")
}

// Catalog returns every family with its questions, both in display order.
func (s *CatalogService) Catalog(ctx context.Context) ([]models.QuestionFamily, error) {
	var families []models.QuestionFamily
	err := s.db.WithContext(ctx).
		Preload("Questions", orderedQuestions).
		Order(byOrder(false)).Order("created_at asc").
		Find(&families).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	for i := range families {
		families[i].QuestionCount = int64(len(families[i].Questions))
	}
	return families, nil
}

func (s *CatalogService) ListFamilies(ctx context.Context, sess *access.Session, f dto.FamilyFilter) (*dto.ListResponse[models.QuestionFamily], error) {
	if _, err := access.RequireAdministrator(sess); err != nil {
		return nil, err
	}
	page, limit := normalizePage(f.Page, f.Limit, defaultFamilyLimit)

	q := s.db.WithContext(ctx).Model(&models.QuestionFamily{})
	if f.Type != "" {
		t := models.QuestionType(f.Type)
		if !t.Valid() {
			return nil, apperr.InvalidField("type", "must be TYPE_1 or TYPE_2")
		}
		q = q.Where("type = ?", t)
	}
	if strings.TrimSpace(f.Search) != "" {
		q = q.Scopes(containsFold(f.Search, "label"))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	families := []models.QuestionFamily{}
	if err := q.Scopes(paginate(page, limit)).
		Order(byOrder(false)).Order("created_at asc").
		Find(&families).Error; err != nil {
		return nil, err
	}
	if err := s.fillQuestionCounts(ctx, families); err != nil {
		return nil, err
	}

	return &dto.ListResponse[models.QuestionFamily]{Data: families, Pagination: dto.NewPagination(page, limit, total)}, nil
}

type idCount struct {
	ID    uuid.UUID
	Count int64
}

func (s *CatalogService) fillQuestionCounts(ctx context.Context, families []models.QuestionFamily) error {
	if len(families) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(families))
	for i, f := range families {
		ids[i] = f.ID
	}
	var rows []idCount
	err := s.db.WithContext(ctx).Model(&models.Question{}).
		Select("question_family_id AS id, COUNT(*) AS count").
		Where("question_family_id IN ?", ids).
		Group("question_family_id").
		Scan(&rows).Error
	if err != nil {
		return err
	}
	counts := make(map[uuid.UUID]int64, len(rows))
	for _, r := range rows {
		counts[r.ID] = r.Count
	}
	for i := range families {
		families[i].QuestionCount = counts[families[i].ID]
	}
	return nil
}

func (s *CatalogService) CreateFamily(ctx context.Context, sess *access.Session, req *dto.CreateFamilyRequest) (*models.QuestionFamily, error) {
	if _, err := access.RequireAdministrator(sess); err != nil {
		return nil, err
	}
	req.Label = strings.TrimSpace(req.Label)
	v := validation.Violations{}
	validation.ValidateCreateFamily(req, v)
	if err := v.Err(); err != nil {
		return nil, err
	}

	family := models.QuestionFamily{Label: req.Label, Type: req.Type}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.Order != nil {
			family.Order = *req.Order
		} else {
			next, err := nextOrder(tx, &models.QuestionFamily{}, nil)
			if err != nil {
				return err
			}
			family.Order = next
		}
		return tx.Create(&family).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create question family: %w", err)
	}
	family.Questions = []models.Question{}
	return &family, nil
}

func (s *CatalogService) GetFamily(ctx context.Context, sess *access.Session, id uuid.UUID) (*models.QuestionFamily, error) {
	if _, err := access.RequireAdministrator(sess); err != nil {
		return nil, err
	}
	var family models.QuestionFamily
	err := s.db.WithContext(ctx).Preload("Questions", orderedQuestions).First(&family, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, errFamilyNotFound.Error())
	}
	family.QuestionCount = int64(len(family.Questions))
	return &family, nil
}

// UpdateFamily applies present fields. The type may only change while no answer
// references one of the family's questions.
func (s *CatalogService) UpdateFamily(ctx context.Context, sess *access.Session, id uuid.UUID, req *dto.UpdateFamilyRequest) (*models.QuestionFamily, error) {
	if _, err := access.RequireAdministrator(sess); err != nil {
		return nil, err
	}
	if req.Label != nil {
		trimmed := strings.TrimSpace(*req.Label)
		req.Label = &trimmed
	}
	v := validation.Violations{}
	validation.ValidateUpdateFamily(req, v)
	if err := v.Err(); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	var family models.QuestionFamily
	if err := db.First(&family, "id = ?", id).Error; err != nil {
		return nil, notFound(err, errFamilyNotFound.Error())
	}

	updates := map[string]interface{}{}
	if req.Label != nil {
		updates["label"] = *req.Label
	}
	if req.Order != nil {
		updates["order"] = *req.Order
	}
	if req.Type != nil && *req.Type != family.Type {
		answered, err := s.familyAnswerCount(db, family.ID)
		if err != nil {
			return nil, err
		}
		if answered > 0 {
			return nil, apperr.InvalidField("type", "cannot change type while answers exist for this family")
		}
		updates["type"] = *req.Type
	}

	if len(updates) > 0 {
		if err := db.Model(&family).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update question family: %w", err)
		}
	}
	return s.GetFamily(ctx, sess, id)
}

func (s *CatalogService) familyAnswerCount(db *gorm.DB, familyID uuid.UUID) (int64, error) {
	var n int64
	err := db.Model(&models.FormAnswer{}).
		Joins("JOIN questions ON questions.id = form_answers.question_id").
		Where("questions.question_family_id = ?", familyID).
		Count(&n).Error
	return n, err
}

// DeleteFamily removes the family, its questions and every answer to them.
func (s *CatalogService) DeleteFamily(ctx context.Context, sess *access.Session, id uuid.UUID) error {
	if _, err := access.RequireAdministrator(sess); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var family models.QuestionFamily
		if err := tx.First(&family, "id = ?", id).Error; err != nil {
			return notFound(err, errFamilyNotFound.Error())
		}
		questionIDs := tx.Model(&models.Question{}).Select("id").Where("question_family_id = ?", id)
		if err := tx.Where("question_id IN (?)", questionIDs).Delete(&models.FormAnswer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_family_id = ?", id).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&family).Error; err != nil {
			return err
		}
		slog.Info("question family deleted", "user_id", sess.UserID.String(), "action", "delete_family", "family_id", id.String())
		return nil
	})
}

func (s *CatalogService) ListQuestions(ctx context.Context, sess *access.Session, f dto.QuestionFilter) (*dto.ListResponse[models.Question], error) {
	if _, err := access.RequireAdministrator(sess); err != nil {
		return nil, err
	}
	page, limit := normalizePage(f.Page, f.Limit, defaultQuestionLimit)

	q := s.db.WithContext(ctx).Model(&models.Question{})
	if f.FamilyID != "" {
		familyID, err := parseID("familyId", f.FamilyID)
		if err != nil {
			return nil, err
		}
		q = q.Where("question_family_id = ?", familyID)
	}
	if strings.TrimSpace(f.Search) != "" {
		q = q.Scopes(containsFold(f.Search, "text"))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	questions := []models.Question{}
	if err := q.Scopes(paginate(page, limit)).
		Preload("QuestionFamily").
		Order("question_family_id asc").Order(byOrder(false)).
		Find(&questions).Error; err != nil {
		return nil, err
	}
	if err := s.fillAnswerCounts(ctx, questions); err != nil {
		return nil, err
	}

	return &dto.ListResponse[models.Question]{Data: questions, Pagination: dto.NewPagination(page, limit, total)}, nil
}

func (s *CatalogService) fillAnswerCounts(ctx context.Context, questions []models.Question) error {
	if len(questions) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	var rows []idCount
	err := s.db.WithContext(ctx).Model(&models.FormAnswer{}).
		Select("question_id AS id, COUNT(*) AS count").
		Where("question_id IN ?", ids).
		Group("question_id").
		Scan(&rows).Error
	if err != nil {
		return err
	}
	counts := make(map[uuid.UUID]int64, len(rows))
	for _, r := range rows {
		counts[r.ID] = r.Count
	}
	for i := range questions {
		questions[i].AnswerCount = counts[questions[i].ID]
	}
	return nil
}

func (s *CatalogService) CreateQuestion(ctx context.Context, sess *access.Session, req *dto.CreateQuestionRequest) (*models.Question, error) {
	if _, err := access.RequireAdministrator(sess); err != nil {
		return nil, err
	}
	req.Text = strings.TrimSpace(req.Text)
	v := validation.Violations{}
	validation.ValidateCreateQuestion(req, v)
	if err := v.Err(); err != nil {
		return nil, err
	}
	familyID, err := parseID("questionFamilyId", req.QuestionFamilyID)
	if err != nil {
		return nil, err
	}

	question := models.Question{QuestionFamilyID: familyID, Text: req.Text}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var family models.QuestionFamily
		if err := tx.First(&family, "id = ?", familyID).Error; err != nil {
			return notFound(err, errFamilyNotFound.Error())
		}
		if req.Order != nil {
			question.Order = *req.Order
		} else {
			next, err := nextOrder(tx, &models.Question{}, func(db *gorm.DB) *gorm.DB {
				return db.Where("question_family_id = ?", familyID)
			})
			if err != nil {
				return err
			}
			question.Order = next
		}
		if err := tx.Create(&question).Error; err != nil {
			return err
		}
		question.QuestionFamily = &family
		return nil
	})
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create question: %w", err)
	}
	return &question, nil
}

func (s *CatalogService) GetQuestion(ctx context.Context, sess *access.Session, id uuid.UUID) (*models.Question, error) {
	if _, err := access.RequireAdministrator(sess); err != nil {
		return nil, err
	}
	var question models.Question
	if err := s.db.WithContext(ctx).Preload("QuestionFamily").First(&question, "id = ?", id).Error; err != nil {
		return nil, notFound(err, errQuestionNotFound.Error())
	}
	questions := []models.Question{question}
	if err := s.fillAnswerCounts(ctx, questions); err != nil {
		return nil, err
	}
	return &questions[0], nil
}

func (s *CatalogService) UpdateQuestion(ctx context.Context, sess *access.Session, id uuid.UUID, req *dto.UpdateQuestionRequest) (*models.Question, error) {
	if _, err := access.RequireAdministrator(sess); err != nil {
		return nil, err
	}
	if req.Text != nil {
		trimmed := strings.TrimSpace(*req.Text)
		req.Text = &trimmed
	}
	v := validation.Violations{}
	validation.ValidateUpdateQuestion(req, v)
	if err := v.Err(); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	var question models.Question
	if err := db.Preload("QuestionFamily").First(&question, "id = ?", id).Error; err != nil {
		return nil, notFound(err, errQuestionNotFound.Error())
	}

	updates := map[string]interface{}{}
	if req.Text != nil {
		updates["text"] = *req.Text
	}
	if req.Order != nil {
		updates["order"] = *req.Order
	}
	if req.QuestionFamilyID != nil {
		familyID, err := parseID("questionFamilyId", *req.QuestionFamilyID)
		if err != nil {
			return nil, err
		}
		if familyID != question.QuestionFamilyID {
			var target models.QuestionFamily
			if err := db.First(&target, "id = ?", familyID).Error; err != nil {
				return nil, notFound(err, errFamilyNotFound.Error())
			}
			if question.QuestionFamily != nil && target.Type != question.QuestionFamily.Type {
				var answered int64
				if err := db.Model(&models.FormAnswer{}).Where("question_id = ?", id).Count(&answered).Error; err != nil {
					return nil, err
				}
				if answered > 0 {
					return nil, apperr.InvalidField("questionFamilyId", "cannot move an answered question to a family of another type")
				}
			}
			updates["question_family_id"] = familyID
		}
	}

	// update by id: the preloaded QuestionFamily would write its id back over question_family_id
	if len(updates) > 0 {
		if err := db.Model(&models.Question{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update question: %w", err)
		}
	}
	return s.GetQuestion(ctx, sess, id)
}

func (s *CatalogService) DeleteQuestion(ctx context.Context, sess *access.Session, id uuid.UUID) error {
	if _, err := access.RequireAdministrator(sess); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var question models.Question
		if err := tx.First(&question, "id = ?", id).Error; err != nil {
			return notFound(err, errQuestionNotFound.Error())
		}
		if err := tx.Where("question_id = ?", id).Delete(&models.FormAnswer{}).Error; err != nil {
			return err
		}
		return tx.Delete(&question).Error
	})
}
