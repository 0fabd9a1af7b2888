package services

import (
	"context"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/access"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/validation"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var errNoteNotFound = apperr.NotFound("note not found")

// NoteService manages private admin notes about users.
type NoteService struct {
	db *gorm.DB
}

func NewNoteService(db *gorm.DB) *NoteService {
	return &NoteService{db: db}
}

func withAuthor(db *gorm.DB) *gorm.DB {
	return db.Preload("Admin", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "pseudo")
	})
}

func (s *NoteService) listFor(ctx context.Context, userID uuid.UUID) ([]dto.NoteResponse, error) {
	var notes []models.AdminNote
	err := s.db.WithContext(ctx).Scopes(withAuthor).
		Where("user_id = ?", userID).
		Order("pinned desc").Order("created_at desc").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	out := make([]dto.NoteResponse, len(notes))
	for i := range notes {
		out[i] = dto.NewNoteResponse(&notes[i])
	}
	return out, nil
}

// List returns the notes about one user, pinned first and then newest first.
func (s *NoteService) List(ctx context.Context, sess *access.Session, rawUserID string) (*dto.NoteListResponse, error) {
	if _, err := access.RequireAdministrator(sess); err != nil {
		return nil, err
	}
	if rawUserID == "" {
		return nil, apperr.InvalidField("userId", "is required")
	}
	userID, err := parseID("userId", rawUserID)
	if err != nil {
		return nil, err
	}
	notes, err := s.listFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.NoteListResponse{Data: notes}, nil
}

func (s *NoteService) Create(ctx context.Context, sess *access.Session, req *dto.CreateNoteRequest) (*dto.NoteResponse, error) {
	sess, err := access.RequireAdministrator(sess)
	if err != nil {
		return nil, err
	}
	v := validation.Violations{}
	validation.ValidateCreateNote(req, v)
	if err := v.Err(); err != nil {
		return nil, err
	}
	userID, err := parseID("userId", req.UserID)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	var subject models.User
	if err := db.Select("id").First(&subject, "id = ?", userID).Error; err != nil {
		return nil, notFound(err, errUserNotFound.Error())
	}

	authorID := sess.UserID
	note := models.AdminNote{UserID: userID, AdminID: &authorID, Content: req.Content}
	if req.Pinned != nil {
		note.Pinned = *req.Pinned
	}
	if err := db.Create(&note).Error; err != nil {
		return nil, err
	}

	slog.Info("admin note created", "user_id", sess.UserID.String(), "action", "create_note", "target_id", userID.String())
	return s.get(ctx, note.ID)
}

func (s *NoteService) get(ctx context.Context, id uuid.UUID) (*dto.NoteResponse, error) {
	var note models.AdminNote
	if err := s.db.WithContext(ctx).Scopes(withAuthor).First(&note, "id = ?", id).Error; err != nil {
		return nil, notFound(err, errNoteNotFound.Error())
	}
	resp := dto.NewNoteResponse(&note)
	return &resp, nil
}

func (s *NoteService) Update(ctx context.Context, sess *access.Session, id uuid.UUID, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error) {
	if _, err := access.RequireAdministrator(sess); err != nil {
		return nil, err
	}
	v := validation.Violations{}
	validation.ValidateUpdateNote(req, v)
	if err := v.Err(); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	var note models.AdminNote
	if err := db.First(&note, "id = ?", id).Error; err != nil {
		return nil, notFound(err, errNoteNotFound.Error())
	}

	updates := map[string]interface{}{}
	if req.Content != nil {
		updates["content"] = *req.Content
	}
	if req.Pinned != nil {
		updates["pinned"] = *req.Pinned
	}
	if len(updates) > 0 {
		if err := db.Model(&note).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.get(ctx, id)
}

func (s *NoteService) Delete(ctx context.Context, sess *access.Session, id uuid.UUID) error {
	if _, err := access.RequireAdministrator(sess); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.AdminNote{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errNoteNotFound
	}
	return nil
}
