package services

import (
	"context"
	"testing"

	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/access"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	cfg     *config.Config
	db      *gorm.DB
	auth    *AuthService
	catalog *CatalogService
	forms   *FormService
	notes   *NoteService
	users   *UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := testutil.Config(t)
	db := testutil.NewDB(t, cfg)
	catalog := NewCatalogService(db)
	notes := NewNoteService(db)
	return &fixture{
		cfg:     cfg,
		db:      db,
		auth:    NewAuthService(db, cfg),
		catalog: catalog,
		forms:   NewFormService(db, catalog),
		notes:   notes,
		users:   NewUserService(db, cfg, notes),
	}
}

func (f *fixture) createUser(t *testing.T, pseudo string, role models.Role, approved bool) *access.Session {
	t.Helper()
	hash, err := hashPassword("password123", f.cfg.BcryptCost)
	require.NoError(t, err)
	u := models.User{Pseudo: pseudo, Password: hash, Role: role, Approved: approved}
	require.NoError(t, f.db.Create(&u).Error)
	return access.FromUser(&u)
}

func (f *fixture) admin(t *testing.T) *access.Session {
	return f.createUser(t, "admin", models.RoleAdmin, true)
}

func (f *fixture) family(t *testing.T, admin *access.Session, label string, typ models.QuestionType) *models.QuestionFamily {
	t.Helper()
	fam, err := f.catalog.CreateFamily(context.Background(), admin, &dto.CreateFamilyRequest{Label: label, Type: typ})
	require.NoError(t, err)
	return fam
}

func (f *fixture) question(t *testing.T, admin *access.Session, familyID, text string) *models.Question {
	t.Helper()
	q, err := f.catalog.CreateQuestion(context.Background(), admin, &dto.CreateQuestionRequest{QuestionFamilyID: familyID, Text: text})
	require.NoError(t, err)
	return q
}

func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }
