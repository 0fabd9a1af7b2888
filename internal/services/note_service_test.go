package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotesPinnedFirstThenNewest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t)
	member := f.createUser(t, "renard", models.RoleUser, true)
	subject := member.UserID.String()

	older, err := f.notes.Create(ctx, admin, &dto.CreateNoteRequest{UserID: subject, Content: "older"})
	require.NoError(t, err)
	pinned, err := f.notes.Create(ctx, admin, &dto.CreateNoteRequest{UserID: subject, Content: "pinned", Pinned: boolPtr(true)})
	require.NoError(t, err)
	newer, err := f.notes.Create(ctx, admin, &dto.CreateNoteRequest{UserID: subject, Content: "newer"})
	require.NoError(t, err)
	require.NoError(t, f.db.Model(&models.AdminNote{}).Where("id = ?", older.ID).
		Update("created_at", time.Now().Add(-time.Hour)).Error)

	require.NotNil(t, pinned.Author)
	assert.Equal(t, "admin", pinned.Author.Pseudo)

	resp, err := f.notes.List(ctx, admin, subject)
	require.NoError(t, err)
	require.Len(t, resp.Data, 3)
	assert.Equal(t, pinned.ID, resp.Data[0].ID)
	assert.Equal(t, newer.ID, resp.Data[1].ID)
	assert.Equal(t, older.ID, resp.Data[2].ID)
}

func TestNoteValidationAndAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t)
	member := f.createUser(t, "renard", models.RoleUser, true)

	_, err := f.notes.List(ctx, admin, "")
	verr, ok := apperr.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "userId")

	_, err = f.notes.Create(ctx, admin, &dto.CreateNoteRequest{UserID: uuid.NewString(), Content: "x"})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	_, err = f.notes.Create(ctx, admin, &dto.CreateNoteRequest{UserID: member.UserID.String(), Content: ""})
	_, ok = apperr.AsValidation(err)
	assert.True(t, ok)

	_, err = f.notes.List(ctx, member, member.UserID.String())
	assert.True(t, errors.Is(err, apperr.ErrForbidden))
}

func TestUpdateAndDeleteNote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t)
	member := f.createUser(t, "renard", models.RoleUser, true)
	note, err := f.notes.Create(ctx, admin, &dto.CreateNoteRequest{UserID: member.UserID.String(), Content: "draft"})
	require.NoError(t, err)

	updated, err := f.notes.Update(ctx, admin, note.ID, &dto.UpdateNoteRequest{Content: strPtr("final"), Pinned: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Content)
	assert.True(t, updated.Pinned)

	require.NoError(t, f.notes.Delete(ctx, admin, note.ID))
	assert.True(t, errors.Is(f.notes.Delete(ctx, admin, note.ID), apperr.ErrNotFound))

	_, err = f.notes.Update(ctx, admin, note.ID, &dto.UpdateNoteRequest{Pinned: boolPtr(false)})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}
