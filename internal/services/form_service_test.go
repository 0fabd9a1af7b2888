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

func TestGetOrCreateFormRequiresApproval(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	member := f.createUser(t, "renard", models.RoleUser, false)

	_, err := f.forms.GetOrCreateForm(ctx, member)
	assert.True(t, errors.Is(err, apperr.ErrForbidden))

	member.Approved = true
	resp, err := f.forms.GetOrCreateForm(ctx, member)
	require.NoError(t, err)
	assert.False(t, resp.Form.Submitted)
	assert.Empty(t, resp.Form.Answers)

	again, err := f.forms.GetOrCreateForm(ctx, member)
	require.NoError(t, err)
	assert.Equal(t, resp.Form.ID, again.Form.ID)

	var n int64
	f.db.Model(&models.UserForm{}).Where("user_id = ?", member.UserID).Count(&n)
	assert.Equal(t, int64(1), n)
}

func TestGetOrCreateFormReturnsOrderedCatalog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t)
	second := f.family(t, admin, "Second", models.QuestionType2)
	first, err := f.catalog.CreateFamily(ctx, admin, &dto.CreateFamilyRequest{Label: "First", Type: models.QuestionType1, Order: intPtr(0)})
	require.NoError(t, err)
	f.question(t, admin, first.ID.String(), "b")
	q, err := f.catalog.CreateQuestion(ctx, admin, &dto.CreateQuestionRequest{QuestionFamilyID: first.ID.String(), Text: "a", Order: intPtr(0)})
	require.NoError(t, err)

	resp, err := f.forms.GetOrCreateForm(ctx, admin)
	require.NoError(t, err)
	require.Len(t, resp.QuestionFamilies, 2)
	assert.Equal(t, first.ID, resp.QuestionFamilies[0].ID)
	assert.Equal(t, second.ID, resp.QuestionFamilies[1].ID)
	require.Len(t, resp.QuestionFamilies[0].Questions, 2)
	assert.Equal(t, q.ID, resp.QuestionFamilies[0].Questions[0].ID)
}

func TestSaveAnswersUpsertsAndPreservesAbsentFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t)
	fam := f.family(t, admin, "Massages", models.QuestionType1)
	q := f.question(t, admin, fam.ID.String(), "Massage du dos")
	member := f.createUser(t, "renard", models.RoleUser, true)

	form, err := f.forms.SaveAnswers(ctx, member, &dto.SaveAnswersRequest{Answers: []dto.AnswerInput{
		{QuestionID: q.ID.String(), Answer: dto.AnswerFields{Score: intPtr(2), Top: boolPtr(true), Notes: strPtr("doux")}},
	}})
	require.NoError(t, err)
	require.Len(t, form.Answers, 1)
	assert.Equal(t, 2, form.Answers[0].Score)

	form, err = f.forms.SaveAnswers(ctx, member, &dto.SaveAnswersRequest{Answers: []dto.AnswerInput{
		{QuestionID: q.ID.String(), Answer: dto.AnswerFields{Score: intPtr(4), Bot: boolPtr(true)}},
	}})
	require.NoError(t, err)
	require.Len(t, form.Answers, 1)

	a := form.Answers[0]
	assert.Equal(t, 4, a.Score)
	require.NotNil(t, a.Top)
	assert.True(t, *a.Top)
	require.NotNil(t, a.Bot)
	assert.True(t, *a.Bot)
	require.NotNil(t, a.Notes)
	assert.Equal(t, "doux", *a.Notes)
	assert.False(t, form.Submitted)
	require.NotNil(t, a.Question)
	assert.Equal(t, q.ID, a.Question.ID)
}

func TestSaveAnswersSubmitFreezesForm(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t)
	fam := f.family(t, admin, "Jouets", models.QuestionType2)
	q := f.question(t, admin, fam.ID.String(), "Plug")
	member := f.createUser(t, "renard", models.RoleUser, true)

	form, err := f.forms.SaveAnswers(ctx, member, &dto.SaveAnswersRequest{
		Answers:   []dto.AnswerInput{{QuestionID: q.ID.String(), Answer: dto.AnswerFields{Score: intPtr(3), Include: boolPtr(true)}}},
		Submitted: true,
	})
	require.NoError(t, err)
	assert.True(t, form.Submitted)
	assert.NotNil(t, form.SubmittedAt)

	_, err = f.forms.SaveAnswers(ctx, member, &dto.SaveAnswersRequest{
		Answers: []dto.AnswerInput{{QuestionID: q.ID.String(), Answer: dto.AnswerFields{Score: intPtr(1)}}},
	})
	assert.True(t, errors.Is(err, ErrFormSubmitted))
	assert.True(t, errors.Is(err, apperr.ErrForbidden))

	var stored models.FormAnswer
	require.NoError(t, f.db.First(&stored, "question_id = ?", q.ID).Error)
	assert.Equal(t, 3, stored.Score)

	resp, err := f.forms.GetOrCreateForm(ctx, member)
	require.NoError(t, err)
	assert.True(t, resp.Form.Submitted)
}

func TestWriteAnswersRefusesFormSubmittedInBetween(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t)
	fam := f.family(t, admin, "Massages", models.QuestionType1)
	q := f.question(t, admin, fam.ID.String(), "Dos")
	member := f.createUser(t, "renard", models.RoleUser, true)

	_, err := f.forms.SaveAnswers(ctx, member, &dto.SaveAnswersRequest{Answers: []dto.AnswerInput{
		{QuestionID: q.ID.String(), Answer: dto.AnswerFields{Score: intPtr(2)}},
	}})
	require.NoError(t, err)

	form, err := ensureForm(f.db, member.UserID)
	require.NoError(t, err)
	require.False(t, form.Submitted)

	// another request submits after the draft was read
	require.NoError(t, f.db.Model(&models.UserForm{}).Where("id = ?", form.ID).Update("submitted", true).Error)

	for _, submit := range []bool{false, true} {
		req := &dto.SaveAnswersRequest{
			Answers:   []dto.AnswerInput{{QuestionID: q.ID.String(), Answer: dto.AnswerFields{Score: intPtr(4), Top: boolPtr(true)}}},
			Submitted: submit,
		}
		err = writeAnswers(f.db, form.ID, []uuid.UUID{q.ID}, req, time.Now())
		assert.True(t, errors.Is(err, ErrFormSubmitted))
		assert.True(t, errors.Is(err, apperr.ErrForbidden))
	}

	var stored models.FormAnswer
	require.NoError(t, f.db.First(&stored, "question_id = ?", q.ID).Error)
	assert.Equal(t, 2, stored.Score)
	assert.Nil(t, stored.Top)

	var reloaded models.UserForm
	require.NoError(t, f.db.First(&reloaded, "id = ?", form.ID).Error)
	assert.Nil(t, reloaded.SubmittedAt)
}

func TestWriteAnswersSecondSubmitIsRefused(t *testing.T) {
	f := newFixture(t)
	admin := f.admin(t)
	fam := f.family(t, admin, "Jouets", models.QuestionType2)
	q := f.question(t, admin, fam.ID.String(), "Plug")
	member := f.createUser(t, "renard", models.RoleUser, true)

	form, err := ensureForm(f.db, member.UserID)
	require.NoError(t, err)

	first := &dto.SaveAnswersRequest{
		Answers:   []dto.AnswerInput{{QuestionID: q.ID.String(), Answer: dto.AnswerFields{Score: intPtr(3)}}},
		Submitted: true,
	}
	require.NoError(t, writeAnswers(f.db, form.ID, []uuid.UUID{q.ID}, first, time.Now()))

	second := &dto.SaveAnswersRequest{
		Answers:   []dto.AnswerInput{{QuestionID: q.ID.String(), Answer: dto.AnswerFields{Score: intPtr(1)}}},
		Submitted: true,
	}
	err = writeAnswers(f.db, form.ID, []uuid.UUID{q.ID}, second, time.Now())
	assert.True(t, errors.Is(err, ErrFormSubmitted))

	var stored models.FormAnswer
	require.NoError(t, f.db.First(&stored, "question_id = ?", q.ID).Error)
	assert.Equal(t, 3, stored.Score)
}

func TestSaveAnswersRejectsWrongShapeForFamilyType(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t)
	type1 := f.family(t, admin, "Pinces", models.QuestionType1)
	type2 := f.family(t, admin, "Jouets", models.QuestionType2)
	q1 := f.question(t, admin, type1.ID.String(), "Pinces à linge")
	q2 := f.question(t, admin, type2.ID.String(), "Vibromasseur")
	member := f.createUser(t, "renard", models.RoleUser, true)

	_, err := f.forms.SaveAnswers(ctx, member, &dto.SaveAnswersRequest{Answers: []dto.AnswerInput{
		{QuestionID: q1.ID.String(), Answer: dto.AnswerFields{Score: intPtr(2), Include: boolPtr(true)}},
		{QuestionID: q2.ID.String(), Answer: dto.AnswerFields{Score: intPtr(2), Top: boolPtr(true)}},
	}})
	verr, ok := apperr.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "answers[0].answer.include")
	assert.Contains(t, verr.Fields, "answers[1].answer.top")

	var n int64
	f.db.Model(&models.FormAnswer{}).Count(&n)
	assert.Zero(t, n)
}

func TestSaveAnswersIsAllOrNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t)
	fam := f.family(t, admin, "Massages", models.QuestionType1)
	q := f.question(t, admin, fam.ID.String(), "Pieds")
	member := f.createUser(t, "renard", models.RoleUser, true)

	_, err := f.forms.SaveAnswers(ctx, member, &dto.SaveAnswersRequest{Answers: []dto.AnswerInput{
		{QuestionID: q.ID.String(), Answer: dto.AnswerFields{Score: intPtr(2)}},
		{QuestionID: "0b9f4c1e-8d0c-4c1a-9d0a-6f1f5e2b3c4d", Answer: dto.AnswerFields{Score: intPtr(2)}},
	}, Submitted: true})
	verr, ok := apperr.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "answers[1].questionId")

	var n int64
	f.db.Model(&models.FormAnswer{}).Count(&n)
	assert.Zero(t, n)

	var form models.UserForm
	require.NoError(t, f.db.First(&form, "user_id = ?", member.UserID).Error)
	assert.False(t, form.Submitted)
}

func TestSaveAnswersValidatesPayload(t *testing.T) {
	f := newFixture(t)
	member := f.createUser(t, "renard", models.RoleUser, true)

	_, err := f.forms.SaveAnswers(context.Background(), member, &dto.SaveAnswersRequest{})
	verr, ok := apperr.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "answers")

	_, err = f.forms.SaveAnswers(context.Background(), member, &dto.SaveAnswersRequest{Answers: []dto.AnswerInput{
		{QuestionID: "nope", Answer: dto.AnswerFields{Score: intPtr(9)}},
	}})
	verr, ok = apperr.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "answers[0].questionId")
	assert.Contains(t, verr.Fields, "answers[0].answer.score")
}

func TestExportDataAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t)
	member := f.createUser(t, "renard", models.RoleUser, true)
	other := f.createUser(t, "loup", models.RoleUser, true)

	user, form, families, err := f.forms.ExportData(ctx, admin, member.UserID)
	require.NoError(t, err)
	assert.Equal(t, "renard", user.Pseudo)
	assert.Nil(t, form)
	assert.Empty(t, families)

	_, _, _, err = f.forms.ExportData(ctx, other, member.UserID)
	assert.True(t, errors.Is(err, apperr.ErrForbidden))

	_, err = f.forms.GetOrCreateForm(ctx, member)
	require.NoError(t, err)
	_, form, _, err = f.forms.ExportData(ctx, member, member.UserID)
	require.NoError(t, err)
	assert.NotNil(t, form)

	member.Approved = false
	_, _, _, err = f.forms.ExportData(ctx, member, member.UserID)
	assert.True(t, errors.Is(err, apperr.ErrForbidden))
}
