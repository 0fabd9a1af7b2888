package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterCreatesUnapprovedUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.auth.Register(ctx, &dto.RegisterRequest{
		Pseudo:   " renard ",
		Email:    strPtr("Renard@Example.com"),
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, "renard", resp.User.Pseudo)
	assert.False(t, resp.User.Approved)
	assert.Equal(t, models.RoleUser, resp.User.Role)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	token, err := jwt.Parse(resp.AccessToken, func(*jwt.Token) (interface{}, error) {
		return []byte(f.cfg.JWTSecret), nil
	})
	require.NoError(t, err)
	sub, err := token.Claims.GetSubject()
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID.String(), sub)

	_, err = f.auth.Register(ctx, &dto.RegisterRequest{Pseudo: "renard", Password: "password123"})
	verr, ok := apperr.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "pseudo")

	_, err = f.auth.Register(ctx, &dto.RegisterRequest{Pseudo: "ab", Email: strPtr("nope"), Password: "short"})
	verr, ok = apperr.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "pseudo")
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "password")
}

func TestLoginByPseudoOrEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.auth.Register(ctx, &dto.RegisterRequest{Pseudo: "renard", Email: strPtr("renard@example.com"), Password: "password123"})
	require.NoError(t, err)

	_, err = f.auth.Login(ctx, &dto.LoginRequest{Identifier: "renard", Password: "password123"})
	require.NoError(t, err)

	_, err = f.auth.Login(ctx, &dto.LoginRequest{Identifier: "RENARD@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = f.auth.Login(ctx, &dto.LoginRequest{Identifier: "renard", Password: "wrong-password"})
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))

	_, err = f.auth.Login(ctx, &dto.LoginRequest{Identifier: "ghost", Password: "password123"})
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
}

func TestRefreshRotatesToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first, err := f.auth.Register(ctx, &dto.RegisterRequest{Pseudo: "renard", Password: "password123"})
	require.NoError(t, err)

	second, err := f.auth.Refresh(ctx, &dto.RefreshRequest{RefreshToken: first.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = f.auth.Refresh(ctx, &dto.RefreshRequest{RefreshToken: first.RefreshToken})
	assert.True(t, errors.Is(err, ErrInvalidToken))

	_, err = f.auth.Refresh(ctx, &dto.RefreshRequest{})
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestLogoutRevokesToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess := f.createUser(t, "renard", models.RoleUser, true)
	login, err := f.auth.Login(ctx, &dto.LoginRequest{Identifier: "renard", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, f.auth.Logout(ctx, sess, &dto.LogoutRequest{RefreshToken: login.RefreshToken}))

	_, err = f.auth.Refresh(ctx, &dto.RefreshRequest{RefreshToken: login.RefreshToken})
	assert.True(t, errors.Is(err, ErrInvalidToken))

	_, ok := apperr.AsValidation(f.auth.Logout(ctx, sess, &dto.LogoutRequest{}))
	assert.True(t, ok)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess := f.createUser(t, "renard", models.RoleUser, true)
	require.NoError(t, f.db.Model(&models.User{}).Where("id = ?", sess.UserID).Update("must_change_password", true).Error)
	old, err := f.auth.Login(ctx, &dto.LoginRequest{Identifier: "renard", Password: "password123"})
	require.NoError(t, err)
	assert.True(t, old.User.MustChangePassword)

	_, err = f.auth.ChangePassword(ctx, sess, &dto.ChangePasswordRequest{OldPassword: "wrong", NewPassword: "new-password"})
	assert.True(t, errors.Is(err, ErrWrongPassword))

	resp, err := f.auth.ChangePassword(ctx, sess, &dto.ChangePasswordRequest{OldPassword: "password123", NewPassword: "new-password"})
	require.NoError(t, err)
	assert.False(t, resp.User.MustChangePassword)

	_, err = f.auth.Refresh(ctx, &dto.RefreshRequest{RefreshToken: old.RefreshToken})
	assert.True(t, errors.Is(err, ErrInvalidToken))

	_, err = f.auth.Refresh(ctx, &dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	require.NoError(t, err)

	_, err = f.auth.Login(ctx, &dto.LoginRequest{Identifier: "renard", Password: "new-password"})
	require.NoError(t, err)
}
