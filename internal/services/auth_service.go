package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/access"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/validation"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = apperr.Unauthorized("invalid identifier or password")
	ErrInvalidToken       = apperr.Unauthorized("invalid or expired refresh token")
	ErrWrongPassword      = apperr.Unauthorized("current password is incorrect")
)

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

// Register creates an unapproved member and signs them in.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	req.Pseudo = strings.TrimSpace(req.Pseudo)
	v := validation.Violations{}
	validation.ValidateRegister(req, v)
	if err := v.Err(); err != nil {
		return nil, err
	}

	email := normalizeEmail(req.Email)
	if err := ensureUnique(ctx, s.db, req.Pseudo, email, uuid.Nil); err != nil {
		return nil, err
	}

	hash, err := hashPassword(req.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Pseudo:    req.Pseudo,
		Email:     email,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Password:  hash,
		Role:      models.RoleUser,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, translateWriteError(err, "pseudo or email already taken")
	}

	slog.Info("user registered", "user_id", user.ID.String(), "action", "register")
	return s.generateTokenPair(ctx, &user)
}

// Login accepts a pseudo or an email as identifier.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	identifier := strings.TrimSpace(req.Identifier)
	if identifier == "" || req.Password == "" {
		metrics.AuthLogins.WithLabelValues("failure").Inc()
		return nil, ErrInvalidCredentials
	}

	user, err := s.findByIdentifier(ctx, identifier)
	if err != nil {
		metrics.AuthLogins.WithLabelValues("failure").Inc()
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		metrics.AuthLogins.WithLabelValues("failure").Inc()
		return nil, ErrInvalidCredentials
	}

	metrics.AuthLogins.WithLabelValues("success").Inc()
	return s.generateTokenPair(ctx, user)
}

func (s *AuthService) findByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	db := s.db.WithContext(ctx)
	var user models.User
	err := db.Where("pseudo = ?", identifier).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) && strings.Contains(identifier, "@") {
		err = db.Where("email = ?", strings.ToLower(identifier)).First(&user).Error
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Refresh rotates a refresh token: the presented one is revoked and a new pair issued.
func (s *AuthService) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.AuthResponse, error) {
	if req.RefreshToken == "" {
		return nil, ErrInvalidToken
	}
	tokenHash := hashToken(req.RefreshToken)
	db := s.db.WithContext(ctx)

	var stored models.RefreshToken
	if err := db.Where("token_hash = ? AND revoked = ?", tokenHash, false).First(&stored).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	// conditional revoke so two concurrent refreshes cannot both succeed
	res := db.Model(&models.RefreshToken{}).
		Where("id = ? AND revoked = ?", stored.ID, false).
		Update("revoked", true)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 || time.Now().After(stored.ExpiresAt) {
		return nil, ErrInvalidToken
	}

	var user models.User
	if err := db.First(&user, "id = ?", stored.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	return s.generateTokenPair(ctx, &user)
}

func (s *AuthService) Logout(ctx context.Context, sess *access.Session, req *dto.LogoutRequest) error {
	sess, err := access.RequireAuthenticated(sess)
	if err != nil {
		return err
	}
	if req.RefreshToken == "" {
		return apperr.InvalidField("refreshToken", "is required")
	}
	return s.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token_hash = ? AND user_id = ?", hashToken(req.RefreshToken), sess.UserID).
		Update("revoked", true).Error
}

// ChangePassword verifies the current password, stores the new one, clears the
// forced-change flag and revokes every refresh token. A fresh pair is returned.
func (s *AuthService) ChangePassword(ctx context.Context, sess *access.Session, req *dto.ChangePasswordRequest) (*dto.AuthResponse, error) {
	sess, err := access.RequireAuthenticated(sess)
	if err != nil {
		return nil, err
	}
	v := validation.Violations{}
	validation.ValidateChangePassword(req, v)
	if err := v.Err(); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	var user models.User
	if err := db.First(&user, "id = ?", sess.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthorized("user no longer exists")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		return nil, ErrWrongPassword
	}

	hash, err := hashPassword(req.NewPassword, s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&user).Updates(map[string]interface{}{
			"password":             hash,
			"must_change_password": false,
		}).Error; err != nil {
			return err
		}
		return revokeRefreshTokens(tx, user.ID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to change password: %w", err)
	}
	user.Password = hash
	user.MustChangePassword = false

	slog.Info("password changed", "user_id", user.ID.String(), "action", "change_password")
	return s.generateTokenPair(ctx, &user)
}

func (s *AuthService) generateTokenPair(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken(ctx, user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         dto.NewUserResponse(user),
	}, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) generateRefreshToken(ctx context.Context, user *models.User) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	rawToken := base64.URLEncoding.EncodeToString(rawBytes)

	record := models.RefreshToken{
		UserID:    user.ID,
		TokenHash: hashToken(rawToken),
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshExpiry),
	}

	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return rawToken, nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
