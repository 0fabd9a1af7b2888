package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/validation"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxPageLimit = 100

func normalizePage(page, limit, defaultLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func paginate(page, limit int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset((page - 1) * limit).Limit(limit)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsFold builds a portable case-insensitive substring match on the given columns.
func containsFold(search string, columns ...string) func(*gorm.DB) *gorm.DB {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(search))) + "%"
	return func(db *gorm.DB) *gorm.DB {
		parts := make([]string, len(columns))
		args := make([]interface{}, len(columns))
		for i, col := range columns {
			parts[i] = fmt.Sprintf(`LOWER(%s) LIKE ? ESCAPE '\'`, col)
			args[i] = pattern
		}
		return db.Where("("+strings.Join(parts, " OR ")+")", args...)
	}
}

func byOrder(desc bool) clause.OrderByColumn {
	return clause.OrderByColumn{Column: clause.Column{Name: "order"}, Desc: desc}
}

// nextOrder returns max("order")+1 over the scoped rows, or 1 when there are none.
func nextOrder(db *gorm.DB, model interface{}, scope func(*gorm.DB) *gorm.DB) (int, error) {
	var maxOrder int64
	q := db.Model(model).Select("COALESCE(MAX(?), 0)", clause.Column{Name: "order"})
	if scope != nil {
		q = q.Scopes(scope)
	}
	if err := q.Row().Scan(&maxOrder); err != nil {
		return 0, fmt.Errorf("failed to compute next order: %w", err)
	}
	return int(maxOrder) + 1, nil
}

func parseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, apperr.InvalidField(field, "must be a valid id")
	}
	return id, nil
}

func hashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	e := strings.ToLower(strings.TrimSpace(*email))
	if e == "" {
		return nil
	}
	return &e
}

// ensureUnique reports pseudo/email collisions with users other than exclude.
func ensureUnique(ctx context.Context, db *gorm.DB, pseudo string, email *string, exclude uuid.UUID) error {
	v := validation.Violations{}
	if pseudo != "" {
		var n int64
		if err := db.WithContext(ctx).Model(&models.User{}).Where("pseudo = ? AND id <> ?", pseudo, exclude).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			v.Add("pseudo", "is already taken")
		}
	}
	if email != nil {
		var n int64
		if err := db.WithContext(ctx).Model(&models.User{}).Where("email = ? AND id <> ?", *email, exclude).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			v.Add("email", "is already registered")
		}
	}
	return v.Err()
}

// translateWriteError turns a unique-key race into a validation error.
func translateWriteError(err error, msg string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Invalid(msg)
	}
	return err
}

func notFound(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(msg)
	}
	return err
}

func revokeRefreshTokens(tx *gorm.DB, userID uuid.UUID) error {
	return tx.Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked = ?", userID, false).
		Update("revoked", true).Error
}
