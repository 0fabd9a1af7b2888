package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/access"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/validation"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	defaultUserLimit = 20

	passwordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz23456789!@#$"
	generatedLength  = 12
)

var errUserNotFound = apperr.NotFound("user not found")

// UserService backs the admin user screens and account self-service.
type UserService struct {
	db    *gorm.DB
	cfg   *config.Config
	notes *NoteService
}

func NewUserService(db *gorm.DB, cfg *config.Config, notes *NoteService) *UserService {
	return &UserService{db: db, cfg: cfg, notes: notes}
}

// GeneratePassword returns a random password from an alphabet without look-alike characters.
func GeneratePassword() (string, error) {
	size := big.NewInt(int64(len(passwordAlphabet)))
	b := make([]byte, generatedLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", fmt.Errorf("failed to generate password: %w", err)
		}
		b[i] = passwordAlphabet[n.Int64()]
	}
	return string(b), nil
}

// hasUserType matches users whose JSON types array contains t.
func hasUserType(t models.UserType) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if db.Dialector.Name() == "postgres" {
			return db.Where("types @> ?::jsonb", `["`+string(t)+`"]`)
		}
		return db.Where(datatypes.JSONArrayQuery("types").Contains(string(t)))
	}
}

func (s *UserService) List(ctx context.Context, sess *access.Session, f dto.UserFilter) (*dto.ListResponse[dto.UserListItem], error) {
	if _, err := access.RequireAdministrator(sess); err != nil {
		return nil, err
	}
	page, limit := normalizePage(f.Page, f.Limit, defaultUserLimit)

	q := s.db.WithContext(ctx).Model(&models.User{})
	if f.Approved != nil {
		q = q.Where("approved = ?", *f.Approved)
	}
	if f.Role != "" {
		r := models.Role(f.Role)
		if !r.Valid() {
			return nil, apperr.InvalidField("role", "must be USER, ADMIN or MODERATOR")
		}
		q = q.Where("role = ?", r)
	}
	if f.Type != "" {
		t := models.UserType(f.Type)
		if !t.Valid() {
			return nil, apperr.InvalidField("type", "must be ETUDIANT or SOUMIS")
		}
		q = q.Scopes(hasUserType(t))
	}
	if strings.TrimSpace(f.Search) != "" {
		q = q.Scopes(containsFold(f.Search, "pseudo", "COALESCE(email, '')", "first_name", "last_name"))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	var users []models.User
	if err := q.Scopes(paginate(page, limit)).
		Preload("UserForm").
		Order("created_at desc").
		Find(&users).Error; err != nil {
		return nil, err
	}

	noteCounts, err := s.noteCounts(ctx, users)
	if err != nil {
		return nil, err
	}

	items := make([]dto.UserListItem, len(users))
	for i := range users {
		form := users[i].UserForm
		users[i].UserForm = nil
		items[i] = dto.UserListItem{User: users[i], NoteCount: noteCounts[users[i].ID], Form: dto.NewFormSummary(form)}
	}
	return &dto.ListResponse[dto.UserListItem]{Data: items, Pagination: dto.NewPagination(page, limit, total)}, nil
}

func (s *UserService) noteCounts(ctx context.Context, users []models.User) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(users))
	if len(users) == 0 {
		return counts, nil
	}
	ids := make([]uuid.UUID, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	var rows []idCount
	err := s.db.WithContext(ctx).Model(&models.AdminNote{}).
		Select("user_id AS id, COUNT(*) AS count").
		Where("user_id IN ?", ids).
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		counts[r.ID] = r.Count
	}
	return counts, nil
}

// Get returns the user with answers in catalog order and their notes.
func (s *UserService) Get(ctx context.Context, sess *access.Session, id uuid.UUID) (*dto.UserDetail, error) {
	if _, err := access.RequireAdministrator(sess); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound(err, errUserNotFound.Error())
	}

	detail := &dto.UserDetail{User: user}

	var form models.UserForm
	if err := db.Where("user_id = ?", id).Limit(1).Find(&form).Error; err != nil {
		return nil, err
	}
	if form.ID != uuid.Nil {
		var answers []models.FormAnswer
		err := db.Preload("Question.QuestionFamily").
			Joins("JOIN questions ON questions.id = form_answers.question_id").
			Joins("JOIN question_families ON question_families.id = questions.question_family_id").
			Where("form_answers.form_id = ?", form.ID).
			Order(clause.OrderByColumn{Column: clause.Column{Table: "question_families", Name: "order"}}).
			Order(clause.OrderByColumn{Column: clause.Column{Table: "questions", Name: "order"}}).
			Find(&answers).Error
		if err != nil {
			return nil, err
		}
		form.Answers = answers
		detail.Form = &form
	}

	notes, err := s.notes.listFor(ctx, id)
	if err != nil {
		return nil, err
	}
	detail.Notes = notes
	return detail, nil
}

func (s *UserService) Create(ctx context.Context, sess *access.Session, req *dto.CreateUserRequest) (*models.User, error) {
	if _, err := access.RequireAdministrator(sess); err != nil {
		return nil, err
	}
	req.Pseudo = strings.TrimSpace(req.Pseudo)
	v := validation.Violations{}
	validation.ValidateCreateUser(req, v)
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
		Approved:  true,
		Types:     datatypes.JSONSlice[models.UserType](dedupeTypes(req.Types)),
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Approved != nil {
		user.Approved = *req.Approved
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, translateWriteError(err, "pseudo or email already taken")
	}

	slog.Info("user created by admin", "user_id", sess.UserID.String(), "action", "create_user", "target_id", user.ID.String())
	return &user, nil
}

func dedupeTypes(types []models.UserType) []models.UserType {
	out := make([]models.UserType, 0, len(types))
	seen := make(map[models.UserType]bool, len(types))
	for _, t := range types {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// Update validates each present field on its own and applies them together.
func (s *UserService) Update(ctx context.Context, sess *access.Session, id uuid.UUID, req *dto.UpdateUserRequest) (*models.User, error) {
	sess, err := access.RequireAdministrator(sess)
	if err != nil {
		return nil, err
	}
	if req.Pseudo != nil {
		trimmed := strings.TrimSpace(*req.Pseudo)
		req.Pseudo = &trimmed
	}
	v := validation.Violations{}
	validation.ValidateUpdateUser(req, v)
	if err := v.Err(); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound(err, errUserNotFound.Error())
	}

	if req.Role != nil && user.ID == sess.UserID && !access.CanAdminister(*req.Role) {
		return nil, apperr.InvalidField("role", "you cannot remove your own admin role")
	}

	updates := map[string]interface{}{}
	var pseudo string
	var email *string
	if req.Pseudo != nil && *req.Pseudo != user.Pseudo {
		pseudo = *req.Pseudo
		updates["pseudo"] = pseudo
	}
	if req.Email != nil {
		email = normalizeEmail(req.Email)
		updates["email"] = email
	}
	if err := ensureUnique(ctx, s.db, pseudo, email, user.ID); err != nil {
		return nil, err
	}
	if req.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*req.LastName)
	}
	if req.Role != nil {
		updates["role"] = *req.Role
	}
	if req.Types != nil {
		updates["types"] = datatypes.JSONSlice[models.UserType](dedupeTypes(*req.Types))
	}
	if req.Approved != nil {
		updates["approved"] = *req.Approved
	}

	if len(updates) > 0 {
		if err := db.Model(&user).Updates(updates).Error; err != nil {
			return nil, translateWriteError(err, "pseudo or email already taken")
		}
		if req.Approved != nil {
			slog.Info("user approval changed", "user_id", sess.UserID.String(), "action", "set_approved", "target_id", id.String(), "approved", *req.Approved)
		}
	}

	var updated models.User
	if err := db.First(&updated, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &updated, nil
}

// deleteUsers removes users and everything hanging off them. Notes they wrote about
// others survive without an author.
func deleteUsers(tx *gorm.DB, ids []uuid.UUID) (int64, error) {
	forms := tx.Model(&models.UserForm{}).Select("id").Where("user_id IN ?", ids)
	if err := tx.Where("form_id IN (?)", forms).Delete(&models.FormAnswer{}).Error; err != nil {
		return 0, err
	}
	if err := tx.Where("user_id IN ?", ids).Delete(&models.UserForm{}).Error; err != nil {
		return 0, err
	}
	if err := tx.Where("user_id IN ?", ids).Delete(&models.RefreshToken{}).Error; err != nil {
		return 0, err
	}
	if err := tx.Where("user_id IN ?", ids).Delete(&models.AdminNote{}).Error; err != nil {
		return 0, err
	}
	if err := tx.Model(&models.AdminNote{}).Where("admin_id IN ?", ids).Update("admin_id", nil).Error; err != nil {
		return 0, err
	}
	res := tx.Where("id IN ?", ids).Delete(&models.User{})
	return res.RowsAffected, res.Error
}

func (s *UserService) Delete(ctx context.Context, sess *access.Session, id uuid.UUID) error {
	sess, err := access.RequireAdministrator(sess)
	if err != nil {
		return err
	}
	if id == sess.UserID {
		return apperr.Invalid("you cannot delete your own account")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deleted, err := deleteUsers(tx, []uuid.UUID{id})
		if err != nil {
			return err
		}
		if deleted == 0 {
			return errUserNotFound
		}
		slog.Info("user deleted", "user_id", sess.UserID.String(), "action", "delete_user", "target_id", id.String())
		return nil
	})
}

// Bulk approves, rejects or deletes several users. Delete never includes the caller.
func (s *UserService) Bulk(ctx context.Context, sess *access.Session, req *dto.BulkUserRequest) (*dto.BulkUserResponse, error) {
	sess, err := access.RequireAdministrator(sess)
	if err != nil {
		return nil, err
	}

	v := validation.Violations{}
	if len(req.UserIDs) == 0 {
		v.Add("userIds", "at least one user is required")
	}
	ids := make([]uuid.UUID, 0, len(req.UserIDs))
	for i, raw := range req.UserIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			v.Add(fmt.Sprintf("userIds[%d]", i), "must be a valid id")
			continue
		}
		ids = append(ids, id)
	}
	switch req.Action {
	case "approve", "reject", "delete":
	default:
		v.Add("action", "must be approve, reject or delete")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	var count int64
	switch req.Action {
	case "approve", "reject":
		res := db.Model(&models.User{}).Where("id IN ?", ids).Update("approved", req.Action == "approve")
		if res.Error != nil {
			return nil, res.Error
		}
		count = res.RowsAffected
	case "delete":
		targets := ids[:0]
		for _, id := range ids {
			if id != sess.UserID {
				targets = append(targets, id)
			}
		}
		if len(targets) > 0 {
			err := db.Transaction(func(tx *gorm.DB) error {
				n, err := deleteUsers(tx, targets)
				count = n
				return err
			})
			if err != nil {
				return nil, err
			}
		}
	}

	slog.Info("bulk user action", "user_id", sess.UserID.String(), "action", "bulk_"+req.Action, "count", count)
	return &dto.BulkUserResponse{Success: true, Count: count}, nil
}

// ResetPassword sets a new password (generated when none is given), flags it for
// change and signs the user out everywhere. The plain password is returned once.
func (s *UserService) ResetPassword(ctx context.Context, sess *access.Session, id uuid.UUID, req *dto.ResetPasswordRequest) (*dto.ResetPasswordResponse, error) {
	sess, err := access.RequireAdministrator(sess)
	if err != nil {
		return nil, err
	}
	v := validation.Violations{}
	validation.ValidateResetPassword(req, v)
	if err := v.Err(); err != nil {
		return nil, err
	}

	plain := ""
	if req.Password != nil {
		plain = *req.Password
	} else if plain, err = GeneratePassword(); err != nil {
		return nil, err
	}
	mustChange := true
	if req.MustChangePassword != nil {
		mustChange = *req.MustChangePassword
	}

	hash, err := hashPassword(plain, s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
			"password":             hash,
			"must_change_password": mustChange,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errUserNotFound
		}
		return revokeRefreshTokens(tx, id)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("password reset by admin", "user_id", sess.UserID.String(), "action", "reset_password", "target_id", id.String())
	return &dto.ResetPasswordResponse{Password: plain, MustChangePassword: mustChange}, nil
}

// Me returns the caller's account along with their admin capability.
func (s *UserService) Me(ctx context.Context, sess *access.Session) (*dto.MeResponse, error) {
	sess, err := access.RequireAuthenticated(sess)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", sess.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthorized("user no longer exists")
		}
		return nil, err
	}
	return &dto.MeResponse{User: user, CanAdminister: access.CanAdminister(user.Role)}, nil
}

// Profile is the note-free view of a user, visible to admins and the owner.
func (s *UserService) Profile(ctx context.Context, sess *access.Session, id uuid.UUID) (*dto.ProfileResponse, error) {
	if err := access.CanViewProfile(sess, id); err != nil {
		return nil, err
	}
	var user models.User
	if err := s.db.WithContext(ctx).Preload("UserForm").First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound(err, errUserNotFound.Error())
	}
	form := user.UserForm
	user.UserForm = nil
	return &dto.ProfileResponse{User: user, Form: dto.NewFormSummary(form)}, nil
}
