package database

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type seedFamily struct {
	label     string
	kind      models.QuestionType
	questions []string
}

var demoCatalog = []seedFamily{
	{"Bougies / cire chaude", models.QuestionType1, []string{"Basse température", "Moyenne température", "Haute température"}},
	{"Massages", models.QuestionType1, []string{"Massage sensuel", "Massage tantrique", "Massage avec huiles"}},
	{"Pinces", models.QuestionType1, []string{"Pinces à tétons", "Pinces à clitoris", "Pinces à lèvres"}},
	{"Pratiques spéciales", models.QuestionType2, []string{"Jeux de rôle", "Photographie érotique", "Exhibitionnisme"}},
	{"Jouets", models.QuestionType2, []string{"Vibromasseurs", "Plugs anaux", "Menottes"}},
}

// Seed creates the configured admin account and, when enabled, the demo catalog.
// Both steps are idempotent.
func Seed(db *gorm.DB, cfg *config.Config) error {
	if cfg.AdminPassword != "" {
		if err := seedAdmin(db, cfg); err != nil {
			return err
		}
	}
	if cfg.SeedDemoCatalog {
		if err := seedCatalog(db); err != nil {
			return err
		}
	}
	return nil
}

func seedAdmin(db *gorm.DB, cfg *config.Config) error {
	var existing models.User
	err := db.Where("pseudo = ?", cfg.AdminPseudo).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := models.User{
		Pseudo:   cfg.AdminPseudo,
		Password: string(hash),
		Role:     models.RoleAdmin,
		Approved: true,
	}
	if email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail)); email != "" {
		admin.Email = &email
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	slog.Info("admin user seeded", "pseudo", admin.Pseudo, "user_id", admin.ID.String(), "action", "seed_admin")
	return nil
}

func seedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.QuestionFamily{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for i, f := range demoCatalog {
			family := models.QuestionFamily{Label: f.label, Type: f.kind, Order: i + 1}
			for j, text := range f.questions {
				family.Questions = append(family.Questions, models.Question{Text: text, Order: j + 1})
			}
			if err := tx.Create(&family).Error; err != nil {
				return fmt.Errorf("failed to seed family %q: %w", f.label, err)
			}
		}
		slog.Info("demo catalog seeded", "families", len(demoCatalog), "action", "seed_catalog")
		return nil
	})
}
