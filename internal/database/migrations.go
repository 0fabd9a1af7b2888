package database

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/models"
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

func allModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.RefreshToken{},
		&models.QuestionFamily{},
		&models.Question{},
		&models.UserForm{},
		&models.FormAnswer{},
		&models.AdminNote{},
		&models.SystemLog{},
	}
}

func migrations() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		{
			ID: "202601010001_initial_schema",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(allModels()...)
			},
			Rollback: func(tx *gorm.DB) error {
				m := allModels()
				for i := len(m) - 1; i >= 0; i-- {
					if err := tx.Migrator().DropTable(m[i]); err != nil {
						return err
					}
				}
				return nil
			},
		},
	}
}

// Migrate applies pending versioned migrations.
func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, migrations())
	if err := m.Migrate(); err != nil {
		return err
	}
	slog.Info("database migrated")
	return nil
}
