// Package testutil provides a migrated in-memory database for tests.
package testutil

import (
	"strings"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/database"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Config returns settings suitable for tests: sqlite, cheap bcrypt, no rate limits.
func Config(t testing.TB) *config.Config {
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	return &config.Config{
		DBDriver:               config.DriverSQLite,
		SQLitePath:             "file:" + name + "?mode=memory&cache=shared",
		JWTSecret:              "test-secret",
		JWTAccessExpiry:        15 * time.Minute,
		JWTRefreshExpiry:       24 * time.Hour,
		BcryptCost:             bcrypt.MinCost,
		CORSOrigins:            "*",
		RateLimitPerMinute:     0,
		AuthRateLimitPerMinute: 0,
		LogRetentionDays:       30,
		AdminPseudo:            "admin",
	}
}

// NewDB opens and migrates a private in-memory database that lives for the test.
func NewDB(t testing.TB, cfg *config.Config) *gorm.DB {
	t.Helper()
	db, err := database.Open(cfg)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
