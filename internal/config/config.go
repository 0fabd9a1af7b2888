package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	// Database
	DBDriver   string `env:"DB_DRIVER" envDefault:"postgres"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" envDefault:"foxclub"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"foxclub.db"`

	// JWT
	JWTSecret        string        `env:"JWT_SECRET"`
	JWTAccessExpiry  time.Duration `env:"JWT_ACCESS_EXPIRY" envDefault:"15m"`
	JWTRefreshExpiry time.Duration `env:"JWT_REFRESH_EXPIRY" envDefault:"168h"`

	BcryptCost int `env:"BCRYPT_COST" envDefault:"12"`

	// Server
	Port                   string `env:"PORT" envDefault:"8080"`
	CORSOrigins            string `env:"CORS_ORIGINS" envDefault:"*"`
	RateLimitPerMinute     int    `env:"RATE_LIMIT_PER_MINUTE" envDefault:"60"`
	AuthRateLimitPerMinute int    `env:"AUTH_RATE_LIMIT_PER_MINUTE" envDefault:"10"`

	// Logging / error tracking
	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`
	LogRetentionDays int    `env:"LOG_RETENTION_DAYS" envDefault:"30"`
	SentryDSN        string `env:"SENTRY_DSN"`
	AppEnv           string `env:"APP_ENV" envDefault:"development"`

	// Seeding
	AdminPseudo     string `env:"ADMIN_PSEUDO" envDefault:"admin"`
	AdminEmail      string `env:"ADMIN_EMAIL"`
	AdminPassword   string `env:"ADMIN_PASSWORD"`
	SeedDemoCatalog bool   `env:"SEED_DEMO_CATALOG" envDefault:"false"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err == nil {
		slog.Info(".env file loaded")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET environment variable is required")
	}
	switch c.DBDriver {
	case DriverPostgres:
		if c.DBPassword == "" {
			return errors.New("DB_PASSWORD environment variable is required")
		}
	case DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.BcryptCost)
	}
	return nil
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
