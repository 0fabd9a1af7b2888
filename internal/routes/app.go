package routes

import (
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/middleware"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"
)

// NewApp builds the fully wired fiber application.
func NewApp(cfg *config.Config, db *gorm.DB) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "foxclub-backend",
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(middleware.Metrics())
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	Setup(app, cfg, db, NewHandlers(cfg, db))
	return app
}
