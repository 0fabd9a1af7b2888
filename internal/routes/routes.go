package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

type Handlers struct {
	Auth    *handlers.AuthHandler
	Health  *handlers.HealthHandler
	Form    *handlers.FormHandler
	Catalog *handlers.CatalogHandler
	Users   *handlers.UserHandler
	Notes   *handlers.NoteHandler
}

// NewHandlers wires services and handlers over one database.
func NewHandlers(cfg *config.Config, db *gorm.DB) *Handlers {
	catalogService := services.NewCatalogService(db)
	noteService := services.NewNoteService(db)

	return &Handlers{
		Auth:    handlers.NewAuthHandler(services.NewAuthService(db, cfg)),
		Health:  handlers.NewHealthHandler(db),
		Form:    handlers.NewFormHandler(services.NewFormService(db, catalogService)),
		Catalog: handlers.NewCatalogHandler(catalogService),
		Users:   handlers.NewUserHandler(services.NewUserService(db, cfg, noteService)),
		Notes:   handlers.NewNoteHandler(noteService),
	}
}

func perMinute(n int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               n,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
}

func Setup(app *fiber.App, cfg *config.Config, db *gorm.DB, h *Handlers) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	// General API rate limiter, per IP. Zero disables it.
	if cfg.RateLimitPerMinute > 0 {
		api.Use(perMinute(cfg.RateLimitPerMinute))
	}

	api.Get("/health", h.Health.Check)

	// Authenticated routes load a fresh session from the database on every request
	authed := []fiber.Handler{middleware.JWTProtected(cfg), middleware.LoadSession(db)}

	auth := api.Group("/auth")
	if cfg.AuthRateLimitPerMinute > 0 {
		auth.Use(perMinute(cfg.AuthRateLimitPerMinute))
	}
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)
	auth.Post("/logout", append(authed, h.Auth.Logout)...)

	// Member form
	form := api.Group("/form", authed...)
	form.Get("/", h.Form.Get)
	form.Post("/", h.Form.Save)
	form.Get("/pdf", h.Form.PDF)

	account := api.Group("/account", authed...)
	account.Get("/me", h.Users.Me)
	account.Patch("/password", h.Auth.ChangePassword)

	api.Get("/profiles/:id", append(authed, h.Users.Profile)...)

	// Admin panel
	admin := api.Group("/admin", append(authed, middleware.AdminRequired())...)

	admin.Get("/question-families", h.Catalog.ListFamilies)
	admin.Post("/question-families", h.Catalog.CreateFamily)
	admin.Get("/question-families/:id", h.Catalog.GetFamily)
	admin.Patch("/question-families/:id", h.Catalog.UpdateFamily)
	admin.Delete("/question-families/:id", h.Catalog.DeleteFamily)

	admin.Get("/questions", h.Catalog.ListQuestions)
	admin.Post("/questions", h.Catalog.CreateQuestion)
	admin.Get("/questions/:id", h.Catalog.GetQuestion)
	admin.Patch("/questions/:id", h.Catalog.UpdateQuestion)
	admin.Delete("/questions/:id", h.Catalog.DeleteQuestion)

	admin.Get("/users", h.Users.List)
	admin.Post("/users", h.Users.Bulk)
	admin.Post("/users/bulk", h.Users.Bulk)
	admin.Post("/users/create", h.Users.Create)
	admin.Get("/users/:id", h.Users.Get)
	admin.Patch("/users/:id", h.Users.Update)
	admin.Delete("/users/:id", h.Users.Delete)
	admin.Post("/users/:id/password", h.Users.ResetPassword)
	admin.Get("/users/:id/pdf", h.Form.UserPDF)

	admin.Get("/notes", h.Notes.List)
	admin.Post("/notes", h.Notes.Create)
	admin.Patch("/notes/:id", h.Notes.Update)
	admin.Delete("/notes/:id", h.Notes.Delete)
}
