package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/hastingtx/backend/internal/apps"
	"github.com/hastingtx/backend/internal/config"
	"github.com/hastingtx/backend/internal/handlers"
	"github.com/hastingtx/backend/internal/middleware"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	healthHandler *handlers.HealthHandler,
	adminAuthHandler *handlers.AdminAuthHandler,
	plugins []apps.Plugin,
) {
	api := app.Group("/api")

	// General API rate limiter: 120 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               120,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Admin login gets a stricter limit: 10 req/min per IP
	api.Post("/admin/login", limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}), adminAuthHandler.Login)

	admin := api.Group("/admin", middleware.AdminRequired(cfg))

	// Every app group carries the anonymous identity cookie so progress
	// tracking works without accounts.
	for _, p := range plugins {
		group := api.Group("/"+p.ID(), middleware.EnsureIdentity())
		p.RegisterRoutes(group, db, cfg)

		if ap, ok := p.(apps.AdminPlugin); ok {
			ap.RegisterAdminRoutes(admin.Group("/"+p.ID()), db, cfg)
		}
	}
}
