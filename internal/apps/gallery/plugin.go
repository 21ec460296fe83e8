// Package gallery implements the photo gallery app: named sections browsed
// day by day, with view counters.
package gallery

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hastingtx/backend/internal/config"
	"gorm.io/gorm"
)

type App struct{}

func New() *App { return &App{} }

func (a *App) ID() string { return "gallery" }

func (a *App) Models() []interface{} {
	return []interface{}{&Section{}, &Image{}}
}

func (a *App) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	h := NewHandler(NewService(db))

	router.Get("/sections", h.ListSections)
	router.Get("/sections/:slug", h.GetSection)
	router.Get("/sections/:slug/day/:date", h.GetDay)
	router.Post("/images/:id/view", h.RecordView)
}

func (a *App) RegisterAdminRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	h := NewAdminHandler(NewService(db))

	router.Post("/sections", h.CreateSection)
	router.Delete("/sections/:id", h.DeleteSection)
	router.Post("/sections/:id/images", h.CreateImage)
	router.Put("/images/:id", h.UpdateImage)
	router.Delete("/images/:id", h.DeleteImage)
}
