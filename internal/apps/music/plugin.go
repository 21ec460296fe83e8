// Package music implements the song sharing app: a searchable library with
// play/download counters, IP-scoped ratings, moderated comments and curated
// playlists.
package music

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hastingtx/backend/internal/config"
	"gorm.io/gorm"
)

type App struct{}

func New() *App { return &App{} }

func (a *App) ID() string { return "music" }

func (a *App) Models() []interface{} {
	return []interface{}{&Song{}, &Rating{}, &Comment{}, &Playlist{}, &PlaylistSong{}}
}

func (a *App) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	h := NewHandler(NewService(db))

	router.Get("/songs", h.ListSongs)
	router.Get("/songs/:id", h.GetSong)
	router.Post("/songs/:id/play", h.RecordPlay)
	router.Post("/songs/:id/download", h.RecordDownload)
	router.Post("/songs/:id/rate", h.Rate)
	router.Get("/songs/:id/comments", h.ListComments)
	router.Post("/songs/:id/comments", h.AddComment)
	router.Get("/playlists", h.ListPlaylists)
	router.Get("/playlists/:slug", h.GetPlaylist)
}

func (a *App) RegisterAdminRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	h := NewAdminHandler(NewService(db))

	router.Post("/songs", h.CreateSong)
	router.Put("/songs/:id", h.UpdateSong)
	router.Delete("/songs/:id", h.DeleteSong)
	router.Get("/comments/pending", h.PendingComments)
	router.Post("/comments/:id/approve", h.ApproveComment)
	router.Delete("/comments/:id", h.DeleteComment)
	router.Post("/playlists", h.CreatePlaylist)
	router.Post("/playlists/:id/songs/:songId", h.AddToPlaylist)
	router.Delete("/playlists/:id/songs/:songId", h.RemoveFromPlaylist)
	router.Put("/playlists/:id/reorder", h.ReorderPlaylist)
	router.Delete("/playlists/:id", h.DeletePlaylist)
}
