// Package devotionals implements the "Pull The Thread" reading app: multi-day
// devotional series with sequential day unlocking, anonymous progress
// tracking, email sync links, daily drip emails and generated audio.
package devotionals

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/hastingtx/backend/internal/config"
	"github.com/hastingtx/backend/internal/mailer"
	"gorm.io/gorm"
)

// App is the devotionals plugin.
type App struct {
	mail    *mailer.Sender
	enqueue func(id uuid.UUID) bool

	enrollments *EnrollmentService
}

// New wires the plugin. enqueue schedules background audio generation for a
// devotional day and reports whether the job was accepted.
func New(mail *mailer.Sender, enqueue func(id uuid.UUID) bool) *App {
	return &App{mail: mail, enqueue: enqueue}
}

func (a *App) ID() string { return "devotionals" }

func (a *App) Models() []interface{} {
	return []interface{}{&Thread{}, &Devotional{}, &Progress{}, &Subscriber{}, &Enrollment{}}
}

// Enrollments exposes the drip service so main can start the daily sender.
// It is available after RegisterRoutes has run.
func (a *App) Enrollments() *EnrollmentService {
	return a.enrollments
}

func (a *App) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	catalog := NewCatalogService(db)
	progress := NewProgressService(db)
	subscribers := NewSubscriberService(db, a.mail, cfg.SyncEmailWindow)
	a.enrollments = NewEnrollmentService(db, a.mail)

	h := NewHandler(catalog, progress, subscribers, a.enrollments, cfg.AudioDir)

	router.Get("/", h.ListThreads)
	router.Post("/subscribe", h.Subscribe)
	router.Post("/sync", h.RequestSync)
	router.Get("/sync/:token", h.ResolveSync)
	router.Get("/unsubscribe/:token", h.Unsubscribe)
	router.Post("/unsubscribe/:token", h.Unsubscribe)
	router.Get("/:identifier", h.GetThread)
	router.Post("/:identifier/start", h.StartThread)
	router.Get("/:identifier/day/:day", h.GetDay)
	router.Post("/:identifier/day/:day/complete", h.CompleteDay)
	router.Get("/:identifier/day/:day/audio", h.StreamAudio)
}

func (a *App) RegisterAdminRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	catalog := NewCatalogService(db)
	subscribers := NewSubscriberService(db, a.mail, cfg.SyncEmailWindow)
	importer := NewImporter(db, func(d *Devotional) { a.enqueue(d.ID) })

	h := NewAdminHandler(catalog, subscribers, importer, a.enqueue)

	router.Get("/threads", h.ListThreads)
	router.Post("/threads", h.CreateThread)
	router.Get("/threads/:id", h.GetThread)
	router.Put("/threads/:id", h.UpdateThread)
	router.Delete("/threads/:id", h.DeleteThread)
	router.Post("/threads/:id/days", h.CreateDay)
	router.Post("/threads/:id/audio", h.EnqueueThreadAudio)
	router.Put("/days/:id", h.UpdateDay)
	router.Delete("/days/:id", h.DeleteDay)
	router.Post("/days/:id/audio", h.EnqueueDayAudio)
	router.Post("/import", h.ImportThread)
	router.Get("/subscribers", h.ListSubscribers)
	router.Post("/digest", h.SendDigest)
}
