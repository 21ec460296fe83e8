package devotionals

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/hastingtx/backend/internal/dto"
	"github.com/hastingtx/backend/internal/middleware"
)

// Handler serves the public devotional API. Every route runs behind the
// identity middleware, so requests always carry an anonymous identifier.
type Handler struct {
	catalog     *CatalogService
	progress    *ProgressService
	subscribers *SubscriberService
	enrollments *EnrollmentService
	audioDir    string
}

func NewHandler(catalog *CatalogService, progress *ProgressService, subscribers *SubscriberService, enrollments *EnrollmentService, audioDir string) *Handler {
	return &Handler{
		catalog:     catalog,
		progress:    progress,
		subscribers: subscribers,
		enrollments: enrollments,
		audioDir:    audioDir,
	}
}

// ListThreads returns published threads decorated with the caller's
// progress.
func (h *Handler) ListThreads(c *fiber.Ctx) error {
	threads, err := h.catalog.ListPublished()
	if err != nil {
		return serverError(c, "list threads", err)
	}

	summaries, err := h.progress.Summaries(middleware.GetUserIdentifier(c))
	if err != nil {
		return serverError(c, "load progress summaries", err)
	}

	items := make([]ThreadListItem, 0, len(threads))
	for _, t := range threads {
		item := ThreadListItem{Thread: t}
		if s, ok := summaries[t.ID]; ok {
			item.Progress = &s
		}
		items = append(items, item)
	}
	return c.JSON(items)
}

// GetThread returns one published thread with its day list. Each day entry
// carries whether this caller can open it yet.
func (h *Handler) GetThread(c *fiber.Ctx) error {
	thread, err := h.publishedThread(c)
	if err != nil {
		return h.threadError(c, err)
	}

	days, err := h.catalog.ListDays(thread.ID)
	if err != nil {
		return serverError(c, "list days", err)
	}

	userID := middleware.GetUserIdentifier(c)
	p, err := h.progress.Get(thread.ID, userID)
	if err != nil && !errors.Is(err, ErrNotStarted) {
		return serverError(c, "load progress", err)
	}

	var completed []int
	if p != nil {
		completed = p.CompletedDays
	}
	items := make([]DayListItem, 0, len(days))
	for _, d := range days {
		items = append(items, DayListItem{
			DayNumber:  d.DayNumber,
			Title:      d.Title,
			HasAudio:   d.AudioFilename != "",
			Accessible: dayAccessible(completed, d.DayNumber),
			Completed:  containsDay(completed, d.DayNumber),
		})
	}

	return c.JSON(ThreadDetailResponse{
		Thread:   *thread,
		Days:     items,
		Progress: summaryOf(p, thread.TotalDays),
	})
}

// StartThread creates (or returns) the caller's progress and points them at
// their current day.
func (h *Handler) StartThread(c *fiber.Ctx) error {
	thread, err := h.publishedThread(c)
	if err != nil {
		return h.threadError(c, err)
	}

	p, err := h.progress.GetOrCreate(thread.ID, middleware.GetUserIdentifier(c))
	if err != nil {
		return serverError(c, "start thread", err)
	}

	return c.JSON(StartThreadResponse{
		CurrentDay: p.CurrentDay,
		Redirect:   dayPath(thread.Identifier, p.CurrentDay),
	})
}

// GetDay returns one day's full content. A locked day redirects to the
// caller's current day rather than erroring, so a shared deep link lands
// somewhere useful.
func (h *Handler) GetDay(c *fiber.Ctx) error {
	thread, err := h.publishedThread(c)
	if err != nil {
		return h.threadError(c, err)
	}
	dayNum, err := dayParam(c)
	if err != nil {
		return badRequest(c, "Invalid day number")
	}

	userID := middleware.GetUserIdentifier(c)
	ok, err := h.progress.IsDayAccessible(thread.ID, userID, dayNum)
	if err != nil {
		return serverError(c, "check access", err)
	}
	if !ok {
		cur := 1
		if p, err := h.progress.Get(thread.ID, userID); err == nil {
			cur = p.CurrentDay
		}
		return c.Redirect(dayPath(thread.Identifier, cur), fiber.StatusFound)
	}

	day, err := h.catalog.GetDay(thread.ID, dayNum)
	if errors.Is(err, ErrDayNotFound) {
		return notFound(c, "Day not found")
	}
	if err != nil {
		return serverError(c, "load day", err)
	}

	if _, err := h.progress.GetOrCreate(thread.ID, userID); err == nil {
		_ = h.progress.Touch(thread.ID, userID)
	}
	return c.JSON(day)
}

// CompleteDay marks a day finished and tells the client where to go next.
func (h *Handler) CompleteDay(c *fiber.Ctx) error {
	thread, err := h.publishedThread(c)
	if err != nil {
		return h.threadError(c, err)
	}
	dayNum, err := dayParam(c)
	if err != nil {
		return badRequest(c, "Invalid day number")
	}

	userID := middleware.GetUserIdentifier(c)
	if _, err := h.progress.GetOrCreate(thread.ID, userID); err != nil {
		return serverError(c, "ensure progress", err)
	}

	p, complete, err := h.progress.MarkDayComplete(thread.ID, userID, dayNum)
	switch {
	case errors.Is(err, ErrDayOutOfRange):
		return badRequest(c, "Day number out of range")
	case errors.Is(err, ErrDayLocked):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Complete the previous day first",
		})
	case err != nil:
		return serverError(c, "complete day", err)
	}

	redirect := dayPath(thread.Identifier, p.CurrentDay)
	if complete {
		redirect = "/devotionals/" + thread.Identifier
	}
	return c.JSON(CompleteDayResponse{
		NextDay:        p.CurrentDay,
		ThreadComplete: complete,
		Redirect:       redirect,
	})
}

// StreamAudio serves the generated MP3 for a day the caller can access.
func (h *Handler) StreamAudio(c *fiber.Ctx) error {
	thread, err := h.publishedThread(c)
	if err != nil {
		return h.threadError(c, err)
	}
	dayNum, err := dayParam(c)
	if err != nil {
		return badRequest(c, "Invalid day number")
	}

	ok, err := h.progress.IsDayAccessible(thread.ID, middleware.GetUserIdentifier(c), dayNum)
	if err != nil {
		return serverError(c, "check access", err)
	}
	if !ok {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Complete the previous day first",
		})
	}

	day, err := h.catalog.GetDay(thread.ID, dayNum)
	if errors.Is(err, ErrDayNotFound) {
		return notFound(c, "Day not found")
	}
	if err != nil {
		return serverError(c, "load day", err)
	}
	if day.AudioFilename == "" {
		return notFound(c, "No audio for this day")
	}

	c.Set(fiber.HeaderContentType, "audio/mpeg")
	return c.SendFile(filepath.Join(h.audioDir, filepath.Base(day.AudioFilename)))
}

// Subscribe registers an email address, optionally enrolling it in a
// thread's daily drip.
func (h *Handler) Subscribe(c *fiber.Ctx) error {
	var req SubscribeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	sub, err := h.subscribers.Subscribe(req.Email, req.Name, req.ReceiveNewThreads, middleware.GetUserIdentifier(c))
	if errors.Is(err, ErrInvalidEmail) {
		return badRequest(c, "Invalid email address")
	}
	if err != nil {
		return serverError(c, "subscribe", err)
	}

	if req.EnrollThread != "" {
		thread, err := h.catalog.GetByIdentifier(req.EnrollThread)
		if err == nil && thread.IsPublished {
			if _, err := h.enrollments.Enroll(sub.ID, thread.ID); err != nil {
				slog.Error("enroll failed", "area", "devotionals", "subscriber_id", sub.ID, "error", err.Error())
			}
		}
	}

	return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{
		Message: "Subscribed. Check your email for your progress link.",
	})
}

// RequestSync emails a progress link. The response is identical for unknown
// and rate-limited addresses; only a delivery failure is surfaced.
func (h *Handler) RequestSync(c *fiber.Ctx) error {
	var req SyncRequestBody
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	err := h.subscribers.RequestSyncLink(c.UserContext(), req.Email, middleware.GetUserIdentifier(c))
	switch {
	case errors.Is(err, ErrInvalidEmail):
		return badRequest(c, "Invalid email address")
	case errors.Is(err, ErrMailDelivery):
		slog.Error("sync email delivery failed", "area", "devotionals", "error", err.Error())
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Error: true, Message: "Could not send email right now. Please try again later.",
		})
	case err != nil:
		return serverError(c, "request sync", err)
	}

	return c.JSON(dto.MessageResponse{
		Message: "If that address is subscribed, a progress link is on its way.",
	})
}

// ResolveSync rebinds the visiting browser to the identity behind a sync
// token and sends it to the catalog.
func (h *Handler) ResolveSync(c *fiber.Ctx) error {
	token := c.Params("token")
	current := middleware.GetUserIdentifier(c)
	userID, err := h.subscribers.ResolveSyncToken(token, current)
	if errors.Is(err, ErrTokenNotFound) {
		return notFound(c, "Invalid or expired link")
	}
	if err != nil {
		return serverError(c, "resolve sync token", err)
	}

	// Carry the visiting browser's reading history onto the adopted
	// identity. Best effort; the sync itself must not fail over it.
	if userID != current {
		if err := h.progress.ReassignIdentity(current, userID); err != nil {
			slog.Error("identity reassign failed", "area", "devotionals", "error", err.Error())
		}
	}

	middleware.RebindIdentity(c, userID)
	return c.Redirect("/devotionals", fiber.StatusFound)
}

// Unsubscribe deactivates the subscriber behind a token.
func (h *Handler) Unsubscribe(c *fiber.Ctx) error {
	err := h.subscribers.Unsubscribe(c.Params("token"))
	if errors.Is(err, ErrTokenNotFound) {
		return notFound(c, "Invalid unsubscribe link")
	}
	if err != nil {
		return serverError(c, "unsubscribe", err)
	}
	return c.JSON(dto.MessageResponse{Message: "You have been unsubscribed."})
}

func (h *Handler) publishedThread(c *fiber.Ctx) (*Thread, error) {
	thread, err := h.catalog.GetByIdentifier(c.Params("identifier"))
	if err != nil {
		return nil, err
	}
	if !thread.IsPublished {
		return nil, ErrThreadNotFound
	}
	return thread, nil
}

func (h *Handler) threadError(c *fiber.Ctx, err error) error {
	if errors.Is(err, ErrThreadNotFound) {
		return notFound(c, "Thread not found")
	}
	return serverError(c, "load thread", err)
}

func dayParam(c *fiber.Ctx) (int, error) {
	n, err := strconv.Atoi(c.Params("day"))
	if err != nil || n < 1 {
		return 0, ErrDayOutOfRange
	}
	return n, nil
}

func dayPath(identifier string, day int) string {
	return fmt.Sprintf("/devotionals/%s/day/%d", identifier, day)
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: msg})
}

func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: msg})
}

func serverError(c *fiber.Ctx, action string, err error) error {
	slog.Error("devotionals handler error", "area", "devotionals", "action", action, "error", err.Error())
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Internal server error",
	})
}

func parseUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(name))
}
