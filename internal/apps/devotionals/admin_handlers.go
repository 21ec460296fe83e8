package devotionals

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/hastingtx/backend/internal/dto"
)

// AdminHandler serves the thread and day management API. Routes are mounted
// behind admin auth middleware.
type AdminHandler struct {
	catalog     *CatalogService
	subscribers *SubscriberService
	importer    *Importer
	enqueue     func(id uuid.UUID) bool
}

func NewAdminHandler(catalog *CatalogService, subscribers *SubscriberService, importer *Importer, enqueue func(id uuid.UUID) bool) *AdminHandler {
	return &AdminHandler{
		catalog:     catalog,
		subscribers: subscribers,
		importer:    importer,
		enqueue:     enqueue,
	}
}

func (h *AdminHandler) ListThreads(c *fiber.Ctx) error {
	threads, err := h.catalog.ListAll()
	if err != nil {
		return serverError(c, "list threads", err)
	}
	return c.JSON(threads)
}

func (h *AdminHandler) CreateThread(c *fiber.Ctx) error {
	var req CreateThreadRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Title == "" || req.Identifier == "" {
		return badRequest(c, "identifier and title are required")
	}
	if req.TotalDays < 1 {
		req.TotalDays = 1
	}

	thread := Thread{
		Identifier:     req.Identifier,
		Title:          req.Title,
		Description:    req.Description,
		Author:         req.Author,
		CoverImage:     req.CoverImage,
		TotalDays:      req.TotalDays,
		IsPublished:    req.IsPublished,
		Series:         req.Series,
		SeriesPosition: req.SeriesPosition,
	}
	if err := h.catalog.CreateThread(&thread); err != nil {
		return serverError(c, "create thread", err)
	}
	return c.Status(fiber.StatusCreated).JSON(thread)
}

func (h *AdminHandler) GetThread(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid thread ID")
	}
	thread, err := h.catalog.GetThread(id)
	if errors.Is(err, ErrThreadNotFound) {
		return notFound(c, "Thread not found")
	}
	if err != nil {
		return serverError(c, "load thread", err)
	}

	days, err := h.catalog.ListDays(id)
	if err != nil {
		return serverError(c, "list days", err)
	}
	return c.JSON(fiber.Map{"thread": thread, "days": days})
}

func (h *AdminHandler) UpdateThread(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid thread ID")
	}
	var req UpdateThreadRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	updates := map[string]interface{}{}
	if req.Identifier != nil {
		updates["identifier"] = *req.Identifier
	}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Author != nil {
		updates["author"] = *req.Author
	}
	if req.CoverImage != nil {
		updates["cover_image"] = *req.CoverImage
	}
	if req.TotalDays != nil {
		if *req.TotalDays < 1 {
			return badRequest(c, "total_days must be positive")
		}
		updates["total_days"] = *req.TotalDays
	}
	if req.IsPublished != nil {
		updates["is_published"] = *req.IsPublished
	}
	if req.Series != nil {
		updates["series"] = req.Series
	}
	if req.SeriesPosition != nil {
		updates["series_position"] = req.SeriesPosition
	}

	thread, err := h.catalog.UpdateThread(id, updates)
	if errors.Is(err, ErrThreadNotFound) {
		return notFound(c, "Thread not found")
	}
	if err != nil {
		return serverError(c, "update thread", err)
	}
	return c.JSON(thread)
}

func (h *AdminHandler) DeleteThread(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid thread ID")
	}
	err = h.catalog.DeleteThread(id)
	if errors.Is(err, ErrThreadNotFound) {
		return notFound(c, "Thread not found")
	}
	if err != nil {
		return serverError(c, "delete thread", err)
	}
	return c.JSON(dto.MessageResponse{Message: "Thread deleted"})
}

func (h *AdminHandler) CreateDay(c *fiber.Ctx) error {
	threadID, err := parseUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid thread ID")
	}
	if _, err := h.catalog.GetThread(threadID); err != nil {
		if errors.Is(err, ErrThreadNotFound) {
			return notFound(c, "Thread not found")
		}
		return serverError(c, "load thread", err)
	}

	var req CreateDayRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.DayNumber < 1 || req.Title == "" || req.Content == "" {
		return badRequest(c, "day_number, title and content are required")
	}

	day := Devotional{
		ThreadID:            threadID,
		DayNumber:           req.DayNumber,
		Title:               req.Title,
		Content:             req.Content,
		ScriptureReference:  req.ScriptureReference,
		ScriptureText:       req.ScriptureText,
		ReflectionQuestions: req.ReflectionQuestions,
		Prayer:              req.Prayer,
	}
	if err := h.catalog.CreateDay(&day); err != nil {
		return serverError(c, "create day", err)
	}
	return c.Status(fiber.StatusCreated).JSON(day)
}

func (h *AdminHandler) UpdateDay(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid day ID")
	}
	var req UpdateDayRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	updates := map[string]interface{}{}
	if req.DayNumber != nil {
		if *req.DayNumber < 1 {
			return badRequest(c, "day_number must be positive")
		}
		updates["day_number"] = *req.DayNumber
	}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Content != nil {
		updates["content"] = *req.Content
	}
	if req.ScriptureReference != nil {
		updates["scripture_reference"] = *req.ScriptureReference
	}
	if req.ScriptureText != nil {
		updates["scripture_text"] = *req.ScriptureText
	}
	if req.ReflectionQuestions != nil {
		updates["reflection_questions"] = *req.ReflectionQuestions
	}
	if req.Prayer != nil {
		updates["prayer"] = *req.Prayer
	}

	day, err := h.catalog.UpdateDay(id, updates)
	if errors.Is(err, ErrDayNotFound) {
		return notFound(c, "Day not found")
	}
	if err != nil {
		return serverError(c, "update day", err)
	}
	return c.JSON(day)
}

func (h *AdminHandler) DeleteDay(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid day ID")
	}
	err = h.catalog.DeleteDay(id)
	if errors.Is(err, ErrDayNotFound) {
		return notFound(c, "Day not found")
	}
	if err != nil {
		return serverError(c, "delete day", err)
	}
	return c.JSON(dto.MessageResponse{Message: "Day deleted"})
}

// EnqueueDayAudio schedules audio generation for one day.
func (h *AdminHandler) EnqueueDayAudio(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid day ID")
	}
	if _, err := h.catalog.GetDayByID(id); err != nil {
		if errors.Is(err, ErrDayNotFound) {
			return notFound(c, "Day not found")
		}
		return serverError(c, "load day", err)
	}
	if !h.enqueue(id) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Error: true, Message: "Audio queue is full, try again shortly",
		})
	}
	return c.Status(fiber.StatusAccepted).JSON(dto.MessageResponse{Message: "Audio generation queued"})
}

// EnqueueThreadAudio schedules audio generation for every day of a thread
// that does not have audio yet.
func (h *AdminHandler) EnqueueThreadAudio(c *fiber.Ctx) error {
	threadID, err := parseUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid thread ID")
	}
	if _, err := h.catalog.GetThread(threadID); err != nil {
		if errors.Is(err, ErrThreadNotFound) {
			return notFound(c, "Thread not found")
		}
		return serverError(c, "load thread", err)
	}
	days, err := h.catalog.ListDays(threadID)
	if err != nil {
		return serverError(c, "list days", err)
	}

	queued := 0
	for _, d := range days {
		if d.AudioFilename != "" {
			continue
		}
		if h.enqueue(d.ID) {
			queued++
		}
	}
	return c.Status(fiber.StatusAccepted).JSON(dto.MessageResponse{
		Message: fmt.Sprintf("Queued audio generation for %d days", queued),
	})
}

// ImportThread creates a thread with all its days from one JSON payload.
func (h *AdminHandler) ImportThread(c *fiber.Ctx) error {
	var payload ImportThreadPayload
	if err := c.BodyParser(&payload); err != nil {
		return badRequest(c, "Invalid request body")
	}
	result, err := h.importer.Import(&payload)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *AdminHandler) ListSubscribers(c *fiber.Ctx) error {
	subs, err := h.subscribers.ListActive()
	if err != nil {
		return serverError(c, "list subscribers", err)
	}
	return c.JSON(subs)
}

// SendDigest mails opted-in subscribers about threads published within the
// last N days (default 7).
func (h *AdminHandler) SendDigest(c *fiber.Ctx) error {
	days := c.QueryInt("days", 7)
	if days < 1 {
		return badRequest(c, "days must be positive")
	}
	since := time.Now().AddDate(0, 0, -days)
	sent, err := h.subscribers.SendNewThreadDigest(c.UserContext(), since)
	if err != nil {
		return serverError(c, "send digest", err)
	}
	return c.JSON(dto.MessageResponse{Message: fmt.Sprintf("Digest sent to %d subscribers", sent)})
}
