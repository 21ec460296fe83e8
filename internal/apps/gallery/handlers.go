package gallery

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/hastingtx/backend/internal/dto"
)

// Handler serves the public gallery API.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) ListSections(c *fiber.Ctx) error {
	sections, err := h.svc.ListSections()
	if err != nil {
		return serverError(c, "list sections", err)
	}
	return c.JSON(sections)
}

// GetSection returns a section and the dates it has images for.
func (h *Handler) GetSection(c *fiber.Ctx) error {
	section, err := h.svc.GetSection(c.Params("slug"))
	if errors.Is(err, ErrSectionNotFound) {
		return notFound(c, "Section not found")
	}
	if err != nil {
		return serverError(c, "load section", err)
	}

	dates, err := h.svc.Dates(section.ID)
	if err != nil {
		return serverError(c, "list dates", err)
	}
	return c.JSON(fiber.Map{"section": section, "dates": dates})
}

// GetDay returns one date's images with prev/next date navigation.
func (h *Handler) GetDay(c *fiber.Ctx) error {
	section, err := h.svc.GetSection(c.Params("slug"))
	if errors.Is(err, ErrSectionNotFound) {
		return notFound(c, "Section not found")
	}
	if err != nil {
		return serverError(c, "load section", err)
	}

	page, err := h.svc.Day(section, c.Params("date"))
	if errors.Is(err, ErrInvalidDate) {
		return badRequest(c, "Invalid date, expected YYYY-MM-DD")
	}
	if err != nil {
		return serverError(c, "load day", err)
	}
	return c.JSON(page)
}

func (h *Handler) RecordView(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid image ID")
	}
	if err := h.svc.RecordView(id); err != nil {
		if errors.Is(err, ErrImageNotFound) {
			return notFound(c, "Image not found")
		}
		return serverError(c, "record view", err)
	}
	return c.JSON(dto.MessageResponse{Message: "ok"})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: msg})
}

func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: msg})
}

func serverError(c *fiber.Ctx, action string, err error) error {
	slog.Error("gallery handler error", "area", "gallery", "action", action, "error", err.Error())
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Internal server error",
	})
}
