package gallery

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/hastingtx/backend/internal/dto"
)

// AdminHandler serves section and image management.
type AdminHandler struct {
	svc *Service
}

func NewAdminHandler(svc *Service) *AdminHandler {
	return &AdminHandler{svc: svc}
}

func (h *AdminHandler) CreateSection(c *fiber.Ctx) error {
	var req CreateSectionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Name == "" {
		return badRequest(c, "name is required")
	}
	section, err := h.svc.CreateSection(req.Name, req.Description, req.SortOrder)
	if err != nil {
		return serverError(c, "create section", err)
	}
	return c.Status(fiber.StatusCreated).JSON(section)
}

func (h *AdminHandler) DeleteSection(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid section ID")
	}
	err = h.svc.DeleteSection(id)
	if errors.Is(err, ErrSectionNotFound) {
		return notFound(c, "Section not found")
	}
	if err != nil {
		return serverError(c, "delete section", err)
	}
	return c.JSON(dto.MessageResponse{Message: "Section deleted"})
}

func (h *AdminHandler) CreateImage(c *fiber.Ctx) error {
	sectionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid section ID")
	}
	var req CreateImageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Filename == "" || req.TakenOn == "" {
		return badRequest(c, "filename and taken_on are required")
	}

	img, err := h.svc.CreateImage(sectionID, &req)
	if errors.Is(err, ErrInvalidDate) {
		return badRequest(c, "Invalid date, expected YYYY-MM-DD")
	}
	if err != nil {
		return serverError(c, "create image", err)
	}
	return c.Status(fiber.StatusCreated).JSON(img)
}

func (h *AdminHandler) UpdateImage(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid image ID")
	}
	var req UpdateImageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	img, err := h.svc.UpdateImage(id, &req)
	switch {
	case errors.Is(err, ErrInvalidDate):
		return badRequest(c, "Invalid date, expected YYYY-MM-DD")
	case errors.Is(err, ErrImageNotFound):
		return notFound(c, "Image not found")
	case err != nil:
		return serverError(c, "update image", err)
	}
	return c.JSON(img)
}

func (h *AdminHandler) DeleteImage(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid image ID")
	}
	err = h.svc.DeleteImage(id)
	if errors.Is(err, ErrImageNotFound) {
		return notFound(c, "Image not found")
	}
	if err != nil {
		return serverError(c, "delete image", err)
	}
	return c.JSON(dto.MessageResponse{Message: "Image deleted"})
}
