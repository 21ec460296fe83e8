package music

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/hastingtx/backend/internal/dto"
)

// Handler serves the public music API.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) ListSongs(c *fiber.Ctx) error {
	songs, err := h.svc.ListPublished(c.Query("q"), c.Query("genre"))
	if err != nil {
		return serverError(c, "list songs", err)
	}
	return c.JSON(songs)
}

func (h *Handler) GetSong(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid song ID")
	}
	song, err := h.svc.GetSong(id)
	if errors.Is(err, ErrSongNotFound) {
		return notFound(c, "Song not found")
	}
	if err != nil {
		return serverError(c, "load song", err)
	}
	if !song.IsPublished {
		return notFound(c, "Song not found")
	}
	return c.JSON(song)
}

func (h *Handler) RecordPlay(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid song ID")
	}
	if err := h.svc.RecordPlay(id); err != nil {
		if errors.Is(err, ErrSongNotFound) {
			return notFound(c, "Song not found")
		}
		return serverError(c, "record play", err)
	}
	return c.JSON(dto.MessageResponse{Message: "ok"})
}

func (h *Handler) RecordDownload(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid song ID")
	}
	if err := h.svc.RecordDownload(id); err != nil {
		if errors.Is(err, ErrSongNotFound) {
			return notFound(c, "Song not found")
		}
		return serverError(c, "record download", err)
	}
	return c.JSON(dto.MessageResponse{Message: "ok"})
}

func (h *Handler) Rate(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid song ID")
	}
	var req RateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	err = h.svc.Rate(id, c.IP(), req.Rating)
	switch {
	case errors.Is(err, ErrInvalidRating):
		return badRequest(c, "Rating must be between 1 and 5")
	case errors.Is(err, ErrSongNotFound):
		return notFound(c, "Song not found")
	case err != nil:
		return serverError(c, "rate song", err)
	}
	return c.JSON(dto.MessageResponse{Message: "Rating recorded"})
}

func (h *Handler) ListComments(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid song ID")
	}
	comments, err := h.svc.ApprovedComments(id)
	if err != nil {
		return serverError(c, "list comments", err)
	}
	return c.JSON(comments)
}

func (h *Handler) AddComment(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid song ID")
	}
	var req CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Author == "" || req.Content == "" {
		return badRequest(c, "author and content are required")
	}

	comment, err := h.svc.AddComment(id, req.Author, req.Content)
	if errors.Is(err, ErrSongNotFound) {
		return notFound(c, "Song not found")
	}
	if err != nil {
		return serverError(c, "add comment", err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

func (h *Handler) ListPlaylists(c *fiber.Ctx) error {
	playlists, err := h.svc.ListPlaylists()
	if err != nil {
		return serverError(c, "list playlists", err)
	}
	return c.JSON(playlists)
}

func (h *Handler) GetPlaylist(c *fiber.Ctx) error {
	resp, err := h.svc.GetPlaylist(c.Params("slug"))
	if errors.Is(err, ErrPlaylistNotFound) {
		return notFound(c, "Playlist not found")
	}
	if err != nil {
		return serverError(c, "load playlist", err)
	}
	return c.JSON(resp)
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: msg})
}

func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: msg})
}

func serverError(c *fiber.Ctx, action string, err error) error {
	slog.Error("music handler error", "area", "music", "action", action, "error", err.Error())
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Internal server error",
	})
}
