package music

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/hastingtx/backend/internal/dto"
)

// AdminHandler serves song, comment-moderation and playlist management.
type AdminHandler struct {
	svc *Service
}

func NewAdminHandler(svc *Service) *AdminHandler {
	return &AdminHandler{svc: svc}
}

func (h *AdminHandler) CreateSong(c *fiber.Ctx) error {
	var req CreateSongRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Title == "" || req.Artist == "" || req.Filename == "" {
		return badRequest(c, "title, artist and filename are required")
	}

	song := Song{
		Title:       req.Title,
		Artist:      req.Artist,
		Album:       req.Album,
		Genre:       req.Genre,
		Filename:    req.Filename,
		Duration:    req.Duration,
		IsPublished: req.IsPublished,
	}
	if err := h.svc.CreateSong(&song); err != nil {
		return serverError(c, "create song", err)
	}
	return c.Status(fiber.StatusCreated).JSON(song)
}

func (h *AdminHandler) UpdateSong(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid song ID")
	}
	var req UpdateSongRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Artist != nil {
		updates["artist"] = *req.Artist
	}
	if req.Album != nil {
		updates["album"] = *req.Album
	}
	if req.Genre != nil {
		updates["genre"] = *req.Genre
	}
	if req.Filename != nil {
		updates["filename"] = *req.Filename
	}
	if req.Duration != nil {
		updates["duration"] = *req.Duration
	}
	if req.IsPublished != nil {
		updates["is_published"] = *req.IsPublished
	}

	song, err := h.svc.UpdateSong(id, updates)
	if errors.Is(err, ErrSongNotFound) {
		return notFound(c, "Song not found")
	}
	if err != nil {
		return serverError(c, "update song", err)
	}
	return c.JSON(song)
}

func (h *AdminHandler) DeleteSong(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid song ID")
	}
	err = h.svc.DeleteSong(id)
	if errors.Is(err, ErrSongNotFound) {
		return notFound(c, "Song not found")
	}
	if err != nil {
		return serverError(c, "delete song", err)
	}
	return c.JSON(dto.MessageResponse{Message: "Song deleted"})
}

func (h *AdminHandler) PendingComments(c *fiber.Ctx) error {
	comments, err := h.svc.PendingComments()
	if err != nil {
		return serverError(c, "list pending comments", err)
	}
	return c.JSON(comments)
}

func (h *AdminHandler) ApproveComment(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid comment ID")
	}
	err = h.svc.ApproveComment(id)
	if errors.Is(err, ErrCommentNotFound) {
		return notFound(c, "Comment not found")
	}
	if err != nil {
		return serverError(c, "approve comment", err)
	}
	return c.JSON(dto.MessageResponse{Message: "Comment approved"})
}

func (h *AdminHandler) DeleteComment(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid comment ID")
	}
	err = h.svc.DeleteComment(id)
	if errors.Is(err, ErrCommentNotFound) {
		return notFound(c, "Comment not found")
	}
	if err != nil {
		return serverError(c, "delete comment", err)
	}
	return c.JSON(dto.MessageResponse{Message: "Comment deleted"})
}

func (h *AdminHandler) CreatePlaylist(c *fiber.Ctx) error {
	var req CreatePlaylistRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Name == "" {
		return badRequest(c, "name is required")
	}
	playlist, err := h.svc.CreatePlaylist(req.Name, req.Description)
	if err != nil {
		return serverError(c, "create playlist", err)
	}
	return c.Status(fiber.StatusCreated).JSON(playlist)
}

func (h *AdminHandler) AddToPlaylist(c *fiber.Ctx) error {
	playlistID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid playlist ID")
	}
	songID, err := uuid.Parse(c.Params("songId"))
	if err != nil {
		return badRequest(c, "Invalid song ID")
	}
	if err := h.svc.AddToPlaylist(playlistID, songID); err != nil {
		return serverError(c, "add to playlist", err)
	}
	return c.JSON(dto.MessageResponse{Message: "Song added to playlist"})
}

func (h *AdminHandler) RemoveFromPlaylist(c *fiber.Ctx) error {
	playlistID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid playlist ID")
	}
	songID, err := uuid.Parse(c.Params("songId"))
	if err != nil {
		return badRequest(c, "Invalid song ID")
	}
	if err := h.svc.RemoveFromPlaylist(playlistID, songID); err != nil {
		return serverError(c, "remove from playlist", err)
	}
	return c.JSON(dto.MessageResponse{Message: "Song removed from playlist"})
}

func (h *AdminHandler) ReorderPlaylist(c *fiber.Ctx) error {
	playlistID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid playlist ID")
	}
	var req ReorderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.svc.Reorder(playlistID, req.SongIDs); err != nil {
		return serverError(c, "reorder playlist", err)
	}
	return c.JSON(dto.MessageResponse{Message: "Playlist reordered"})
}

func (h *AdminHandler) DeletePlaylist(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid playlist ID")
	}
	err = h.svc.DeletePlaylist(id)
	if errors.Is(err, ErrPlaylistNotFound) {
		return notFound(c, "Playlist not found")
	}
	if err != nil {
		return serverError(c, "delete playlist", err)
	}
	return c.JSON(dto.MessageResponse{Message: "Playlist deleted"})
}
