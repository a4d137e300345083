package server

import (
	"nhatro/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AddHistory records a listing view explicitly. Viewing a post page
// already records one; this endpoint lets clients record views served
// from their own cache.
func (s *Server) AddHistory(c *fiber.Ctx) error {
	postID, ok := parseID(c, "postId")
	if !ok {
		return nil
	}

	if err := s.historyService.RecordView(c.Context(), currentActor(c).ID, postID); err != nil {
		return models.RespondWithError(c, err)
	}

	return success(c, fiber.StatusOK, "View recorded", nil)
}

// GetHistory lists recently viewed posts, newest first.
func (s *Server) GetHistory(c *fiber.Ctx) error {
	limit := queryInt(c, "limit", 0)

	items, err := s.historyService.ListHistory(c.Context(), currentActor(c).ID, limit)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return success(c, fiber.StatusOK, "History retrieved", fiber.Map{
		"history": items,
		"count":   len(items),
	})
}

// ClearHistory wipes the user's view history.
func (s *Server) ClearHistory(c *fiber.Ctx) error {
	if err := s.historyService.ClearHistory(c.Context(), currentActor(c).ID); err != nil {
		return models.RespondWithError(c, err)
	}

	return success(c, fiber.StatusOK, "History cleared", nil)
}
