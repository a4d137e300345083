package server

import (
	"log/slog"

	"nhatro/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetPendingPosts lists posts awaiting review, with owner identity.
func (s *Server) GetPendingPosts(c *fiber.Ctx) error {
	limit := queryInt(c, "limit", 0)
	offset := queryInt(c, "offset", 0)

	rows, err := s.moderationService.PendingPosts(c.Context(), currentActor(c), limit, offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return success(c, fiber.StatusOK, "Pending posts retrieved", fiber.Map{
		"posts": rows,
		"count": len(rows),
	})
}

// GetReportedPosts lists posts flagged by users.
func (s *Server) GetReportedPosts(c *fiber.Ctx) error {
	limit := queryInt(c, "limit", 0)
	offset := queryInt(c, "offset", 0)

	rows, err := s.moderationService.ReportedPosts(c.Context(), currentActor(c), limit, offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return success(c, fiber.StatusOK, "Reported posts retrieved", fiber.Map{
		"posts": rows,
		"count": len(rows),
	})
}

// GetPendingComments lists comments awaiting review.
func (s *Server) GetPendingComments(c *fiber.Ctx) error {
	limit := queryInt(c, "limit", 0)
	offset := queryInt(c, "offset", 0)

	rows, err := s.moderationService.PendingComments(c.Context(), currentActor(c), limit, offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return success(c, fiber.StatusOK, "Pending comments retrieved", fiber.Map{
		"comments": rows,
		"count":    len(rows),
	})
}

// GetReportedComments lists comments flagged by users.
func (s *Server) GetReportedComments(c *fiber.Ctx) error {
	limit := queryInt(c, "limit", 0)
	offset := queryInt(c, "offset", 0)

	rows, err := s.moderationService.ReportedComments(c.Context(), currentActor(c), limit, offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return success(c, fiber.StatusOK, "Reported comments retrieved", fiber.Map{
		"comments": rows,
		"count":    len(rows),
	})
}

// ApprovePost publishes a listing and clears any report flag.
func (s *Server) ApprovePost(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	post, err := s.moderationService.ApprovePost(c.Context(), currentActor(c), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	slog.InfoContext(c.UserContext(), "post approved", "post_id", id)

	return success(c, fiber.StatusOK, "Post approved", fiber.Map{
		"post": post,
	})
}

// RejectPost marks a listing rejected. The report flag is left as-is.
func (s *Server) RejectPost(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	post, err := s.moderationService.RejectPost(c.Context(), currentActor(c), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	slog.InfoContext(c.UserContext(), "post rejected", "post_id", id)

	return success(c, fiber.StatusOK, "Post rejected", fiber.Map{
		"post": post,
	})
}

// ApproveComment publishes a comment and clears any report flag.
func (s *Server) ApproveComment(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	comment, err := s.moderationService.ApproveComment(c.Context(), currentActor(c), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return success(c, fiber.StatusOK, "Comment approved", fiber.Map{
		"comment": comment,
	})
}

// RejectComment marks a comment rejected.
func (s *Server) RejectComment(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	comment, err := s.moderationService.RejectComment(c.Context(), currentActor(c), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return success(c, fiber.StatusOK, "Comment rejected", fiber.Map{
		"comment": comment,
	})
}
