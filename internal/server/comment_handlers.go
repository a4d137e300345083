package server

import (
	"log/slog"

	"nhatro/internal/models"
	"nhatro/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createCommentRequest struct {
	Rating  float64 `json:"rating"`
	Comment string  `json:"comment"`
}

type updateCommentRequest struct {
	Rating  *float64 `json:"rating"`
	Comment *string  `json:"comment"`
}

// CreateComment leaves a rating review on a post. One per user per post.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	var req createCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewInvalidArgumentError("Invalid request body"))
	}

	actor := currentActor(c)
	comment, err := s.commentService.AddComment(c.Context(), service.AddCommentInput{
		UserID:  actor.ID,
		PostID:  postID,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	slog.InfoContext(c.UserContext(), "comment submitted", "comment_id", comment.ID, "post_id", postID)

	return success(c, fiber.StatusCreated, "Comment submitted for review", fiber.Map{
		"comment": comment,
	})
}

// GetComments lists the publicly visible comments on a post.
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	comments, err := s.commentService.ListComments(c.Context(), postID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return success(c, fiber.StatusOK, "Comments retrieved", fiber.Map{
		"comments": comments,
		"count":    len(comments),
	})
}

// UpdateComment edits a review's rating or text and recomputes the
// post's aggregate.
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	commentID, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	var req updateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewInvalidArgumentError("Invalid request body"))
	}

	comment, err := s.commentService.UpdateComment(c.Context(), service.UpdateCommentInput{
		Actor:     currentActor(c),
		CommentID: commentID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return success(c, fiber.StatusOK, "Comment updated", fiber.Map{
		"comment": comment,
	})
}

// DeleteComment removes a review and recomputes the post's aggregate.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	commentID, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	if err := s.commentService.DeleteComment(c.Context(), currentActor(c), commentID); err != nil {
		return models.RespondWithError(c, err)
	}

	return success(c, fiber.StatusOK, "Comment deleted", nil)
}

// ReportComment flags a comment for admin review.
func (s *Server) ReportComment(c *fiber.Ctx) error {
	commentID, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	comment, err := s.moderationService.ReportComment(c.Context(), currentActor(c), commentID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return success(c, fiber.StatusOK, "Comment reported", fiber.Map{
		"comment": comment,
	})
}
