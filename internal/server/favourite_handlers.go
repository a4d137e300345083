package server

import (
	"nhatro/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AddFavourite saves a post to the user's favourites. Repeats are a
// silent success.
func (s *Server) AddFavourite(c *fiber.Ctx) error {
	postID, ok := parseID(c, "postId")
	if !ok {
		return nil
	}

	if err := s.favouriteService.AddFavourite(c.Context(), currentActor(c).ID, postID); err != nil {
		return models.RespondWithError(c, err)
	}

	return success(c, fiber.StatusOK, "Post added to favourites", nil)
}

// RemoveFavourite removes a saved post.
func (s *Server) RemoveFavourite(c *fiber.Ctx) error {
	postID, ok := parseID(c, "postId")
	if !ok {
		return nil
	}

	if err := s.favouriteService.RemoveFavourite(c.Context(), currentActor(c).ID, postID); err != nil {
		return models.RespondWithError(c, err)
	}

	return success(c, fiber.StatusOK, "Post removed from favourites", nil)
}

// GetFavourites lists the user's saved posts, most recently added first.
func (s *Server) GetFavourites(c *fiber.Ctx) error {
	posts, err := s.favouriteService.ListFavourites(c.Context(), currentActor(c).ID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return success(c, fiber.StatusOK, "Favourites retrieved", fiber.Map{
		"posts": posts,
		"count": len(posts),
	})
}
