package server

import (
	"nhatro/internal/models"
	"nhatro/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AddAmenity creates the amenity record for a post. A post carries at
// most one; repeats get a conflict.
func (s *Server) AddAmenity(c *fiber.Ctx) error {
	postID, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	var flags service.AmenityFlags
	if err := c.BodyParser(&flags); err != nil {
		return models.RespondWithError(c, models.NewInvalidArgumentError("Invalid request body"))
	}

	amenity, err := s.amenityService.AddAmenity(c.Context(), currentActor(c), postID, flags)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return success(c, fiber.StatusCreated, "Amenities added", fiber.Map{
		"amenity": amenity,
	})
}

// GetAmenity returns a post's amenity record.
func (s *Server) GetAmenity(c *fiber.Ctx) error {
	postID, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	amenity, err := s.amenityService.GetAmenity(c.Context(), postID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return success(c, fiber.StatusOK, "Amenities retrieved", fiber.Map{
		"amenity": amenity,
	})
}

// UpdateAmenity replaces the full flag set; omitted flags reset to false.
func (s *Server) UpdateAmenity(c *fiber.Ctx) error {
	postID, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	var flags service.AmenityFlags
	if err := c.BodyParser(&flags); err != nil {
		return models.RespondWithError(c, models.NewInvalidArgumentError("Invalid request body"))
	}

	amenity, err := s.amenityService.UpdateAmenity(c.Context(), currentActor(c), postID, flags)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return success(c, fiber.StatusOK, "Amenities updated", fiber.Map{
		"amenity": amenity,
	})
}

// DeleteAmenity removes a post's amenity record.
func (s *Server) DeleteAmenity(c *fiber.Ctx) error {
	postID, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	if err := s.amenityService.DeleteAmenity(c.Context(), currentActor(c), postID); err != nil {
		return models.RespondWithError(c, err)
	}

	return success(c, fiber.StatusOK, "Amenities deleted", nil)
}
