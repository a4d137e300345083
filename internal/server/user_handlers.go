package server

import (
	"time"

	"nhatro/internal/models"
	"nhatro/internal/service"

	"github.com/gofiber/fiber/v2"
)

type updateProfileRequest struct {
	FullName      *string    `json:"full_name"`
	ContactNumber *string    `json:"contact_number"`
	Address       *string    `json:"address"`
	Gender        *string    `json:"gender"`
	Birthday      *time.Time `json:"birthday"`
	AvatarURL     *string    `json:"avatar_url"`
}

// GetMyProfile returns the authenticated user's own profile.
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.userService.GetUserByID(c.Context(), currentActor(c).ID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return success(c, fiber.StatusOK, "Profile retrieved", fiber.Map{
		"user": user,
	})
}

// GetUserProfile returns a user's public profile.
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	user, err := s.userService.GetUserByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return success(c, fiber.StatusOK, "Profile retrieved", fiber.Map{
		"user": user,
	})
}

// GetAllUsers lists accounts for the admin console.
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)

	users, err := s.userService.ListUsers(c.Context(), limit, offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return success(c, fiber.StatusOK, "Users retrieved", fiber.Map{
		"users": users,
		"count": len(users),
	})
}

// UpdateMyProfile updates the fields present in the request body.
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewInvalidArgumentError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:        currentActor(c).ID,
		FullName:      req.FullName,
		ContactNumber: req.ContactNumber,
		Address:       req.Address,
		Gender:        req.Gender,
		Birthday:      req.Birthday,
		AvatarURL:     req.AvatarURL,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return success(c, fiber.StatusOK, "Profile updated", fiber.Map{
		"user": user,
	})
}

// DeleteMyAccount removes the authenticated user's account and, via
// cascade, everything they own.
func (s *Server) DeleteMyAccount(c *fiber.Ctx) error {
	actor := currentActor(c)
	if err := s.userService.DeleteUser(c.Context(), actor, actor.ID); err != nil {
		return models.RespondWithError(c, err)
	}

	return success(c, fiber.StatusOK, "Account deleted", nil)
}

// GetUserStats returns activity counters for a profile page.
func (s *Server) GetUserStats(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	stats, err := s.userService.GetStats(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return success(c, fiber.StatusOK, "Stats retrieved", fiber.Map{
		"stats": stats,
	})
}

// MakeAdmin elevates another account. Admin only.
func (s *Server) MakeAdmin(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	user, err := s.userService.MakeAdmin(c.Context(), currentActor(c), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return success(c, fiber.StatusOK, "User promoted to admin", fiber.Map{
		"user": user,
	})
}
