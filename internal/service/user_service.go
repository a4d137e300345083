package service

import (
	"context"
	"errors"
	"time"

	"nhatro/internal/models"
	"nhatro/internal/repository"

	"gorm.io/gorm"
)

type UserService struct {
	userRepo repository.UserRepository
}

type UpdateProfileInput struct {
	UserID        uint
	FullName      *string
	ContactNumber *string
	Address       *string
	Gender        *string
	Birthday      *time.Time
	AvatarURL     *string
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User")
		}
		return nil, models.NewStoreError(err)
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if offset < 0 {
		offset = 0
	}
	users, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, models.NewStoreError(err)
	}
	return users, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.GetUserByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	const maxNameLen = 100

	if in.FullName != nil {
		if len(*in.FullName) > maxNameLen {
			return nil, models.NewInvalidArgumentError("Full name too long (max 100 characters)")
		}
		user.FullName = *in.FullName
	}
	if in.ContactNumber != nil {
		user.ContactNumber = *in.ContactNumber
	}
	if in.Address != nil {
		user.Address = *in.Address
	}
	if in.Gender != nil {
		user.Gender = *in.Gender
	}
	if in.Birthday != nil {
		user.Birthday = in.Birthday
	}
	if in.AvatarURL != nil {
		user.AvatarURL = *in.AvatarURL
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, models.NewStoreError(err)
	}
	return user, nil
}

// DeleteUser removes the account. Posts, comments, favourites and view
// history cascade with it.
func (s *UserService) DeleteUser(ctx context.Context, actor models.Actor, targetID uint) error {
	if actor.ID != targetID && !actor.IsAdmin {
		return models.NewForbiddenError("You can only delete your own account")
	}
	if _, err := s.GetUserByID(ctx, targetID); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, targetID); err != nil {
		return models.NewStoreError(err)
	}
	return nil
}

// GetStats returns the activity counters shown on a profile page.
func (s *UserService) GetStats(ctx context.Context, userID uint) (*repository.UserStats, error) {
	if _, err := s.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	stats, err := s.userRepo.Stats(ctx, userID)
	if err != nil {
		return nil, models.NewStoreError(err)
	}
	return stats, nil
}

// MakeAdmin grants moderation rights to a user. Only admins may mint
// other admins.
func (s *UserService) MakeAdmin(ctx context.Context, actor models.Actor, targetID uint) (*models.User, error) {
	if !actor.IsAdmin {
		return nil, models.NewForbiddenError("Admin privileges required")
	}
	user, err := s.GetUserByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if user.IsAdmin {
		return user, nil
	}
	user.IsAdmin = true
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, models.NewStoreError(err)
	}
	return user, nil
}
