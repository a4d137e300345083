package service

import (
	"context"
	"errors"

	"nhatro/internal/models"
	"nhatro/internal/repository"

	"gorm.io/gorm"
)

// FavouriteService manages a user's saved listings.
type FavouriteService struct {
	favRepo  repository.FavouriteRepository
	postRepo repository.PostRepository
	userRepo repository.UserRepository
}

func NewFavouriteService(favRepo repository.FavouriteRepository, postRepo repository.PostRepository, userRepo repository.UserRepository) *FavouriteService {
	return &FavouriteService{favRepo: favRepo, postRepo: postRepo, userRepo: userRepo}
}

func (s *FavouriteService) checkPair(ctx context.Context, userID, postID uint) error {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("User")
		}
		return models.NewStoreError(err)
	}
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Post")
		}
		return models.NewStoreError(err)
	}
	return nil
}

// AddFavourite saves a listing for the user. Saving an already saved
// listing succeeds without side effects.
func (s *FavouriteService) AddFavourite(ctx context.Context, userID, postID uint) error {
	if err := s.checkPair(ctx, userID, postID); err != nil {
		return err
	}
	if err := s.favRepo.Add(ctx, userID, postID); err != nil {
		return models.NewStoreError(err)
	}
	return nil
}

// RemoveFavourite unsaves a listing. Removing a pair that was never
// saved is NotFound, unlike the idempotent add.
func (s *FavouriteService) RemoveFavourite(ctx context.Context, userID, postID uint) error {
	removed, err := s.favRepo.Remove(ctx, userID, postID)
	if err != nil {
		return models.NewStoreError(err)
	}
	if !removed {
		return models.NewNotFoundError("Favourite")
	}
	return nil
}

// ListFavourites returns the user's saved listings, newest save first.
func (s *FavouriteService) ListFavourites(ctx context.Context, userID uint) ([]*models.Post, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User")
		}
		return nil, models.NewStoreError(err)
	}

	favs, err := s.favRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, models.NewStoreError(err)
	}

	posts := make([]*models.Post, 0, len(favs))
	for _, f := range favs {
		post, err := s.postRepo.GetByID(ctx, f.PostID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, models.NewStoreError(err)
		}
		posts = append(posts, post)
	}
	return posts, nil
}
