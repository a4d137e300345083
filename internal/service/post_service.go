// Package service contains the domain logic between HTTP handlers and
// the data access layer.
package service

import (
	"context"
	"errors"

	"nhatro/internal/models"
	"nhatro/internal/repository"

	"gorm.io/gorm"
)

// DefaultSearchLimit is applied when a search or filter request carries
// no usable limit. The simple listing endpoint has no such default: it
// rejects a missing or non-positive limit instead.
const DefaultSearchLimit = 100

type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
}

type CreatePostInput struct {
	UserID          uint
	Title           string
	Description     string
	Price           int
	RoomNum         int
	Area            int
	Type            string
	Deposit         string
	ElectricityFee  int
	WaterFee        int
	InternetFee     int
	VehicleFee      int
	FloorNum        string
	Province        string
	District        string
	Rural           string
	Street          string
	DetailedAddress string
}

type UpdatePostInput struct {
	Actor  models.Actor
	PostID uint

	Title           *string
	Description     *string
	Price           *int
	RoomNum         *int
	Area            *int
	Type            *string
	Deposit         *string
	ElectricityFee  *int
	WaterFee        *int
	InternetFee     *int
	VehicleFee      *int
	FloorNum        *string
	Province        *string
	District        *string
	Rural           *string
	Street          *string
	DetailedAddress *string
}

func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository) *PostService {
	return &PostService{postRepo: postRepo, userRepo: userRepo}
}

// CreatePost submits a new listing. Every submission enters the
// moderation queue as pending regardless of who submits it.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.Title == "" {
		return nil, models.NewInvalidArgumentError("Title is required")
	}
	if in.Price <= 0 {
		return nil, models.NewInvalidArgumentError("Price must be positive")
	}
	if in.Province == "" || in.District == "" {
		return nil, models.NewInvalidArgumentError("Province and district are required")
	}

	if _, err := s.userRepo.GetByID(ctx, in.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User")
		}
		return nil, models.NewStoreError(err)
	}

	post := &models.Post{
		UserID:          in.UserID,
		Title:           in.Title,
		Description:     in.Description,
		Price:           in.Price,
		RoomNum:         in.RoomNum,
		Area:            in.Area,
		Type:            in.Type,
		Deposit:         in.Deposit,
		ElectricityFee:  in.ElectricityFee,
		WaterFee:        in.WaterFee,
		InternetFee:     in.InternetFee,
		VehicleFee:      in.VehicleFee,
		FloorNum:        in.FloorNum,
		Province:        in.Province,
		District:        in.District,
		Rural:           in.Rural,
		Street:          in.Street,
		DetailedAddress: in.DetailedAddress,
		Status:          models.StatusPending,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, models.NewStoreError(err)
	}
	return post, nil
}

// GetPost fetches one listing. Non-visible posts are only served to
// their owner or an admin; everyone else gets NotFound rather than a
// hint that a hidden post exists.
func (s *PostService) GetPost(ctx context.Context, id uint, viewer *models.Actor) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post")
		}
		return nil, models.NewStoreError(err)
	}

	if !post.Visible() {
		if viewer == nil || (viewer.ID != post.UserID && !viewer.IsAdmin) {
			return nil, models.NewNotFoundError("Post")
		}
	}
	return post, nil
}

// RegisterView bumps the listing's view counter. Failures only get
// logged by the caller; a broken counter must not break the page.
func (s *PostService) RegisterView(ctx context.Context, id uint) error {
	return s.postRepo.IncrementViews(ctx, id)
}

// ListPosts serves the public front page. A non-positive limit is the
// caller's mistake here, unlike search which quietly substitutes a
// default.
func (s *PostService) ListPosts(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	if limit <= 0 {
		return nil, models.NewInvalidArgumentError("Limit must be a positive integer")
	}
	if offset < 0 {
		offset = 0
	}
	posts, err := s.postRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, models.NewStoreError(err)
	}
	return posts, nil
}

// SearchPosts runs the filtered listing query.
func (s *PostService) SearchPosts(ctx context.Context, filter repository.ListingFilter, limit, offset int) ([]*models.Post, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if offset < 0 {
		offset = 0
	}
	posts, err := s.postRepo.Search(ctx, filter, limit, offset)
	if err != nil {
		return nil, models.NewStoreError(err)
	}
	return posts, nil
}

// GetPostsByUser returns the owner's listings in every moderation state.
func (s *PostService) GetPostsByUser(ctx context.Context, userID uint) ([]*models.Post, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User")
		}
		return nil, models.NewStoreError(err)
	}
	posts, err := s.postRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, models.NewStoreError(err)
	}
	return posts, nil
}

// UpdatePost applies owner edits to listing fields. Moderation state is
// out of reach here: approve, reject and report have their own paths.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post")
		}
		return nil, models.NewStoreError(err)
	}
	if post.UserID != in.Actor.ID && !in.Actor.IsAdmin {
		return nil, models.NewForbiddenError("You can only update your own posts")
	}

	if in.Title != nil {
		if *in.Title == "" {
			return nil, models.NewInvalidArgumentError("Title cannot be empty")
		}
		post.Title = *in.Title
	}
	if in.Description != nil {
		post.Description = *in.Description
	}
	if in.Price != nil {
		if *in.Price <= 0 {
			return nil, models.NewInvalidArgumentError("Price must be positive")
		}
		post.Price = *in.Price
	}
	if in.RoomNum != nil {
		post.RoomNum = *in.RoomNum
	}
	if in.Area != nil {
		post.Area = *in.Area
	}
	if in.Type != nil {
		post.Type = *in.Type
	}
	if in.Deposit != nil {
		post.Deposit = *in.Deposit
	}
	if in.ElectricityFee != nil {
		post.ElectricityFee = *in.ElectricityFee
	}
	if in.WaterFee != nil {
		post.WaterFee = *in.WaterFee
	}
	if in.InternetFee != nil {
		post.InternetFee = *in.InternetFee
	}
	if in.VehicleFee != nil {
		post.VehicleFee = *in.VehicleFee
	}
	if in.FloorNum != nil {
		post.FloorNum = *in.FloorNum
	}
	if in.Province != nil {
		post.Province = *in.Province
	}
	if in.District != nil {
		post.District = *in.District
	}
	if in.Rural != nil {
		post.Rural = *in.Rural
	}
	if in.Street != nil {
		post.Street = *in.Street
	}
	if in.DetailedAddress != nil {
		post.DetailedAddress = *in.DetailedAddress
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, models.NewStoreError(err)
	}
	return post, nil
}

// DeletePost removes a listing with everything hanging off it.
func (s *PostService) DeletePost(ctx context.Context, actor models.Actor, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Post")
		}
		return models.NewStoreError(err)
	}
	if post.UserID != actor.ID && !actor.IsAdmin {
		return models.NewForbiddenError("You can only delete your own posts")
	}
	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return models.NewStoreError(err)
	}
	return nil
}
