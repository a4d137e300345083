package service

import (
	"context"
	"errors"

	"nhatro/internal/models"
	"nhatro/internal/repository"

	"gorm.io/gorm"
)

// AmenityService manages the amenity record of a listing: created once,
// updated as a whole.
type AmenityService struct {
	amenityRepo repository.AmenityRepository
	postRepo    repository.PostRepository
}

// AmenityFlags is the full flag set of a listing's amenity record.
type AmenityFlags struct {
	Wifi            bool `json:"wifi"`
	AirConditioner  bool `json:"air_conditioner"`
	Fridge          bool `json:"fridge"`
	WashingMachine  bool `json:"washing_machine"`
	ParkingLot      bool `json:"parking_lot"`
	Security        bool `json:"security"`
	Kitchen         bool `json:"kitchen"`
	PrivateBathroom bool `json:"private_bathroom"`
	Furniture       bool `json:"furniture"`
	Balcony         bool `json:"balcony"`
	Elevator        bool `json:"elevator"`
	PetAllowed      bool `json:"pet_allowed"`
}

func NewAmenityService(amenityRepo repository.AmenityRepository, postRepo repository.PostRepository) *AmenityService {
	return &AmenityService{amenityRepo: amenityRepo, postRepo: postRepo}
}

func (s *AmenityService) ownedPost(ctx context.Context, actor models.Actor, postID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post")
		}
		return nil, models.NewStoreError(err)
	}
	if post.UserID != actor.ID && !actor.IsAdmin {
		return nil, models.NewForbiddenError("You can only manage amenities of your own posts")
	}
	return post, nil
}

func applyFlags(a *models.Amenity, f AmenityFlags) {
	a.Wifi = f.Wifi
	a.AirConditioner = f.AirConditioner
	a.Fridge = f.Fridge
	a.WashingMachine = f.WashingMachine
	a.ParkingLot = f.ParkingLot
	a.Security = f.Security
	a.Kitchen = f.Kitchen
	a.PrivateBathroom = f.PrivateBathroom
	a.Furniture = f.Furniture
	a.Balcony = f.Balcony
	a.Elevator = f.Elevator
	a.PetAllowed = f.PetAllowed
}

// AddAmenity attaches the amenity record to a post. A post carries at
// most one record; a second add is a Conflict, not an update.
func (s *AmenityService) AddAmenity(ctx context.Context, actor models.Actor, postID uint, flags AmenityFlags) (*models.Amenity, error) {
	if _, err := s.ownedPost(ctx, actor, postID); err != nil {
		return nil, err
	}

	existing, err := s.amenityRepo.GetByPost(ctx, postID)
	if err != nil {
		return nil, models.NewStoreError(err)
	}
	if existing != nil {
		return nil, models.NewConflictError("Post already has an amenity record")
	}

	amenity := &models.Amenity{PostID: postID}
	applyFlags(amenity, flags)
	if err := s.amenityRepo.Create(ctx, amenity); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.NewConflictError("Post already has an amenity record")
		}
		return nil, models.NewStoreError(err)
	}
	return amenity, nil
}

// GetAmenity returns the post's amenity record.
func (s *AmenityService) GetAmenity(ctx context.Context, postID uint) (*models.Amenity, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post")
		}
		return nil, models.NewStoreError(err)
	}
	amenity, err := s.amenityRepo.GetByPost(ctx, postID)
	if err != nil {
		return nil, models.NewStoreError(err)
	}
	if amenity == nil {
		return nil, models.NewNotFoundError("Amenity record")
	}
	return amenity, nil
}

// UpdateAmenity replaces the whole flag set. Flags omitted by the caller
// come through as false; this is a full overwrite, not a merge.
func (s *AmenityService) UpdateAmenity(ctx context.Context, actor models.Actor, postID uint, flags AmenityFlags) (*models.Amenity, error) {
	if _, err := s.ownedPost(ctx, actor, postID); err != nil {
		return nil, err
	}

	amenity, err := s.amenityRepo.GetByPost(ctx, postID)
	if err != nil {
		return nil, models.NewStoreError(err)
	}
	if amenity == nil {
		return nil, models.NewNotFoundError("Amenity record")
	}

	applyFlags(amenity, flags)
	if err := s.amenityRepo.Replace(ctx, amenity); err != nil {
		return nil, models.NewStoreError(err)
	}
	return amenity, nil
}

// DeleteAmenity drops the post's amenity record.
func (s *AmenityService) DeleteAmenity(ctx context.Context, actor models.Actor, postID uint) error {
	if _, err := s.ownedPost(ctx, actor, postID); err != nil {
		return err
	}
	deleted, err := s.amenityRepo.DeleteByPost(ctx, postID)
	if err != nil {
		return models.NewStoreError(err)
	}
	if !deleted {
		return models.NewNotFoundError("Amenity record")
	}
	return nil
}
