package repository

import (
	"context"
	"errors"

	"nhatro/internal/cache"
	"nhatro/internal/models"

	"gorm.io/gorm"
)

// AmenityRepository manages the 0-1 amenity record per post.
type AmenityRepository interface {
	Create(ctx context.Context, amenity *models.Amenity) error
	GetByPost(ctx context.Context, postID uint) (*models.Amenity, error)
	// Replace overwrites the whole flag set of the post's record.
	Replace(ctx context.Context, amenity *models.Amenity) error
	DeleteByPost(ctx context.Context, postID uint) (bool, error)
}

type amenityRepository struct {
	db *gorm.DB
}

// NewAmenityRepository creates a new AmenityRepository
func NewAmenityRepository(db *gorm.DB) AmenityRepository {
	return &amenityRepository{db: db}
}

func (r *amenityRepository) Create(ctx context.Context, amenity *models.Amenity) error {
	if err := r.db.WithContext(ctx).Create(amenity).Error; err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.AmenityKey(amenity.PostID))
	return nil
}

// GetByPost returns (nil, nil) when the post has no amenity record.
// Absent records are not cached, only hits.
func (r *amenityRepository) GetByPost(ctx context.Context, postID uint) (*models.Amenity, error) {
	var amenity models.Amenity
	err := cache.Aside(ctx, cache.AmenityKey(postID), &amenity, cache.AmenityTTL, func() error {
		return r.db.WithContext(ctx).Where("post_id = ?", postID).First(&amenity).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &amenity, nil
}

func (r *amenityRepository) Replace(ctx context.Context, amenity *models.Amenity) error {
	if err := r.db.WithContext(ctx).Save(amenity).Error; err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.AmenityKey(amenity.PostID))
	return nil
}

func (r *amenityRepository) DeleteByPost(ctx context.Context, postID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Delete(&models.Amenity{})
	if res.Error != nil {
		return false, res.Error
	}
	cache.Invalidate(ctx, cache.AmenityKey(postID))
	return res.RowsAffected > 0, nil
}
