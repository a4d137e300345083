package repository

import (
	"context"
	"errors"

	"nhatro/internal/models"

	"gorm.io/gorm"
)

// ImageRepository manages listing image metadata rows.
type ImageRepository interface {
	Create(ctx context.Context, image *models.Image) error
	GetByID(ctx context.Context, id uint) (*models.Image, error)
	ListByPost(ctx context.Context, postID uint) ([]models.Image, error)
	Delete(ctx context.Context, id uint) (bool, error)
}

type imageRepository struct {
	db *gorm.DB
}

// NewImageRepository creates a new ImageRepository
func NewImageRepository(db *gorm.DB) ImageRepository {
	return &imageRepository{db: db}
}

func (r *imageRepository) Create(ctx context.Context, image *models.Image) error {
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *imageRepository) GetByID(ctx context.Context, id uint) (*models.Image, error) {
	var image models.Image
	err := r.db.WithContext(ctx).First(&image, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *imageRepository) ListByPost(ctx context.Context, postID uint) ([]models.Image, error) {
	var images []models.Image
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("id ASC").
		Find(&images).Error
	return images, err
}

func (r *imageRepository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.Image{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
