// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"nhatro/internal/cache"
	"nhatro/internal/models"

	"gorm.io/gorm"
)

// UserStats aggregates activity counters shown on a profile.
type UserStats struct {
	PostsCount      int64 `json:"posts_count"`
	CommentsCount   int64 `json:"comments_count"`
	FavouritesCount int64 `json:"favorites_count"`
	HistoryCount    int64 `json:"history_count"`
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	Stats(ctx context.Context, userID uint) (*UserStats, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail returns (nil, nil) when no user carries the email so callers can
// distinguish "absent" from a store failure.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	var users []*models.User
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	return users, err
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return err
	}
	cache.InvalidateUser(ctx, user.ID)
	return nil
}

// Delete removes the user row; images, comments, favourites and history rows
// owned through posts go with it via ON DELETE CASCADE.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.User{}, id).Error; err != nil {
		return err
	}
	cache.InvalidateUser(ctx, id)
	return nil
}

func (r *userRepository) Stats(ctx context.Context, userID uint) (*UserStats, error) {
	var stats UserStats
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.Post{}).Where("user_id = ?", userID).Count(&stats.PostsCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Comment{}).Where("user_id = ?", userID).Count(&stats.CommentsCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Favourite{}).Where("user_id = ?", userID).Count(&stats.FavouritesCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.History{}).Where("user_id = ?", userID).Count(&stats.HistoryCount).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}
