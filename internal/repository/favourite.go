package repository

import (
	"context"

	"nhatro/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FavouriteRepository manages the user/post bookmark ledger.
type FavouriteRepository interface {
	// Add inserts the pair if absent. Re-adding an existing favourite is a
	// no-op success, guaranteed by an atomic conditional insert rather than
	// a racy read-then-write.
	Add(ctx context.Context, userID, postID uint) error
	// Remove deletes the pair and reports whether a row existed.
	Remove(ctx context.Context, userID, postID uint) (bool, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.Favourite, error)
}

type favouriteRepository struct {
	db *gorm.DB
}

// NewFavouriteRepository creates a new FavouriteRepository
func NewFavouriteRepository(db *gorm.DB) FavouriteRepository {
	return &favouriteRepository{db: db}
}

func (r *favouriteRepository) Add(ctx context.Context, userID, postID uint) error {
	fav := models.Favourite{UserID: userID, PostID: postID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&fav).Error
}

func (r *favouriteRepository) Remove(ctx context.Context, userID, postID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Favourite{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *favouriteRepository) ListByUser(ctx context.Context, userID uint) ([]*models.Favourite, error) {
	var favs []*models.Favourite
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("added_at DESC").
		Find(&favs).Error
	return favs, err
}
