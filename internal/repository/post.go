package repository

import (
	"context"

	"nhatro/internal/cache"
	"nhatro/internal/models"

	"gorm.io/gorm"
)

// ListingFilter carries the optional predicates of a listing search. Nil
// fields are omitted from the query plan.
type ListingFilter struct {
	Province *string
	District *string
	Rural    *string
	Type     *string
	RoomNum  *int
	MinPrice *int
	MaxPrice *int

	// Amenity predicates. Any set flag forces an inner join to the
	// amenity record, so posts without one drop out of the result.
	HasWifi    bool
	HasAC      bool
	HasParking bool
}

func (f ListingFilter) wantsAmenities() bool {
	return f.HasWifi || f.HasAC || f.HasParking
}

// PostRepository defines the interface for listing data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	GetByUserID(ctx context.Context, userID uint) ([]*models.Post, error)
	List(ctx context.Context, limit, offset int) ([]*models.Post, error)
	Search(ctx context.Context, filter ListingFilter, limit, offset int) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	IncrementViews(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// Visible scopes a query to publicly listable posts: approved and not
// currently reported. Admin queries never use this scope.
func Visible(db *gorm.DB) *gorm.DB {
	return db.Where("posts.status = ? AND posts.is_report = ?", models.StatusApproved, false)
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
		return r.db.WithContext(ctx).
			Preload("Images").
			Preload("Amenity").
			First(&post, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// GetByUserID returns every post of the owner regardless of moderation
// state; owners see their own pending and rejected listings.
func (r *postRepository) GetByUserID(ctx context.Context, userID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("Images").
		Where("user_id = ?", userID).
		Order("posts.id DESC").
		Find(&posts).Error
	return posts, err
}

// List returns the public listing page ordered by id descending.
func (r *postRepository) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := Visible(r.db.WithContext(ctx)).
		Preload("Images").
		Order("posts.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

// Search composes the public visibility rule with the optional filter
// predicates into one deterministic query plan: newest first with id as
// tie-break when post dates collide.
func (r *postRepository) Search(ctx context.Context, filter ListingFilter, limit, offset int) ([]*models.Post, error) {
	q := Visible(r.db.WithContext(ctx).Model(&models.Post{}))

	if filter.Province != nil {
		q = q.Where("posts.province = ?", *filter.Province)
	}
	if filter.District != nil {
		q = q.Where("posts.district = ?", *filter.District)
	}
	if filter.Rural != nil {
		q = q.Where("posts.rural = ?", *filter.Rural)
	}
	if filter.Type != nil {
		q = q.Where("posts.type = ?", *filter.Type)
	}
	if filter.RoomNum != nil {
		q = q.Where("posts.room_num = ?", *filter.RoomNum)
	}
	if filter.MinPrice != nil {
		q = q.Where("posts.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("posts.price <= ?", *filter.MaxPrice)
	}

	if filter.wantsAmenities() {
		q = q.Joins("INNER JOIN amenities ON amenities.post_id = posts.id")
		if filter.HasWifi {
			q = q.Where("amenities.wifi = ?", true)
		}
		if filter.HasAC {
			q = q.Where("amenities.air_conditioner = ?", true)
		}
		if filter.HasParking {
			q = q.Where("amenities.parking_lot = ?", true)
		}
	}

	var posts []*models.Post
	err := q.
		Preload("Images").
		Order("posts.created_at DESC").
		Order("posts.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return err
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

// Delete removes the post row; images, comments, amenity, favourite and
// history rows follow via ON DELETE CASCADE.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return err
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

// IncrementViews bumps the view counter atomically in the store, avoiding a
// read-modify-write race between concurrent viewers.
func (r *postRepository) IncrementViews(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
	if err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.PostKey(id))
	return nil
}
