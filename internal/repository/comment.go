package repository

import (
	"context"

	"nhatro/internal/cache"
	"nhatro/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListVisibleByPost(ctx context.Context, postID uint) ([]*models.Comment, error)
	ExistsForPostAndUser(ctx context.Context, postID, userID uint) (bool, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("User").First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListVisibleByPost returns the comments shown on a public post view:
// approved and not reported, newest first. The page is cached per post;
// comment mutations and moderation transitions invalidate the key.
func (r *commentRepository) ListVisibleByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := cache.Aside(ctx, cache.CommentsKey(postID), &comments, cache.CommentsTTL, func() error {
		return r.db.WithContext(ctx).
			Preload("User").
			Where("post_id = ? AND status = ? AND is_report = ?", postID, models.StatusApproved, false).
			Order("created_at DESC").
			Order("id DESC").
			Find(&comments).Error
	})
	return comments, err
}

func (r *commentRepository) ExistsForPostAndUser(ctx context.Context, postID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// RecomputePostRating rewrites the post's aggregate rating from the comment
// rows in a single UPDATE, so the aggregate and the triggering comment
// mutation commit together when run inside one transaction. Every comment
// counts toward the mean regardless of its moderation status; with no
// comments left the aggregate becomes NULL, not zero.
func RecomputePostRating(tx *gorm.DB, postID uint) error {
	return tx.Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumn("avg_rating", gorm.Expr(
			"(SELECT AVG(rating) FROM comments WHERE comments.post_id = ?)", postID,
		)).Error
}
