package service

import (
	"context"
	"errors"

	"nhatro/internal/cache"
	"nhatro/internal/models"
	"nhatro/internal/repository"

	"gorm.io/gorm"
)

// CommentService owns the review lifecycle. Every mutation of a post's
// comment set and the recompute of that post's aggregate rating commit
// in one transaction, so readers never observe a comment without its
// effect on avg_rating.
type CommentService struct {
	db          *gorm.DB
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

type AddCommentInput struct {
	UserID  uint
	PostID  uint
	Rating  float64
	Comment string
}

type UpdateCommentInput struct {
	Actor     models.Actor
	CommentID uint
	Rating    *float64
	Comment   *string
}

func NewCommentService(db *gorm.DB, commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{db: db, commentRepo: commentRepo, postRepo: postRepo}
}

func validRating(r float64) bool {
	return r >= 1 && r <= 5
}

// AddComment leaves a rating on a post. One review per user per post;
// the new comment enters moderation as pending but its rating counts
// toward the aggregate immediately.
func (s *CommentService) AddComment(ctx context.Context, in AddCommentInput) (*models.Comment, error) {
	if !validRating(in.Rating) {
		return nil, models.NewInvalidArgumentError("Rating must be between 1 and 5")
	}

	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post")
		}
		return nil, models.NewStoreError(err)
	}

	exists, err := s.commentRepo.ExistsForPostAndUser(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, models.NewStoreError(err)
	}
	if exists {
		return nil, models.NewConflictError("You have already commented on this post")
	}

	comment := &models.Comment{
		PostID:  in.PostID,
		UserID:  in.UserID,
		Rating:  in.Rating,
		Comment: in.Comment,
		Status:  models.StatusPending,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			// The unique index backs up the pre-check under races.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return models.NewConflictError("You have already commented on this post")
			}
			return err
		}
		return repository.RecomputePostRating(tx, in.PostID)
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, models.NewStoreError(err)
	}

	cache.InvalidatePost(ctx, in.PostID)
	return comment, nil
}

// ListComments returns the publicly visible comments of a post.
func (s *CommentService) ListComments(ctx context.Context, postID uint) ([]*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post")
		}
		return nil, models.NewStoreError(err)
	}
	comments, err := s.commentRepo.ListVisibleByPost(ctx, postID)
	if err != nil {
		return nil, models.NewStoreError(err)
	}
	return comments, nil
}

// UpdateComment edits the author's own review and refreshes the post
// aggregate in the same transaction.
func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment")
		}
		return nil, models.NewStoreError(err)
	}
	if comment.UserID != in.Actor.ID && !in.Actor.IsAdmin {
		return nil, models.NewForbiddenError("You can only update your own comments")
	}

	if in.Rating != nil {
		if !validRating(*in.Rating) {
			return nil, models.NewInvalidArgumentError("Rating must be between 1 and 5")
		}
		comment.Rating = *in.Rating
	}
	if in.Comment != nil {
		comment.Comment = *in.Comment
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(comment).Error; err != nil {
			return err
		}
		return repository.RecomputePostRating(tx, comment.PostID)
	})
	if err != nil {
		return nil, models.NewStoreError(err)
	}

	cache.InvalidatePost(ctx, comment.PostID)
	return comment, nil
}

// DeleteComment removes a review; deleting the last one leaves the post
// with no aggregate rating rather than a zero.
func (s *CommentService) DeleteComment(ctx context.Context, actor models.Actor, commentID uint) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Comment")
		}
		return models.NewStoreError(err)
	}
	if comment.UserID != actor.ID && !actor.IsAdmin {
		return models.NewForbiddenError("You can only delete your own comments")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Comment{}, commentID).Error; err != nil {
			return err
		}
		return repository.RecomputePostRating(tx, comment.PostID)
	})
	if err != nil {
		return models.NewStoreError(err)
	}

	cache.InvalidatePost(ctx, comment.PostID)
	return nil
}
