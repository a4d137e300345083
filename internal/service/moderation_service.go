package service

import (
	"context"
	"errors"
	"log/slog"

	"nhatro/internal/cache"
	"nhatro/internal/middleware"
	"nhatro/internal/models"

	"gorm.io/gorm"
)

// AdminPostRow is a moderation-queue row: the listing plus its owner's
// email for the admin console.
type AdminPostRow struct {
	models.Post
	UserEmail string `json:"user_email"`
}

// AdminCommentRow mirrors AdminPostRow for comments.
type AdminCommentRow struct {
	models.Comment
	UserEmail string `json:"user_email"`
}

// ModerationService drives the pending/approved/rejected lifecycle and
// the orthogonal report flag for posts and comments. All entry points
// except reporting require an admin actor.
type ModerationService struct {
	db *gorm.DB
}

// NewModerationService returns a new ModerationService.
func NewModerationService(db *gorm.DB) *ModerationService {
	return &ModerationService{db: db}
}

func requireAdmin(actor models.Actor) error {
	if !actor.IsAdmin {
		return models.NewForbiddenError("Admin privileges required")
	}
	return nil
}

// ApprovePost publishes a listing. Approval also clears the report flag:
// an admin approving a reported post has reviewed the report. Approving
// an already-approved post is a no-op success.
func (s *ModerationService) ApprovePost(ctx context.Context, actor models.Actor, postID uint) (*models.Post, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	post, err := s.transitionPost(ctx, postID, func(p *models.Post) {
		p.Status = models.StatusApproved
		p.IsReport = false
	})
	if err != nil {
		return nil, err
	}
	middleware.ModerationTransitions.WithLabelValues("post", "approve").Inc()
	slog.InfoContext(ctx, "post approved", "post_id", postID, "admin_id", actor.ID)
	return post, nil
}

// RejectPost takes a listing off the public site. The report flag stays
// as it is; rejection answers the status axis only.
func (s *ModerationService) RejectPost(ctx context.Context, actor models.Actor, postID uint) (*models.Post, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	post, err := s.transitionPost(ctx, postID, func(p *models.Post) {
		p.Status = models.StatusRejected
	})
	if err != nil {
		return nil, err
	}
	middleware.ModerationTransitions.WithLabelValues("post", "reject").Inc()
	slog.InfoContext(ctx, "post rejected", "post_id", postID, "admin_id", actor.ID)
	return post, nil
}

// ReportPost flags a listing. Any authenticated user may report; the
// post drops out of public results until an admin approves it again.
func (s *ModerationService) ReportPost(ctx context.Context, actor models.Actor, postID uint) (*models.Post, error) {
	post, err := s.transitionPost(ctx, postID, func(p *models.Post) {
		p.IsReport = true
	})
	if err != nil {
		return nil, err
	}
	middleware.ModerationTransitions.WithLabelValues("post", "report").Inc()
	slog.InfoContext(ctx, "post reported", "post_id", postID, "reporter_id", actor.ID)
	return post, nil
}

func (s *ModerationService) transitionPost(ctx context.Context, postID uint, apply func(*models.Post)) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post")
		}
		return nil, models.NewStoreError(err)
	}
	apply(&post)
	if err := s.db.WithContext(ctx).Model(&post).
		Select("status", "is_report").
		Updates(map[string]interface{}{"status": post.Status, "is_report": post.IsReport}).Error; err != nil {
		return nil, models.NewStoreError(err)
	}
	cache.InvalidatePost(ctx, postID)
	return &post, nil
}

// ApproveComment publishes a comment and clears its report flag.
func (s *ModerationService) ApproveComment(ctx context.Context, actor models.Actor, commentID uint) (*models.Comment, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	comment, err := s.transitionComment(ctx, commentID, func(c *models.Comment) {
		c.Status = models.StatusApproved
		c.IsReport = false
	})
	if err != nil {
		return nil, err
	}
	middleware.ModerationTransitions.WithLabelValues("comment", "approve").Inc()
	slog.InfoContext(ctx, "comment approved", "comment_id", commentID, "admin_id", actor.ID)
	return comment, nil
}

// RejectComment hides a comment from the public post view. Its rating
// still counts toward the post aggregate.
func (s *ModerationService) RejectComment(ctx context.Context, actor models.Actor, commentID uint) (*models.Comment, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	comment, err := s.transitionComment(ctx, commentID, func(c *models.Comment) {
		c.Status = models.StatusRejected
	})
	if err != nil {
		return nil, err
	}
	middleware.ModerationTransitions.WithLabelValues("comment", "reject").Inc()
	slog.InfoContext(ctx, "comment rejected", "comment_id", commentID, "admin_id", actor.ID)
	return comment, nil
}

// ReportComment flags a comment for admin review.
func (s *ModerationService) ReportComment(ctx context.Context, actor models.Actor, commentID uint) (*models.Comment, error) {
	comment, err := s.transitionComment(ctx, commentID, func(c *models.Comment) {
		c.IsReport = true
	})
	if err != nil {
		return nil, err
	}
	middleware.ModerationTransitions.WithLabelValues("comment", "report").Inc()
	slog.InfoContext(ctx, "comment reported", "comment_id", commentID, "reporter_id", actor.ID)
	return comment, nil
}

func (s *ModerationService) transitionComment(ctx context.Context, commentID uint, apply func(*models.Comment)) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.WithContext(ctx).First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment")
		}
		return nil, models.NewStoreError(err)
	}
	apply(&comment)
	if err := s.db.WithContext(ctx).Model(&comment).
		Select("status", "is_report").
		Updates(map[string]interface{}{"status": comment.Status, "is_report": comment.IsReport}).Error; err != nil {
		return nil, models.NewStoreError(err)
	}
	cache.Invalidate(ctx, cache.CommentsKey(comment.PostID))
	return &comment, nil
}

// PendingPosts lists the post moderation queue, newest first, with each
// owner's email joined in.
func (s *ModerationService) PendingPosts(ctx context.Context, actor models.Actor, limit, offset int) ([]AdminPostRow, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.adminPosts(ctx, "posts.status = ?", []interface{}{models.StatusPending}, limit, offset)
}

// ReportedPosts lists every reported post regardless of status.
func (s *ModerationService) ReportedPosts(ctx context.Context, actor models.Actor, limit, offset int) ([]AdminPostRow, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.adminPosts(ctx, "posts.is_report = ?", []interface{}{true}, limit, offset)
}

func (s *ModerationService) adminPosts(ctx context.Context, cond string, args []interface{}, limit, offset int) ([]AdminPostRow, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if offset < 0 {
		offset = 0
	}
	var rows []AdminPostRow
	err := s.db.WithContext(ctx).
		Table("posts").
		Select("posts.*, users.email AS user_email").
		Joins("INNER JOIN users ON users.id = posts.user_id").
		Where(cond, args...).
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	if err != nil {
		return nil, models.NewStoreError(err)
	}
	return rows, nil
}

// PendingComments lists the comment moderation queue.
func (s *ModerationService) PendingComments(ctx context.Context, actor models.Actor, limit, offset int) ([]AdminCommentRow, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.adminComments(ctx, "comments.status = ?", []interface{}{models.StatusPending}, limit, offset)
}

// ReportedComments lists every reported comment regardless of status.
func (s *ModerationService) ReportedComments(ctx context.Context, actor models.Actor, limit, offset int) ([]AdminCommentRow, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.adminComments(ctx, "comments.is_report = ?", []interface{}{true}, limit, offset)
}

func (s *ModerationService) adminComments(ctx context.Context, cond string, args []interface{}, limit, offset int) ([]AdminCommentRow, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if offset < 0 {
		offset = 0
	}
	var rows []AdminCommentRow
	err := s.db.WithContext(ctx).
		Table("comments").
		Select("comments.*, users.email AS user_email").
		Joins("INNER JOIN users ON users.id = comments.user_id").
		Where(cond, args...).
		Order("comments.created_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	if err != nil {
		return nil, models.NewStoreError(err)
	}
	return rows, nil
}
