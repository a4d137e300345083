package repository

import (
	"context"
	"time"

	"nhatro/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HistoryItem pairs a viewed post with the time it was last seen.
type HistoryItem struct {
	Post     *models.Post `json:"post"`
	ViewedAt time.Time    `json:"viewed_at"`
}

// HistoryRepository manages per-user view history, one row per (user, post).
type HistoryRepository interface {
	// RecordView upserts the pair: a first view inserts a row, a repeat view
	// only advances viewed_at. Single statement, so concurrent views of the
	// same post never produce duplicate rows.
	RecordView(ctx context.Context, userID, postID uint, at time.Time) error
	ListByUser(ctx context.Context, userID uint, limit int) ([]HistoryItem, error)
	Clear(ctx context.Context, userID uint) error
}

type historyRepository struct {
	db *gorm.DB
}

// NewHistoryRepository creates a new HistoryRepository
func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) RecordView(ctx context.Context, userID, postID uint, at time.Time) error {
	entry := models.History{UserID: userID, PostID: postID, ViewedAt: at}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"viewed_at": at}),
		}).
		Create(&entry).Error
}

// ListByUser joins history rows with their posts, most recently viewed first.
func (r *historyRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]HistoryItem, error) {
	var entries []models.History
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("viewed_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return []HistoryItem{}, nil
	}

	postIDs := make([]uint, 0, len(entries))
	for _, e := range entries {
		postIDs = append(postIDs, e.PostID)
	}

	var posts []*models.Post
	if err := r.db.WithContext(ctx).
		Preload("Images").
		Where("id IN ?", postIDs).
		Find(&posts).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]*models.Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}

	items := make([]HistoryItem, 0, len(entries))
	for _, e := range entries {
		if p, ok := byID[e.PostID]; ok {
			items = append(items, HistoryItem{Post: p, ViewedAt: e.ViewedAt})
		}
	}
	return items, nil
}

// Clear wipes the user's history. Clearing an empty history is a success.
func (r *historyRepository) Clear(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.History{}).Error
}
