package service

import (
	"context"
	"errors"
	"time"

	"nhatro/internal/models"
	"nhatro/internal/repository"

	"gorm.io/gorm"
)

// DefaultHistoryLimit bounds the history page when the caller asks for
// nothing specific.
const DefaultHistoryLimit = 10

// HistoryService tracks which listings a user has viewed.
type HistoryService struct {
	historyRepo repository.HistoryRepository
	postRepo    repository.PostRepository
	userRepo    repository.UserRepository
}

func NewHistoryService(historyRepo repository.HistoryRepository, postRepo repository.PostRepository, userRepo repository.UserRepository) *HistoryService {
	return &HistoryService{historyRepo: historyRepo, postRepo: postRepo, userRepo: userRepo}
}

// RecordView notes that the user viewed the post just now. A repeat view
// refreshes the timestamp instead of growing the history.
func (s *HistoryService) RecordView(ctx context.Context, userID, postID uint) error {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("User")
		}
		return models.NewStoreError(err)
	}
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Post")
		}
		return models.NewStoreError(err)
	}
	if err := s.historyRepo.RecordView(ctx, userID, postID, time.Now().UTC()); err != nil {
		return models.NewStoreError(err)
	}
	return nil
}

// ListHistory returns the user's recently viewed listings.
func (s *HistoryService) ListHistory(ctx context.Context, userID uint, limit int) ([]repository.HistoryItem, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User")
		}
		return nil, models.NewStoreError(err)
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	items, err := s.historyRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, models.NewStoreError(err)
	}
	return items, nil
}

// ClearHistory wipes the user's view history. An already empty history
// clears successfully.
func (s *HistoryService) ClearHistory(ctx context.Context, userID uint) error {
	if err := s.historyRepo.Clear(ctx, userID); err != nil {
		return models.NewStoreError(err)
	}
	return nil
}
