package service

import (
	"context"
	"errors"
	"log/slog"

	"nhatro/internal/models"
	"nhatro/internal/repository"
	"nhatro/internal/storage"

	"gorm.io/gorm"
)

// ImageService manages listing photos. Files are opaque blobs here; the
// store hands back a URL and the service only records it.
type ImageService struct {
	imageRepo repository.ImageRepository
	postRepo  repository.PostRepository
	blobs     storage.BlobStore
}

type UploadImagesInput struct {
	Actor  models.Actor
	PostID uint
	Files  []UploadFile
}

type UploadFile struct {
	Filename string
	Content  []byte
}

func NewImageService(imageRepo repository.ImageRepository, postRepo repository.PostRepository, blobs storage.BlobStore) *ImageService {
	return &ImageService{imageRepo: imageRepo, postRepo: postRepo, blobs: blobs}
}

func (s *ImageService) ownedPost(ctx context.Context, actor models.Actor, postID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post")
		}
		return nil, models.NewStoreError(err)
	}
	if post.UserID != actor.ID && !actor.IsAdmin {
		return nil, models.NewForbiddenError("You can only manage images of your own posts")
	}
	return post, nil
}

// AddImageURL attaches an already-hosted image to a post.
func (s *ImageService) AddImageURL(ctx context.Context, actor models.Actor, postID uint, imageURL string) (*models.Image, error) {
	if imageURL == "" {
		return nil, models.NewInvalidArgumentError("Image URL is required")
	}
	if _, err := s.ownedPost(ctx, actor, postID); err != nil {
		return nil, err
	}

	image := &models.Image{PostID: postID, ImageURL: imageURL}
	if err := s.imageRepo.Create(ctx, image); err != nil {
		return nil, models.NewStoreError(err)
	}
	return image, nil
}

// UploadImages stores uploaded files and records one Image row per file.
// A file that fails after earlier ones succeeded leaves those earlier
// rows in place; the caller gets the error with whatever was attached.
func (s *ImageService) UploadImages(ctx context.Context, in UploadImagesInput) ([]*models.Image, error) {
	if len(in.Files) == 0 {
		return nil, models.NewInvalidArgumentError("No files uploaded")
	}
	if _, err := s.ownedPost(ctx, in.Actor, in.PostID); err != nil {
		return nil, err
	}

	images := make([]*models.Image, 0, len(in.Files))
	for _, f := range in.Files {
		url, err := s.blobs.Save(f.Filename, f.Content)
		if err != nil {
			return images, models.NewInvalidArgumentError(err.Error())
		}
		image := &models.Image{PostID: in.PostID, ImageURL: url}
		if err := s.imageRepo.Create(ctx, image); err != nil {
			if rmErr := s.blobs.Remove(url); rmErr != nil {
				slog.WarnContext(ctx, "orphan blob left after failed image insert", "url", url, "err", rmErr)
			}
			return images, models.NewStoreError(err)
		}
		images = append(images, image)
	}
	return images, nil
}

// ListImages returns the post's image rows.
func (s *ImageService) ListImages(ctx context.Context, postID uint) ([]models.Image, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post")
		}
		return nil, models.NewStoreError(err)
	}
	images, err := s.imageRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, models.NewStoreError(err)
	}
	return images, nil
}

// DeleteImage detaches a photo from its post and drops the blob when the
// URL points into our store.
func (s *ImageService) DeleteImage(ctx context.Context, actor models.Actor, imageID uint) error {
	image, err := s.imageRepo.GetByID(ctx, imageID)
	if err != nil {
		return models.NewStoreError(err)
	}
	if image == nil {
		return models.NewNotFoundError("Image")
	}
	if _, err := s.ownedPost(ctx, actor, image.PostID); err != nil {
		return err
	}

	deleted, err := s.imageRepo.Delete(ctx, imageID)
	if err != nil {
		return models.NewStoreError(err)
	}
	if !deleted {
		return models.NewNotFoundError("Image")
	}
	if err := s.blobs.Remove(image.ImageURL); err != nil {
		slog.WarnContext(ctx, "failed to remove image blob", "url", image.ImageURL, "err", err)
	}
	return nil
}
