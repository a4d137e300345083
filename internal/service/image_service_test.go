package service

import (
	"context"
	"fmt"
	"testing"

	"nhatro/internal/models"
	"nhatro/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// blobStoreStub records saves and removes in memory.
type blobStoreStub struct {
	saved   []string
	removed []string
	saveErr error
}

func (s *blobStoreStub) Save(filename string, data []byte) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	url := fmt.Sprintf("/uploads/blob-%d", len(s.saved))
	s.saved = append(s.saved, url)
	return url, nil
}

func (s *blobStoreStub) Remove(url string) error {
	s.removed = append(s.removed, url)
	return nil
}

func newImageService(db *gorm.DB, blobs *blobStoreStub) *ImageService {
	return NewImageService(repository.NewImageRepository(db), repository.NewPostRepository(db), blobs)
}

func TestImageService_UploadImages(t *testing.T) {
	t.Parallel()
	db := setupServiceTestDB(t)
	user, post := seedUserAndPost(t, db)
	blobs := &blobStoreStub{}
	svc := newImageService(db, blobs)
	ctx := context.Background()
	actor := models.Actor{ID: user.ID}

	images, err := svc.UploadImages(ctx, UploadImagesInput{
		Actor:  actor,
		PostID: post.ID,
		Files: []UploadFile{
			{Filename: "a.jpg", Content: []byte("a")},
			{Filename: "b.jpg", Content: []byte("b")},
		},
	})
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Len(t, blobs.saved, 2)
	assert.Equal(t, blobs.saved[0], images[0].ImageURL)

	listed, err := svc.ListImages(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestImageService_Upload_Authorization(t *testing.T) {
	t.Parallel()
	db := setupServiceTestDB(t)
	_, post := seedUserAndPost(t, db)
	svc := newImageService(db, &blobStoreStub{})
	ctx := context.Background()

	_, err := svc.UploadImages(ctx, UploadImagesInput{
		Actor:  models.Actor{ID: 999},
		PostID: post.ID,
		Files:  []UploadFile{{Filename: "a.jpg", Content: []byte("a")}},
	})
	assertAppError(t, err, models.CodeForbidden)

	t.Run("no files", func(t *testing.T) {
		_, err := svc.UploadImages(ctx, UploadImagesInput{Actor: models.Actor{ID: 999}, PostID: post.ID})
		assertAppError(t, err, models.CodeInvalidArgument)
	})
}

func TestImageService_AddImageURLAndDelete(t *testing.T) {
	t.Parallel()
	db := setupServiceTestDB(t)
	user, post := seedUserAndPost(t, db)
	blobs := &blobStoreStub{}
	svc := newImageService(db, blobs)
	ctx := context.Background()
	actor := models.Actor{ID: user.ID}

	image, err := svc.AddImageURL(ctx, actor, post.ID, "https://cdn.example.com/room.jpg")
	require.NoError(t, err)
	require.NotZero(t, image.ID)

	t.Run("stranger cannot delete", func(t *testing.T) {
		err := svc.DeleteImage(ctx, models.Actor{ID: 999}, image.ID)
		assertAppError(t, err, models.CodeForbidden)
	})

	require.NoError(t, svc.DeleteImage(ctx, actor, image.ID))
	assert.Equal(t, []string{"https://cdn.example.com/room.jpg"}, blobs.removed)

	t.Run("double delete is not found", func(t *testing.T) {
		err := svc.DeleteImage(ctx, actor, image.ID)
		assertAppError(t, err, models.CodeNotFound)
	})

	t.Run("empty url rejected", func(t *testing.T) {
		_, err := svc.AddImageURL(ctx, actor, post.ID, "")
		assertAppError(t, err, models.CodeInvalidArgument)
	})
}
