package server

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"nhatro/internal/config"
	"nhatro/internal/models"
	"nhatro/internal/repository"
	"nhatro/internal/service"
	"nhatro/internal/storage"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestServer wires a Server against an in-memory sqlite store, the
// way the HTTP tests exercise full request handling without postgres.
func newTestServer(t *testing.T) (*Server, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Image{},
		&models.Amenity{},
		&models.Favourite{},
		&models.History{},
	); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	blobs, err := storage.NewLocalStore(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatalf("blob store: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	favRepo := repository.NewFavouriteRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	amenityRepo := repository.NewAmenityRepository(db)
	imageRepo := repository.NewImageRepository(db)

	s := &Server{
		config:   &config.Config{JWTSecret: "test_secret", UploadDir: blobs.Dir(), UploadBaseURL: "/uploads"},
		db:       db,
		userRepo: userRepo,
		postRepo: postRepo,
		blobs:    blobs,
	}
	s.userService = service.NewUserService(userRepo)
	s.postService = service.NewPostService(postRepo, userRepo)
	s.commentService = service.NewCommentService(db, commentRepo, postRepo)
	s.moderationService = service.NewModerationService(db)
	s.favouriteService = service.NewFavouriteService(favRepo, postRepo, userRepo)
	s.historyService = service.NewHistoryService(historyRepo, postRepo, userRepo)
	s.amenityService = service.NewAmenityService(amenityRepo, postRepo)
	s.imageService = service.NewImageService(imageRepo, postRepo, blobs)

	return s, db
}

func createTestUser(t *testing.T, db *gorm.DB, email string, isAdmin bool) *models.User {
	t.Helper()
	user := &models.User{Email: email, Password: "hashed", FullName: "Test User", IsAdmin: isAdmin}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func createTestPost(t *testing.T, db *gorm.DB, userID uint, status models.ModerationStatus) *models.Post {
	t.Helper()
	post := &models.Post{
		UserID:   userID,
		Title:    "Phong tro quan 1",
		Price:    2500000,
		Province: "Ho Chi Minh",
		District: "District 1",
		Status:   status,
	}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	return post
}

// decodeBody unmarshals the response envelope into a generic map.
func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("unmarshal body %q: %v", raw, err)
	}
	return body
}
