package service

import (
	"context"
	"testing"

	"nhatro/internal/models"
	"nhatro/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
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
	return db
}

func seedUserAndPost(t *testing.T, db *gorm.DB) (models.User, models.Post) {
	t.Helper()
	user := models.User{Email: "owner@example.com", Password: "pw"}
	require.NoError(t, db.Create(&user).Error)
	post := models.Post{
		UserID: user.ID, Title: "Room", Description: "d", Price: 1000000,
		Type: "room", Deposit: "1m", Province: "Ha Noi", District: "Cau Giay",
		Rural: "x", Street: "y", DetailedAddress: "z",
		Status: models.StatusApproved,
	}
	require.NoError(t, db.Create(&post).Error)
	return user, post
}

func newCommentService(db *gorm.DB) *CommentService {
	return NewCommentService(db, repository.NewCommentRepository(db), repository.NewPostRepository(db))
}

func postRating(t *testing.T, db *gorm.DB, postID uint) *float64 {
	t.Helper()
	var post models.Post
	require.NoError(t, db.First(&post, postID).Error)
	return post.AvgRating
}

func TestCommentService_AddComment_UpdatesAggregate(t *testing.T) {
	t.Parallel()
	db := setupServiceTestDB(t)
	_, post := seedUserAndPost(t, db)
	svc := newCommentService(db)
	ctx := context.Background()

	reviewer := models.User{Email: "r1@example.com", Password: "pw"}
	require.NoError(t, db.Create(&reviewer).Error)

	comment, err := svc.AddComment(ctx, AddCommentInput{
		UserID: reviewer.ID, PostID: post.ID, Rating: 4, Comment: "nice",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, comment.Status)

	rating := postRating(t, db, post.ID)
	require.NotNil(t, rating)
	assert.InDelta(t, 4.0, *rating, 1e-9)

	// A second reviewer pulls the mean down. Both comments are still
	// pending; moderation status never gates the aggregate.
	reviewer2 := models.User{Email: "r2@example.com", Password: "pw"}
	require.NoError(t, db.Create(&reviewer2).Error)
	_, err = svc.AddComment(ctx, AddCommentInput{
		UserID: reviewer2.ID, PostID: post.ID, Rating: 2,
	})
	require.NoError(t, err)

	rating = postRating(t, db, post.ID)
	require.NotNil(t, rating)
	assert.InDelta(t, 3.0, *rating, 1e-9)
}

func TestCommentService_AddComment_OnePerUser(t *testing.T) {
	t.Parallel()
	db := setupServiceTestDB(t)
	user, post := seedUserAndPost(t, db)
	svc := newCommentService(db)
	ctx := context.Background()

	_, err := svc.AddComment(ctx, AddCommentInput{UserID: user.ID, PostID: post.ID, Rating: 5})
	require.NoError(t, err)

	_, err = svc.AddComment(ctx, AddCommentInput{UserID: user.ID, PostID: post.ID, Rating: 1})
	assertAppError(t, err, models.CodeConflict)

	// The rejected duplicate must not have touched the aggregate.
	rating := postRating(t, db, post.ID)
	require.NotNil(t, rating)
	assert.InDelta(t, 5.0, *rating, 1e-9)
}

func TestCommentService_AddComment_Validation(t *testing.T) {
	t.Parallel()
	db := setupServiceTestDB(t)
	user, _ := seedUserAndPost(t, db)
	svc := newCommentService(db)
	ctx := context.Background()

	t.Run("rating out of range", func(t *testing.T) {
		_, err := svc.AddComment(ctx, AddCommentInput{UserID: user.ID, PostID: 1, Rating: 6})
		assertAppError(t, err, models.CodeInvalidArgument)
	})

	t.Run("missing post", func(t *testing.T) {
		_, err := svc.AddComment(ctx, AddCommentInput{UserID: user.ID, PostID: 999, Rating: 3})
		assertAppError(t, err, models.CodeNotFound)
	})
}

func TestCommentService_UpdateComment_RecomputesAggregate(t *testing.T) {
	t.Parallel()
	db := setupServiceTestDB(t)
	user, post := seedUserAndPost(t, db)
	svc := newCommentService(db)
	ctx := context.Background()

	comment, err := svc.AddComment(ctx, AddCommentInput{UserID: user.ID, PostID: post.ID, Rating: 4})
	require.NoError(t, err)

	newRating := 2.0
	_, err = svc.UpdateComment(ctx, UpdateCommentInput{
		Actor: models.Actor{ID: user.ID}, CommentID: comment.ID, Rating: &newRating,
	})
	require.NoError(t, err)

	rating := postRating(t, db, post.ID)
	require.NotNil(t, rating)
	assert.InDelta(t, 2.0, *rating, 1e-9)

	t.Run("stranger cannot edit", func(t *testing.T) {
		r := 5.0
		_, err := svc.UpdateComment(ctx, UpdateCommentInput{
			Actor: models.Actor{ID: user.ID + 100}, CommentID: comment.ID, Rating: &r,
		})
		assertAppError(t, err, models.CodeForbidden)
	})
}

func TestCommentService_DeleteComment_LastOneClearsAggregate(t *testing.T) {
	t.Parallel()
	db := setupServiceTestDB(t)
	user, post := seedUserAndPost(t, db)
	svc := newCommentService(db)
	ctx := context.Background()

	comment, err := svc.AddComment(ctx, AddCommentInput{UserID: user.ID, PostID: post.ID, Rating: 3})
	require.NoError(t, err)
	require.NotNil(t, postRating(t, db, post.ID))

	require.NoError(t, svc.DeleteComment(ctx, models.Actor{ID: user.ID}, comment.ID))

	// No comments left: the aggregate is absent, not zero.
	assert.Nil(t, postRating(t, db, post.ID))
}

func TestCommentService_ListComments_VisibilityFilter(t *testing.T) {
	t.Parallel()
	db := setupServiceTestDB(t)
	_, post := seedUserAndPost(t, db)
	svc := newCommentService(db)
	ctx := context.Background()

	mk := func(email string, status models.ModerationStatus, reported bool, rating float64) {
		u := models.User{Email: email, Password: "pw"}
		require.NoError(t, db.Create(&u).Error)
		require.NoError(t, db.Create(&models.Comment{
			PostID: post.ID, UserID: u.ID, Rating: rating,
			Status: status, IsReport: reported,
		}).Error)
	}
	mk("a@example.com", models.StatusApproved, false, 5)
	mk("b@example.com", models.StatusPending, false, 1)
	mk("c@example.com", models.StatusApproved, true, 1)
	mk("d@example.com", models.StatusRejected, false, 1)

	comments, err := svc.ListComments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.InDelta(t, 5.0, comments[0].Rating, 1e-9)
}
