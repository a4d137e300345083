package repository

import (
	"context"
	"regexp"
	"testing"

	"nhatro/internal/cache"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_ExistsForPostAndUser(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	t.Run("Exists", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "comments" WHERE post_id = $1 AND user_id = $2`)).
			WithArgs(1, 2).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.ExistsForPostAndUser(ctx, 1, 2)
		assert.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Absent", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "comments" WHERE post_id = $1 AND user_id = $2`)).
			WithArgs(1, 3).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		exists, err := repo.ExistsForPostAndUser(ctx, 1, 3)
		assert.NoError(t, err)
		assert.False(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCommentRepository_ListVisibleByPost(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "comments" WHERE post_id = $1 AND status = $2 AND is_report = $3`)).
		WithArgs(1, "approved", false).
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_id", "user_id", "rating", "comment"}).
			AddRow(1, 1, 101, 4.0, "Great location").
			AddRow(2, 1, 102, 3.0, "A bit noisy"))

	// Preload User for each comment
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" IN ($1,$2)`)).
		WithArgs(101, 102).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}).
			AddRow(101, "a@example.com").
			AddRow(102, "b@example.com"))

	comments, err := repo.ListVisibleByPost(ctx, 1)
	assert.NoError(t, err)
	assert.Len(t, comments, 2)
	assert.Equal(t, "Great location", comments[0].Comment)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_ListVisibleByPostCached(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()
	mr := setupRepoCache(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "comments" WHERE post_id = $1 AND status = $2 AND is_report = $3`)).
		WithArgs(2, "approved", false).
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_id", "user_id", "rating", "comment"}).
			AddRow(3, 2, 101, 5.0, "Would rent again"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
		WithArgs(101).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}).AddRow(101, "a@example.com"))

	first, err := repo.ListVisibleByPost(ctx, 2)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.True(t, mr.Exists(cache.CommentsKey(2)))

	// No second query is queued: this read must hit the cache.
	second, err := repo.ListVisibleByPost(ctx, 2)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].Comment, second[0].Comment)
	assert.NoError(t, mock.ExpectationsWereMet())

	// Comment mutations drop the key along with the post row.
	cache.InvalidatePost(ctx, 2)
	assert.False(t, mr.Exists(cache.CommentsKey(2)))
}

func TestRecomputePostRating(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "posts" SET "avg_rating"=(SELECT AVG(rating) FROM comments WHERE comments.post_id = $1) WHERE id = $2`)).
		WithArgs(1, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := RecomputePostRating(db, 1)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
