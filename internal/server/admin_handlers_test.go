package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"nhatro/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModerationEndpoints(t *testing.T) {
	t.Parallel()
	s, db := newTestServer(t)
	adminUser := createTestUser(t, db, "admin@example.com", true)
	owner := createTestUser(t, db, "submitter@example.com", false)
	post := createTestPost(t, db, owner.ID, models.StatusPending)

	admin := models.Actor{ID: adminUser.ID, IsAdmin: true}

	app := fiber.New()
	app.Get("/admin/posts/pending", withActor(admin, s.GetPendingPosts))
	app.Get("/admin/posts/reported", withActor(admin, s.GetReportedPosts))
	app.Post("/admin/posts/:id/approve", withActor(admin, s.ApprovePost))
	app.Post("/admin/posts/:id/reject", withActor(admin, s.RejectPost))
	app.Post("/posts/:id/report", withActor(models.Actor{ID: owner.ID}, s.ReportPost))

	t.Run("pending queue carries owner email", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/posts/pending", nil)
		resp, _ := app.Test(req)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		require.Equal(t, float64(1), body["count"])
		rows := body["posts"].([]any)
		row := rows[0].(map[string]any)
		assert.Equal(t, "submitter@example.com", row["user_email"])
	})

	t.Run("approve publishes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/admin/posts/%d/approve", post.ID), nil)
		resp, _ := app.Test(req)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var stored models.Post
		require.NoError(t, db.First(&stored, post.ID).Error)
		assert.Equal(t, models.StatusApproved, stored.Status)
		assert.False(t, stored.IsReport)
	})

	t.Run("report flags without touching status", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/posts/%d/report", post.ID), nil)
		resp, _ := app.Test(req)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var stored models.Post
		require.NoError(t, db.First(&stored, post.ID).Error)
		assert.True(t, stored.IsReport)
		assert.Equal(t, models.StatusApproved, stored.Status)
	})

	t.Run("reported queue lists it", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/posts/reported", nil)
		resp, _ := app.Test(req)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, float64(1), body["count"])
	})

	t.Run("reject keeps report flag", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/admin/posts/%d/reject", post.ID), nil)
		resp, _ := app.Test(req)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var stored models.Post
		require.NoError(t, db.First(&stored, post.ID).Error)
		assert.Equal(t, models.StatusRejected, stored.Status)
		assert.True(t, stored.IsReport)
	})

	t.Run("missing post", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin/posts/9999/approve", nil)
		resp, _ := app.Test(req)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestAdminRequired(t *testing.T) {
	t.Parallel()
	s, db := newTestServer(t)
	regular := createTestUser(t, db, "regular@example.com", false)

	app := fiber.New()
	app.Get("/admin/ping",
		withActor(models.Actor{ID: regular.ID}, func(c *fiber.Ctx) error {
			return s.AdminRequired()(c)
		}),
		func(c *fiber.Ctx) error {
			return success(c, http.StatusOK, "ok", nil)
		})

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	resp, _ := app.Test(req)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCommentModerationEndpoints(t *testing.T) {
	t.Parallel()
	s, db := newTestServer(t)
	adminUser := createTestUser(t, db, "capo@example.com", true)
	owner := createTestUser(t, db, "poster@example.com", false)
	reviewer := createTestUser(t, db, "reviewer@example.com", false)
	post := createTestPost(t, db, owner.ID, models.StatusApproved)

	comment := &models.Comment{
		PostID:  post.ID,
		UserID:  reviewer.ID,
		Rating:  4,
		Comment: "Clean room, responsive landlord",
		Status:  models.StatusPending,
	}
	require.NoError(t, db.Create(comment).Error)

	admin := models.Actor{ID: adminUser.ID, IsAdmin: true}

	app := fiber.New()
	app.Get("/admin/comments/pending", withActor(admin, s.GetPendingComments))
	app.Get("/admin/comments/reported", withActor(admin, s.GetReportedComments))
	app.Post("/admin/comments/:id/approve", withActor(admin, s.ApproveComment))
	app.Post("/comments/:id/report", withActor(models.Actor{ID: owner.ID}, s.ReportComment))

	t.Run("pending queue", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/comments/pending", nil)
		resp, _ := app.Test(req)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, float64(1), body["count"])
	})

	t.Run("approve then report", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/admin/comments/%d/approve", comment.ID), nil)
		resp, _ := app.Test(req)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		req = httptest.NewRequest(http.MethodPost, fmt.Sprintf("/comments/%d/report", comment.ID), nil)
		resp, _ = app.Test(req)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var stored models.Comment
		require.NoError(t, db.First(&stored, comment.ID).Error)
		assert.Equal(t, models.StatusApproved, stored.Status)
		assert.True(t, stored.IsReport)

		req = httptest.NewRequest(http.MethodGet, "/admin/comments/reported", nil)
		resp, _ = app.Test(req)
		body := decodeBody(t, resp)
		assert.Equal(t, float64(1), body["count"])
	})
}
