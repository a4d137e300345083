package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"nhatro/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withActor(actor models.Actor, handler fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("actor", actor)
		return handler(c)
	}
}

func TestCreatePostEntersModeration(t *testing.T) {
	t.Parallel()
	s, db := newTestServer(t)
	user := createTestUser(t, db, "owner@example.com", false)

	app := fiber.New()
	app.Post("/posts", withActor(models.Actor{ID: user.ID}, s.CreatePost))

	payload := map[string]any{
		"title":    "Studio near university",
		"price":    1800000,
		"province": "Da Nang",
		"district": "Hai Chau",
	}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/posts", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, _ := app.Test(req)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var stored models.Post
	require.NoError(t, db.First(&stored).Error)
	assert.Equal(t, models.StatusPending, stored.Status)
	assert.Equal(t, user.ID, stored.UserID)

	t.Run("missing title rejected", func(t *testing.T) {
		body, _ := json.Marshal(map[string]any{"price": 100, "province": "X", "district": "Y"})
		req := httptest.NewRequest(http.MethodPost, "/posts", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestGetPostsRequiresLimit(t *testing.T) {
	t.Parallel()
	s, db := newTestServer(t)
	user := createTestUser(t, db, "lister@example.com", false)
	createTestPost(t, db, user.ID, models.StatusApproved)
	createTestPost(t, db, user.ID, models.StatusPending)

	app := fiber.New()
	app.Get("/posts", s.GetPosts)

	t.Run("limit omitted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/posts", nil)
		resp, _ := app.Test(req)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("zero limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/posts?limit=0", nil)
		resp, _ := app.Test(req)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("only approved posts returned", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/posts?limit=10", nil)
		resp, _ := app.Test(req)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, float64(1), body["count"])
	})
}

func TestSearchPostsDefaultsLimit(t *testing.T) {
	t.Parallel()
	s, db := newTestServer(t)
	user := createTestUser(t, db, "searcher@example.com", false)
	createTestPost(t, db, user.ID, models.StatusApproved)

	app := fiber.New()
	app.Get("/posts/search", s.SearchPosts)

	t.Run("limit omitted succeeds", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/posts/search", nil)
		resp, _ := app.Test(req)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, float64(1), body["count"])
	})

	t.Run("province filter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/posts/search?province=Hanoi", nil)
		resp, _ := app.Test(req)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, float64(0), body["count"])
	})

	t.Run("price range filter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/posts/search?min_price=1000000&max_price=3000000", nil)
		resp, _ := app.Test(req)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, float64(1), body["count"])
	})

	t.Run("amenity filter excludes posts without amenity record", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/posts/search?wifi=true", nil)
		resp, _ := app.Test(req)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, float64(0), body["count"])
	})
}

func TestGetPostVisibilityAndViews(t *testing.T) {
	t.Parallel()
	s, db := newTestServer(t)
	owner := createTestUser(t, db, "viewed@example.com", false)
	visible := createTestPost(t, db, owner.ID, models.StatusApproved)
	hidden := createTestPost(t, db, owner.ID, models.StatusPending)

	app := fiber.New()
	app.Get("/posts/:id", s.GetPost)

	t.Run("anonymous view bumps counter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/posts/%d", visible.ID), nil)
		resp, _ := app.Test(req)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var stored models.Post
		require.NoError(t, db.First(&stored, visible.ID).Error)
		assert.Equal(t, 1, stored.Views)
	})

	t.Run("pending post hidden from anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/posts/%d", hidden.ID), nil)
		resp, _ := app.Test(req)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("owner sees own pending post through a token", func(t *testing.T) {
		token, err := s.generateToken(owner)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/posts/%d", hidden.ID), nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, _ := app.Test(req)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		// A non-public view must not count.
		var stored models.Post
		require.NoError(t, db.First(&stored, hidden.ID).Error)
		assert.Equal(t, 0, stored.Views)
	})

	t.Run("authenticated view lands in history", func(t *testing.T) {
		viewer := createTestUser(t, db, "historian@example.com", false)
		token, err := s.generateToken(viewer)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/posts/%d", visible.ID), nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, _ := app.Test(req)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var count int64
		require.NoError(t, db.Model(&models.History{}).
			Where("user_id = ? AND post_id = ?", viewer.ID, visible.ID).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/posts/abc", nil)
		resp, _ := app.Test(req)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestUpdatePostOwnership(t *testing.T) {
	t.Parallel()
	s, db := newTestServer(t)
	owner := createTestUser(t, db, "editor@example.com", false)
	stranger := createTestUser(t, db, "stranger@example.com", false)
	post := createTestPost(t, db, owner.ID, models.StatusApproved)

	makeApp := func(actor models.Actor) *fiber.App {
		app := fiber.New()
		app.Put("/posts/:id", withActor(actor, s.UpdatePost))
		return app
	}

	t.Run("owner can edit", func(t *testing.T) {
		body, _ := json.Marshal(map[string]any{"price": 3000000})
		req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/posts/%d", post.ID), bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := makeApp(models.Actor{ID: owner.ID}).Test(req)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var stored models.Post
		require.NoError(t, db.First(&stored, post.ID).Error)
		assert.Equal(t, 3000000, stored.Price)
		assert.Equal(t, models.StatusApproved, stored.Status)
	})

	t.Run("stranger forbidden", func(t *testing.T) {
		body, _ := json.Marshal(map[string]any{"price": 1})
		req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/posts/%d", post.ID), bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := makeApp(models.Actor{ID: stranger.ID}).Test(req)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestDeletePostCascades(t *testing.T) {
	t.Parallel()
	s, db := newTestServer(t)
	owner := createTestUser(t, db, "deleter@example.com", false)
	post := createTestPost(t, db, owner.ID, models.StatusApproved)
	require.NoError(t, db.Create(&models.Favourite{UserID: owner.ID, PostID: post.ID}).Error)

	app := fiber.New()
	app.Delete("/posts/:id", withActor(models.Actor{ID: owner.ID}, s.DeletePost))

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/posts/%d", post.ID), nil)
	resp, _ := app.Test(req)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.Post{}).Where("id = ?", post.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
