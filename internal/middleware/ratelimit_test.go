package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitKeying(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	t.Run("authenticated requests key by user", func(t *testing.T) {
		app := fiber.New()
		app.Get("/limited",
			func(c *fiber.Ctx) error {
				c.Locals("userID", uint(42))
				return c.Next()
			},
			RateLimit(rdb, 2, time.Minute, "login"),
			func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) },
		)

		for i := 0; i < 2; i++ {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/limited", nil))
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
		}
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/limited", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

		assert.True(t, mr.Exists("rl:login:u42"))
	})

	t.Run("anonymous requests key by ip", func(t *testing.T) {
		app := fiber.New()
		app.Get("/limited",
			RateLimit(rdb, 5, time.Minute, "signup"),
			func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) },
		)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/limited", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		assert.False(t, mr.Exists("rl:signup:u42"))
		assert.True(t, mr.Exists("rl:signup:0.0.0.0"))
	})
}
