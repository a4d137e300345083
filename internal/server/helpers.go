package server

import (
	"strconv"
	"strings"

	"nhatro/internal/models"

	"github.com/gofiber/fiber/v2"
)

// parseID parses a numeric route parameter and writes the failure
// response itself; callers return nil when ok is false.
func parseID(c *fiber.Ctx, param string) (uint, bool) {
	raw := c.Params(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		_ = models.RespondWithError(c, models.NewInvalidArgumentError(
			"Invalid "+humanizeParam(param)))
		return 0, false
	}
	return uint(id), true
}

func humanizeParam(param string) string {
	switch param {
	case "postId":
		return "post ID"
	case "id":
		return "ID"
	default:
		return strings.ToLower(param)
	}
}

// queryInt reads an integer query parameter, falling back when absent
// or unparseable.
func queryInt(c *fiber.Ctx, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// optString returns a pointer to the query value, or nil when the
// parameter is absent or blank. Filter structs use nil to mean
// "no constraint".
func optString(c *fiber.Ctx, name string) *string {
	v := strings.TrimSpace(c.Query(name))
	if v == "" {
		return nil
	}
	return &v
}

func optInt(c *fiber.Ctx, name string) *int {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}

func queryBool(c *fiber.Ctx, name string) bool {
	v := strings.ToLower(c.Query(name))
	return v == "true" || v == "1"
}

// success writes the standard success envelope. Extra keys from data
// are merged next to status and message.
func success(c *fiber.Ctx, status int, message string, data fiber.Map) error {
	payload := fiber.Map{
		"status":  "success",
		"message": message,
	}
	for k, v := range data {
		payload[k] = v
	}
	return c.Status(status).JSON(payload)
}
