package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RequestID propagates an incoming X-Request-ID or mints a fresh one, so
// log lines from a single request can be correlated.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals("rid", rid)
		c.Set("X-Request-ID", rid)
		return c.Next()
	}
}
