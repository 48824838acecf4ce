package middlewares

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/utils"
)

// RequestContext: Request-ID + timeout guard (selaras dengan statement_timeout di DB) + timing.
func RequestContext(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = utils.UUID()
		}
		c.Set("X-Request-ID", id)
		c.Locals("reqid", id)
		start := time.Now()

		ctx, cancel := context.WithTimeout(c.Context(), timeout)
		defer cancel()
		c.SetUserContext(ctx)

		err := c.Next()
		log.Printf("[REQ] id=%s %s %s status=%d dur=%s", id, c.Method(), c.OriginalURL(), c.Response().StatusCode(), time.Since(start))
		return err
	}
}
