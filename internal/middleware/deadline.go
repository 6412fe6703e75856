package middleware

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Deadline bounds each request with timeout and ties it to base, so that
// cancelling base aborts in-flight work. Handlers read it via c.UserContext().
func Deadline(base context.Context, timeout time.Duration) fiber.Handler {
	if base == nil {
		base = context.Background()
	}
	return func(c *fiber.Ctx) error {
		var (
			ctx    context.Context
			cancel context.CancelFunc
		)
		if timeout > 0 {
			ctx, cancel = context.WithTimeout(base, timeout)
		} else {
			ctx, cancel = context.WithCancel(base)
		}
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}
