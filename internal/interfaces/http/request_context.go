package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RequestContext deja en c.UserContext() un contexto cancelable con deadline para
// que los casos de uso y el motor corten el trabajo de la petición. Con timeout <= 0
// solo se cancela al terminar el handler.
func RequestContext(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var (
			ctx    context.Context
			cancel context.CancelFunc
		)
		if timeout > 0 {
			ctx, cancel = context.WithTimeout(c.UserContext(), timeout)
		} else {
			ctx, cancel = context.WithCancel(c.UserContext())
		}
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}
