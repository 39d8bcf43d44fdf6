package middleware

import (
	"log/slog"
	"time"

	"chatter/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// RequestLogging logs one structured line per request with latency, status,
// and correlation identifiers.
func RequestLogging() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		attrs := []any{
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", c.Response().StatusCode()),
			slog.Duration("latency", time.Since(start)),
			slog.String("ip", c.IP()),
		}
		if requestID, ok := c.Locals("requestid").(string); ok {
			attrs = append(attrs, slog.String("request_id", requestID))
		}
		if traceID, ok := c.Locals("traceID").(string); ok {
			attrs = append(attrs, slog.String("trace_id", traceID))
		}
		if userID, ok := c.Locals("userID").(uint); ok {
			attrs = append(attrs, slog.Uint64("user_id", uint64(userID)))
		}

		logger := observability.GlobalLogger
		switch {
		case c.Response().StatusCode() >= 500:
			logger.Error("request", attrs...)
		case c.Response().StatusCode() >= 400:
			logger.Warn("request", attrs...)
		default:
			logger.Info("request", attrs...)
		}

		return err
	}
}
