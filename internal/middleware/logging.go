package middleware

import (
	"log/slog"
	"time"

	"inkwell/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// StructuredLogger returns a Fiber middleware for logging requests using slog
func StructuredLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		correlationID := observability.NewCorrelationID()
		c.Locals("correlationID", correlationID)

		// Process request
		err := c.Next()

		// Log details after request is handled
		status := c.Response().StatusCode()
		latency := time.Since(start)

		fields := []any{
			slog.Int("status", status),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("ip", c.IP()),
			slog.Duration("latency", latency),
			slog.String("correlation_id", correlationID),
		}

		if uid := c.Locals("userID"); uid != nil {
			fields = append(fields, slog.Any("user_id", uid))
		}

		if rid := c.Locals("requestid"); rid != nil {
			fields = append(fields, slog.Any("request_id", rid))
		}

		if err != nil {
			fields = append(fields, slog.String("error", err.Error()))
			observability.Logger.Error("request failed", fields...)
		} else {
			observability.Logger.Info("request processed", fields...)
		}

		return err
	}
}
