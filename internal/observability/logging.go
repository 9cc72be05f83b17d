package observability

import (
	"context"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

// Logger is the application-wide structured logger. It writes JSON to
// stdout so log aggregation can parse fields directly.
var Logger *slog.Logger

func init() {
	Logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// logContextKey is a type for context keys used by the logging package.
type logContextKey string

const correlationIDKey logContextKey = "correlation_id"

// NewCorrelationID creates a new unique correlation ID.
func NewCorrelationID() string {
	return uuid.NewString()
}

// WithCorrelationID returns a new context carrying the given correlation ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// CorrelationID retrieves the correlation ID from the context, if any.
func CorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok {
		return id
	}
	return ""
}
