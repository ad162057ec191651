package observability

import (
	"log/slog"
	"os"
	"time"

	"github.com/lithammer/shortuuid/v4"
)

const (
	// LogFieldRequestID is the field name for request ID.
	LogFieldRequestID = "request_id"
	// LogFieldUserID is the field name for user ID.
	LogFieldUserID = "user_id"
	// LogFieldRole is the field name for the principal role.
	LogFieldRole = "role"
	// LogFieldView is the field name for the dashboard view being built.
	LogFieldView = "view"
	// LogFieldCacheKey is the field name for the cache key in play.
	LogFieldCacheKey = "cache_key"
	// LogFieldMutation is the field name for a mutation name.
	LogFieldMutation = "mutation"
	// LogFieldDuration is the field name for duration in milliseconds.
	LogFieldDuration = "duration_ms"
)

// NewLogger builds the process-wide structured logger. Dev mode gets text
// output at debug level, prod gets JSON at info level.
func NewLogger(dev bool) *slog.Logger {
	var handler slog.Handler
	if dev {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return slog.New(handler)
}

// RequestContext carries per-request logging state.
type RequestContext struct {
	RequestID string
	UserID    int32
	StartTime time.Time
	Logger    *slog.Logger
}

// NewRequestContext creates a request context with a generated request ID.
func NewRequestContext(logger *slog.Logger, userID int32) *RequestContext {
	requestID := shortuuid.New()
	return &RequestContext{
		RequestID: requestID,
		UserID:    userID,
		StartTime: time.Now(),
		Logger: logger.With(
			slog.String(LogFieldRequestID, requestID),
			slog.Int(LogFieldUserID, int(userID)),
		),
	}
}

// DurationMS returns elapsed milliseconds since the request started.
func (rc *RequestContext) DurationMS() int64 {
	return time.Since(rc.StartTime).Milliseconds()
}
