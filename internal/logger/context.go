package logger

import (
	"context"
	"time"
)

// contextKey is a private type for context keys to avoid collisions
type contextKey struct{}

var logContextKey = contextKey{}

// LogContext holds request-scoped logging context.
//
// It never carries credentials: the username is attached per log line by the
// caller, and the password is not representable here at all.
type LogContext struct {
	TraceID   string    // OpenTelemetry trace ID
	SpanID    string    // OpenTelemetry span ID
	RequestID string    // HTTP request ID or CLI invocation ID
	ClientIP  string    // Client IP address (without port)
	Action    string    // Authentication action (login, change, create, ...)
	Provider  string    // Primary provider currently handling the request
	StartTime time.Time // For duration calculation
}

// WithContext returns a new context with the given LogContext
func WithContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, logContextKey, lc)
}

// FromContext retrieves the LogContext from context, or nil if not present
func FromContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(logContextKey).(*LogContext)
	return lc
}

// NewLogContext creates a new LogContext with the given client IP
func NewLogContext(clientIP string) *LogContext {
	return &LogContext{
		ClientIP:  clientIP,
		StartTime: time.Now(),
	}
}

// Clone creates a copy of the LogContext
func (lc *LogContext) Clone() *LogContext {
	if lc == nil {
		return nil
	}
	clone := *lc
	return &clone
}

// WithRequestID returns a copy with the request ID set
func (lc *LogContext) WithRequestID(id string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.RequestID = id
	}
	return clone
}

// WithAction returns a copy with the authentication action set
func (lc *LogContext) WithAction(action string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.Action = action
	}
	return clone
}

// WithProvider returns a copy with the provider name set
func (lc *LogContext) WithProvider(provider string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.Provider = provider
	}
	return clone
}

// WithTrace returns a copy with trace info set
func (lc *LogContext) WithTrace(traceID, spanID string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.TraceID = traceID
		clone.SpanID = spanID
	}
	return clone
}

// DurationMs returns the duration since StartTime in milliseconds
func (lc *LogContext) DurationMs() float64 {
	if lc == nil || lc.StartTime.IsZero() {
		return 0
	}
	return float64(time.Since(lc.StartTime).Microseconds()) / 1000.0
}
