package logger

import (
	"log/slog"
	"strings"
)

// Standard field keys for structured logging.
// Use these keys consistently so log aggregation can query across components.
const (
	// ========================================================================
	// Distributed Tracing
	// ========================================================================
	KeyTraceID = "trace_id" // OpenTelemetry trace ID for request correlation
	KeySpanID  = "span_id"  // OpenTelemetry span ID for operation tracking

	// ========================================================================
	// Request
	// ========================================================================
	KeyRequestID = "request_id" // HTTP request ID or CLI invocation ID
	KeyClientIP  = "client_ip"  // Client IP address
	KeyAction    = "action"     // Authentication action: login, change, create, ...

	// ========================================================================
	// Authentication
	// ========================================================================
	KeyProvider = "provider" // Primary provider name
	KeyUsername = "username" // Canonical or supplied username (never the password)
	KeyOutcome  = "outcome"  // pass, fail, abstain
	KeyReason   = "reason"   // Machine-readable failure reason

	// ========================================================================
	// RADIUS
	// ========================================================================
	KeyServer        = "server"         // RADIUS server host:port
	KeyNASIdentifier = "nas_identifier" // NAS-Identifier attribute sent
	KeyCode          = "code"           // RADIUS response code
	KeyTimeout       = "timeout"        // Per-try timeout
	KeyMaxTries      = "max_tries"      // Configured retry budget

	// ========================================================================
	// Operation Metadata
	// ========================================================================
	KeyDurationMs = "duration_ms" // Operation duration in milliseconds
	KeyError      = "error"       // Error message
	KeyField      = "field"       // Configuration field name
	KeyComponent  = "component"   // Subsystem emitting the record
)

// redacted replaces the value of sensitive attributes.
const redacted = "[REDACTED]"

// sensitiveKeys are attribute keys whose values must never be written.
var sensitiveKeys = []string{"password", "secret", "token"}

// IsSensitiveKey reports whether an attribute key names a credential.
func IsSensitiveKey(key string) bool {
	k := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(k, s) {
			return true
		}
	}
	return false
}

// redactAttr is installed as slog.HandlerOptions.ReplaceAttr.
func redactAttr(_ []string, a slog.Attr) slog.Attr {
	if IsSensitiveKey(a.Key) {
		return slog.String(a.Key, redacted)
	}
	return a
}

// ============================================================================
// Field constructors for type safety
// ============================================================================

// RequestID returns a slog.Attr for a request identifier
func RequestID(id string) slog.Attr {
	return slog.String(KeyRequestID, id)
}

// ClientIP returns a slog.Attr for client IP address
func ClientIP(addr string) slog.Attr {
	return slog.String(KeyClientIP, addr)
}

// Provider returns a slog.Attr for the primary provider name
func Provider(name string) slog.Attr {
	return slog.String(KeyProvider, name)
}

// Username returns a slog.Attr for a username
func Username(name string) slog.Attr {
	return slog.String(KeyUsername, name)
}

// Outcome returns a slog.Attr for an authentication outcome
func Outcome(outcome string) slog.Attr {
	return slog.String(KeyOutcome, outcome)
}

// Reason returns a slog.Attr for a failure reason
func Reason(reason string) slog.Attr {
	return slog.String(KeyReason, reason)
}

// Server returns a slog.Attr for a RADIUS server address
func Server(addr string) slog.Attr {
	return slog.String(KeyServer, addr)
}

// DurationMs returns a slog.Attr for duration in milliseconds
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}

// Err returns a slog.Attr for an error (handles nil)
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
