package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys recorded on authentication spans.
// Passwords and shared secrets are never recorded.
const (
	// ========================================================================
	// Client attributes
	// ========================================================================
	AttrClientIP   = "client.ip"
	AttrClientAddr = "client.address"

	// ========================================================================
	// Authentication attributes (provider-agnostic)
	// ========================================================================
	AttrAuthAction   = "auth.action"   // login, create, change, ...
	AttrAuthProvider = "auth.provider" // Provider that produced the response
	AttrAuthOutcome  = "auth.outcome"  // pass, fail, abstain
	AttrAuthMessage  = "auth.message"  // Message key of a failed response
	AttrUsername     = "user.name"

	// ========================================================================
	// RADIUS attributes
	// ========================================================================
	AttrRadiusServer   = "radius.server"
	AttrRadiusNASID    = "radius.nas_identifier"
	AttrRadiusCode     = "radius.code"
	AttrRadiusMaxTries = "radius.max_tries"
	AttrRadiusTimeout  = "radius.timeout_ms"

	// ========================================================================
	// HTTP API attributes
	// ========================================================================
	AttrHTTPRoute     = "http.route"
	AttrHTTPRequestID = "http.request_id"
)

// Span names.
// Format: <component>.<operation>
const (
	SpanAuthBegin    = "auth.begin"
	SpanAuthCreate   = "auth.create"
	SpanRadiusAccess = "radius.access_request"
)

// ClientIP returns an attribute for client IP address
func ClientIP(ip string) attribute.KeyValue {
	return attribute.String(AttrClientIP, ip)
}

// ClientAddr returns an attribute for full client address
func ClientAddr(addr string) attribute.KeyValue {
	return attribute.String(AttrClientAddr, addr)
}

// AuthAction returns an attribute for the authentication action
func AuthAction(action string) attribute.KeyValue {
	return attribute.String(AttrAuthAction, action)
}

// AuthProvider returns an attribute for the provider name
func AuthProvider(name string) attribute.KeyValue {
	return attribute.String(AttrAuthProvider, name)
}

// AuthOutcome returns an attribute for the response status
func AuthOutcome(outcome string) attribute.KeyValue {
	return attribute.String(AttrAuthOutcome, outcome)
}

// AuthMessage returns an attribute for the failure message key
func AuthMessage(key string) attribute.KeyValue {
	return attribute.String(AttrAuthMessage, key)
}

// Username returns an attribute for username
func Username(name string) attribute.KeyValue {
	return attribute.String(AttrUsername, name)
}

// RadiusServer returns an attribute for the RADIUS server address
func RadiusServer(addr string) attribute.KeyValue {
	return attribute.String(AttrRadiusServer, addr)
}

// RadiusNASIdentifier returns an attribute for the NAS-Identifier sent
func RadiusNASIdentifier(id string) attribute.KeyValue {
	return attribute.String(AttrRadiusNASID, id)
}

// RadiusCode returns an attribute for the reply packet code
func RadiusCode(code string) attribute.KeyValue {
	return attribute.String(AttrRadiusCode, code)
}

// RadiusMaxTries returns an attribute for the retransmission budget
func RadiusMaxTries(n int) attribute.KeyValue {
	return attribute.Int(AttrRadiusMaxTries, n)
}

// RadiusTimeoutMs returns an attribute for the per-try timeout
func RadiusTimeoutMs(ms int64) attribute.KeyValue {
	return attribute.Int64(AttrRadiusTimeout, ms)
}

// HTTPRoute returns an attribute for the matched route pattern
func HTTPRoute(route string) attribute.KeyValue {
	return attribute.String(AttrHTTPRoute, route)
}

// HTTPRequestID returns an attribute for the request ID
func HTTPRequestID(id string) attribute.KeyValue {
	return attribute.String(AttrHTTPRequestID, id)
}

// StartAuthSpan starts a span for an authentication manager operation.
func StartAuthSpan(ctx context.Context, name, action string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{
		AuthAction(action),
	}
	allAttrs = append(allAttrs, attrs...)

	return StartSpan(ctx, name, trace.WithAttributes(allAttrs...))
}

// StartRadiusSpan starts a client span for one RADIUS exchange.
func StartRadiusSpan(ctx context.Context, server string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{
		RadiusServer(server),
	}
	allAttrs = append(allAttrs, attrs...)

	return StartSpan(ctx, SpanRadiusAccess,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(allAttrs...))
}
