package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/marmos91/radiusauth/internal/logger"
	"github.com/marmos91/radiusauth/internal/telemetry"
	"github.com/marmos91/radiusauth/pkg/api/handlers"
	apiMiddleware "github.com/marmos91/radiusauth/pkg/api/middleware"
	"github.com/marmos91/radiusauth/pkg/api/token"
	"github.com/marmos91/radiusauth/pkg/auth"
	"github.com/marmos91/radiusauth/pkg/metrics"
)

// requestTimeout bounds every request. It must exceed the RADIUS exchange
// deadline or logins are cut short.
const requestTimeout = 60 * time.Second

// NewRouter creates and configures the chi router with all middleware and routes.
//
// The router is configured with:
//   - Request ID middleware for request tracking
//   - Real IP extraction for proper client identification
//   - Custom request logging using the internal logger
//   - Panic recovery to prevent server crashes
//   - Request timeout to prevent hung requests
//
// Routes:
//   - GET /health - Liveness probe
//   - GET /health/ready - Readiness probe
//   - GET /api/v1/auth/requests - Credential fields needed for an action
//   - POST /api/v1/auth/login - Authenticate and obtain an access token
//   - GET /api/v1/auth/me - Identity behind a bearer token
//   - GET /metrics - Prometheus metrics (only when metrics are enabled)
func NewRouter(manager *auth.Manager, tokens *token.Service) http.Handler {
	r := chi.NewRouter()

	// Middleware stack - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(apiMiddleware.NewHTTPMetrics(metrics.Registerer()).Instrument)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	healthHandler := handlers.NewHealthHandler(manager)

	// Health routes - unauthenticated
	r.Route("/health", func(r chi.Router) {
		r.Get("/", healthHandler.Liveness)
		r.Get("/ready", healthHandler.Readiness)
	})

	// Root redirect to health for convenience
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/health", http.StatusTemporaryRedirect)
	})

	if metrics.IsEnabled() {
		r.Handle("/metrics", metrics.Handler())
	}

	authenticator := manager
	if authenticator == nil {
		authenticator = auth.NewManager()
	}
	authHandler := handlers.NewAuthHandler(authenticator, tokens)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			// Public endpoints
			r.Get("/requests", authHandler.Requests)
			r.Post("/login", authHandler.Login)

			// Authenticated endpoint
			r.Group(func(r chi.Router) {
				r.Use(apiMiddleware.JWTAuth(tokens))
				r.Get("/me", authHandler.Me)
			})
		})
	})

	return r
}

// requestLogger is a custom middleware that logs requests using the internal logger.
//
// It also attaches a LogContext and a trace span to the request context, so
// handler and provider logs carry the request ID and client address.
//
// It logs:
//   - Request start (DEBUG level): method, path, remote addr
//   - Request completion (INFO level): method, path, status, duration
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := middleware.GetReqID(r.Context())

		ctx, span := telemetry.StartSpan(r.Context(), "http "+r.Method+" "+r.URL.Path)
		defer span.End()
		span.SetAttributes(
			telemetry.HTTPRequestID(requestID),
			telemetry.ClientIP(r.RemoteAddr))

		lc := logger.NewLogContext(r.RemoteAddr).
			WithRequestID(requestID).
			WithTrace(telemetry.TraceID(ctx), telemetry.SpanID(ctx))
		ctx = logger.WithContext(ctx, lc)
		r = r.WithContext(ctx)

		logger.DebugCtx(ctx, "API request started",
			"method", r.Method,
			"path", r.URL.Path,
		)

		// Wrap response writer to capture status code
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		if rctx := chi.RouteContext(ctx); rctx != nil {
			span.SetAttributes(telemetry.HTTPRoute(rctx.RoutePattern()))
		}

		logger.InfoCtx(ctx, "API request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			logger.KeyDurationMs, logger.Duration(start),
		)
	})
}
