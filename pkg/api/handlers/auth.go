package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/marmos91/radiusauth/internal/logger"
	"github.com/marmos91/radiusauth/pkg/api/middleware"
	"github.com/marmos91/radiusauth/pkg/api/token"
	"github.com/marmos91/radiusauth/pkg/auth"
)

// Authenticator is the part of auth.Manager the handlers use.
type Authenticator interface {
	BeginAuthentication(ctx context.Context, reqs []auth.AuthenticationRequest) *auth.Response
	AuthenticationRequests(action auth.Action, opts auth.RequestOptions) []auth.AuthenticationRequest
}

// AuthHandler handles authentication-related API endpoints.
type AuthHandler struct {
	authenticator Authenticator
	tokens        *token.Service
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authenticator Authenticator, tokens *token.Service) *AuthHandler {
	return &AuthHandler{
		authenticator: authenticator,
		tokens:        tokens,
	}
}

// LoginRequest is the request body for POST /api/v1/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the response body for POST /api/v1/auth/login.
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        UserResponse `json:"user"`
}

// UserResponse describes the authenticated user.
type UserResponse struct {
	Username   string            `json:"username"`
	Provider   string            `json:"provider"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// RequestsResponse is the response body for GET /api/v1/auth/requests.
type RequestsResponse struct {
	Action   auth.Action       `json:"action"`
	Requests []RequestResponse `json:"requests"`
}

// RequestResponse describes one credential request.
type RequestResponse struct {
	Kind   string       `json:"kind"`
	Fields []auth.Field `json:"fields"`
}

// MeResponse is the response body for GET /api/v1/auth/me.
type MeResponse struct {
	Username  string    `json:"username"`
	Provider  string    `json:"provider"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login handles POST /api/v1/auth/login.
// Runs the credentials through the primary providers and returns an access
// token on success. Failed and unanswered logins both yield 401 with the
// response's message key as detail.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	ctx := r.Context()
	resp := h.authenticator.BeginAuthentication(ctx, []auth.AuthenticationRequest{
		&auth.PasswordRequest{Action: auth.ActionLogin, Username: req.Username, Password: req.Password},
	})

	if !resp.Passed() {
		args := []any{
			logger.KeyUsername, req.Username,
			logger.KeyOutcome, resp.Status.String(),
		}
		if resp.Err != nil {
			args = append(args, logger.KeyError, resp.Err)
		}
		logger.InfoCtx(ctx, "Login refused", args...)
		Unauthorized(w, resp.Message)
		return
	}

	tok, err := h.tokens.Issue(resp)
	if err != nil {
		logger.ErrorCtx(ctx, "Failed to issue token", logger.KeyUsername, resp.Username, logger.KeyError, err)
		InternalServerError(w, "Failed to generate token")
		return
	}

	WriteJSONOK(w, LoginResponse{
		AccessToken: tok.AccessToken,
		TokenType:   tok.TokenType,
		ExpiresIn:   tok.ExpiresIn,
		ExpiresAt:   tok.ExpiresAt,
		User: UserResponse{
			Username:   resp.Username,
			Provider:   resp.Provider,
			Attributes: resp.Attributes,
		},
	})
}

// Requests handles GET /api/v1/auth/requests?action=login.
// Lists the credential fields the providers need for an action.
// The action defaults to login.
func (h *AuthHandler) Requests(w http.ResponseWriter, r *http.Request) {
	action := auth.ActionLogin
	if raw := r.URL.Query().Get("action"); raw != "" {
		parsed, err := auth.ParseAction(raw)
		if err != nil {
			BadRequest(w, err.Error())
			return
		}
		action = parsed
	}

	opts := auth.RequestOptions{Username: r.URL.Query().Get("username")}
	reqs := h.authenticator.AuthenticationRequests(action, opts)

	out := RequestsResponse{Action: action, Requests: make([]RequestResponse, 0, len(reqs))}
	for _, req := range reqs {
		out.Requests = append(out.Requests, RequestResponse{Kind: req.Kind(), Fields: req.Fields()})
	}
	WriteJSONOK(w, out)
}

// Me handles GET /api/v1/auth/me.
// Returns the identity carried by the bearer token.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r.Context())
	if claims == nil {
		Unauthorized(w, "Authentication required")
		return
	}

	resp := MeResponse{
		Username: claims.Username,
		Provider: claims.Provider,
	}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.Time
	}
	WriteJSONOK(w, resp)
}
