package apiclient

import (
	"context"
	"net/url"
	"time"
)

// LoginRequest represents a login request.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// User is the identity returned with an accepted login.
type User struct {
	Username   string            `json:"username" yaml:"username"`
	Provider   string            `json:"provider" yaml:"provider"`
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// LoginResponse is the response from the login endpoint.
type LoginResponse struct {
	AccessToken string    `json:"access_token" yaml:"access_token"`
	TokenType   string    `json:"token_type" yaml:"token_type"`
	ExpiresIn   int64     `json:"expires_in" yaml:"expires_in"` // seconds
	ExpiresAt   time.Time `json:"expires_at" yaml:"expires_at"`
	User        User      `json:"user" yaml:"user"`
}

// ExpiresInDuration returns ExpiresIn as a time.Duration.
func (t *LoginResponse) ExpiresInDuration() time.Duration {
	return time.Duration(t.ExpiresIn) * time.Second
}

// Field describes one credential field.
type Field struct {
	Name      string `json:"name" yaml:"name"`
	Type      string `json:"type" yaml:"type"`
	Label     string `json:"label" yaml:"label"`
	Optional  bool   `json:"optional,omitempty" yaml:"optional,omitempty"`
	Sensitive bool   `json:"sensitive,omitempty" yaml:"sensitive,omitempty"`
}

// Request is one credential request and its fields.
type Request struct {
	Kind   string  `json:"kind" yaml:"kind"`
	Fields []Field `json:"fields" yaml:"fields"`
}

// RequestsResponse lists the credential requests for an action.
type RequestsResponse struct {
	Action   string    `json:"action" yaml:"action"`
	Requests []Request `json:"requests" yaml:"requests"`
}

// Identity is the identity behind a bearer token.
type Identity struct {
	Username  string    `json:"username" yaml:"username"`
	Provider  string    `json:"provider" yaml:"provider"`
	ExpiresAt time.Time `json:"expires_at" yaml:"expires_at"`
}

// Login authenticates with the server and returns an access token.
// A refused login is an *APIError with IsAuthError true.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	req := LoginRequest{
		Username: username,
		Password: password,
	}

	var resp LoginResponse
	if err := c.post(ctx, "/api/v1/auth/login", req, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// Requests lists the credential fields needed for action. An empty action
// lets the server pick its default (login).
func (c *Client) Requests(ctx context.Context, action, username string) (*RequestsResponse, error) {
	q := url.Values{}
	if action != "" {
		q.Set("action", action)
	}
	if username != "" {
		q.Set("username", username)
	}

	path := "/api/v1/auth/requests"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp RequestsResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Me returns the identity behind the client's token.
func (c *Client) Me(ctx context.Context) (*Identity, error) {
	var resp Identity
	if err := c.get(ctx, "/api/v1/auth/me", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Health checks server liveness.
func (c *Client) Health(ctx context.Context) error {
	return c.get(ctx, "/health", nil)
}
