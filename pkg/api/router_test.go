package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	layeh "layeh.com/radius"
	"layeh.com/radius/rfc2865"

	"github.com/marmos91/radiusauth/pkg/api/handlers"
	"github.com/marmos91/radiusauth/pkg/api/token"
	"github.com/marmos91/radiusauth/pkg/auth"
	"github.com/marmos91/radiusauth/pkg/auth/radius"
	"github.com/marmos91/radiusauth/pkg/config"
)

// wonderland accepts alice/wonderland and rejects everything else.
type wonderland struct{}

func (wonderland) Exchange(_ context.Context, p *layeh.Packet, _ string) (*layeh.Packet, error) {
	password := rfc2865.UserPassword_GetString(p)
	if rfc2865.UserName_GetString(p) == "alice" && password == "wonderland" {
		reply := p.Response(layeh.CodeAccessAccept)
		_ = rfc2865.FilterID_SetString(reply, "editors")
		return reply, nil
	}
	return p.Response(layeh.CodeAccessReject), nil
}

func newTestRouter(t *testing.T) (http.Handler, *token.Service) {
	t.Helper()

	provider := radius.NewProvider(
		&config.RadiusConfig{Server: "127.0.0.1", Secret: "testing123"},
		radius.WithOpener(func(*config.RadiusConfig) radius.Client { return wonderland{} }),
		radius.WithHostname(func() string { return "test-nas" }),
	)

	tokens, err := token.NewService(token.Config{Secret: strings.Repeat("k", 32)})
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	return NewRouter(auth.NewManager(provider), tokens), tokens
}

func login(t *testing.T, router http.Handler, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(handlers.LoginRequest{Username: username, Password: password})
	req := httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouter_LoginThenMe(t *testing.T) {
	router, _ := newTestRouter(t)

	w := login(t, router, "Alice", "wonderland")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var loginResp handlers.LoginResponse
	if err := json.NewDecoder(w.Body).Decode(&loginResp); err != nil {
		t.Fatalf("Failed to decode login response: %v", err)
	}
	if loginResp.User.Username != "Alice" || loginResp.User.Provider != radius.Name {
		t.Errorf("Unexpected user %+v", loginResp.User)
	}
	if loginResp.User.Attributes[radius.AttrFilterID] != "editors" {
		t.Errorf("Expected Filter-Id editors, got %v", loginResp.User.Attributes)
	}

	req := httptest.NewRequest("GET", "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+loginResp.AccessToken)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var me handlers.MeResponse
	if err := json.NewDecoder(w.Body).Decode(&me); err != nil {
		t.Fatalf("Failed to decode me response: %v", err)
	}
	if me.Username != "Alice" {
		t.Errorf("Expected username Alice, got %s", me.Username)
	}
}

func TestRouter_LoginRejected(t *testing.T) {
	router, _ := newTestRouter(t)

	w := login(t, router, "alice", "looking-glass")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}

	var p handlers.Problem
	if err := json.NewDecoder(w.Body).Decode(&p); err != nil {
		t.Fatalf("Failed to decode problem: %v", err)
	}
	if p.Detail != auth.MsgNoPrimary {
		t.Errorf("Expected detail %q, got %q", auth.MsgNoPrimary, p.Detail)
	}
}

func TestRouter_MeRequiresToken(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest("GET", "/api/v1/auth/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestRouter_Requests(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest("GET", "/api/v1/auth/requests", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp handlers.RequestsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(resp.Requests) != 1 || resp.Requests[0].Kind != auth.KindPassword {
		t.Errorf("Expected one password request, got %+v", resp.Requests)
	}
}

func TestRouter_HealthAndRedirect(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, path := range []string{"/health", "/health/ready"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
		if w.Code != http.StatusOK {
			t.Errorf("%s: expected status %d, got %d", path, http.StatusOK, w.Code)
		}
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	if w.Code != http.StatusTemporaryRedirect || w.Header().Get("Location") != "/health" {
		t.Errorf("Expected redirect to /health, got %d %s", w.Code, w.Header().Get("Location"))
	}
}

func TestRouter_MetricsDisabled(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestRouter_NilManager(t *testing.T) {
	tokens, err := token.NewService(token.Config{Secret: strings.Repeat("k", 32)})
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	router := NewRouter(nil, tokens)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/health/ready", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status %d, got %d", http.StatusServiceUnavailable, w.Code)
	}

	w = login(t, router, "alice", "wonderland")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}
