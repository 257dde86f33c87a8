package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	client := New("http://localhost:8080/")
	assert.NotNil(t, client)
	assert.Equal(t, "http://localhost:8080", client.baseURL)
	assert.Equal(t, DefaultTimeout, client.httpClient.Timeout)
}

func TestWithToken(t *testing.T) {
	client := New("http://localhost:8080")
	tokenClient := client.WithToken("test-token")

	// Original client should not have token
	assert.Empty(t, client.token)

	assert.Equal(t, "test-token", tokenClient.token)
	assert.Equal(t, "http://localhost:8080", tokenClient.baseURL)
}

func TestWithHTTPClient(t *testing.T) {
	hc := &http.Client{Timeout: time.Second}
	client := New("http://localhost:8080").WithToken("t").WithHTTPClient(hc)

	assert.Same(t, hc, client.httpClient)
	assert.Equal(t, "t", client.token)
}

func TestDoWithSuccess(t *testing.T) {
	type Response struct {
		Message string `json:"message"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Content-Type"), "GET carries no body")
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(Response{Message: "success"})
	}))
	defer server.Close()

	client := New(server.URL)

	var resp Response
	err := client.get(context.Background(), "/test", &resp)
	require.NoError(t, err)
	assert.Equal(t, "success", resp.Message)
}

func TestDoWithAuthHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(server.URL).WithToken("test-token")
	err := client.get(context.Background(), "/test", nil)
	require.NoError(t, err)
}

func TestDoWithProblemResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type":"about:blank","title":"Unauthorized","status":401,"detail":"authmanager-authn-no-primary"}`))
	}))
	defer server.Close()

	client := New(server.URL)
	err := client.get(context.Background(), "/test", nil)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Unauthorized", apiErr.Title)
	assert.Equal(t, "authmanager-authn-no-primary", apiErr.Detail)
	assert.True(t, apiErr.IsAuthError())
	assert.False(t, apiErr.IsValidationError())
	assert.Equal(t, "Unauthorized (401): authmanager-authn-no-primary", apiErr.Error())
}

func TestDoWithPlainTextError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
	}))
	defer server.Close()

	err := New(server.URL).get(context.Background(), "/test", nil)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Unauthorized", apiErr.Title)
	assert.Equal(t, "Invalid or expired token", apiErr.Detail)
}

func TestDoWithPost(t *testing.T) {
	type Request struct {
		Name string `json:"name"`
	}
	type Response struct {
		ID int `json:"id"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req Request
		_ = json.NewDecoder(r.Body).Decode(&req)
		assert.Equal(t, "test", req.Name)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(Response{ID: 123})
	}))
	defer server.Close()

	client := New(server.URL)

	var resp Response
	err := client.post(context.Background(), "/test", Request{Name: "test"}, &resp)
	require.NoError(t, err)
	assert.Equal(t, 123, resp.ID)
}

func TestDoHonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := New(server.URL).get(ctx, "/slow", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
