package mcp

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// headerEcho records the headers of the last request.
func headerEcho(t *testing.T) (*httptest.Server, *http.Header) {
	t.Helper()
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func TestHTTPClient_NoneConfigured(t *testing.T) {
	c, err := ServerConfig{Name: "plain"}.httpClient()
	if err != nil {
		t.Fatalf("httpClient: %v", err)
	}
	if c != nil {
		t.Error("expected nil client without headers or auth")
	}
}

func TestHTTPClient_StaticHeaders(t *testing.T) {
	srv, got := headerEcho(t)

	c, err := ServerConfig{Headers: map[string]string{"X-Api-Key": "secret"}}.httpClient()
	if err != nil {
		t.Fatalf("httpClient: %v", err)
	}
	resp, err := c.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()

	if got.Get("X-Api-Key") != "secret" {
		t.Errorf("X-Api-Key = %q", got.Get("X-Api-Key"))
	}
}

func TestHTTPClient_OAuthClientCredentials(t *testing.T) {
	var tokenRequests atomic.Int32
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenRequests.Add(1)
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		if r.Form.Get("grant_type") != "client_credentials" {
			t.Errorf("grant_type = %q", r.Form.Get("grant_type"))
		}
		if r.Form.Get("scope") != "tools:read tools:call" {
			t.Errorf("scope = %q", r.Form.Get("scope"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-123","token_type":"Bearer","expires_in":3600}`))
	}))
	defer tokenSrv.Close()

	srv, got := headerEcho(t)

	c, err := ServerConfig{
		Headers: map[string]string{"X-Tenant": "courses"},
		Auth: AuthConfig{
			Type:         AuthOAuthClientCredentials,
			TokenURL:     tokenSrv.URL,
			ClientID:     "coursebot",
			ClientSecret: "s3cret",
			Scopes:       []string{"tools:read", "tools:call"},
		},
	}.httpClient()
	if err != nil {
		t.Fatalf("httpClient: %v", err)
	}

	for i := 0; i < 2; i++ {
		resp, err := c.Get(srv.URL)
		if err != nil {
			t.Fatalf("GET: %v", err)
		}
		resp.Body.Close()
	}

	if got.Get("Authorization") != "Bearer tok-123" {
		t.Errorf("Authorization = %q", got.Get("Authorization"))
	}
	if got.Get("X-Tenant") != "courses" {
		t.Errorf("static header lost: %q", got.Get("X-Tenant"))
	}
	if n := tokenRequests.Load(); n != 1 {
		t.Errorf("token requests = %d, want 1 (cached)", n)
	}
}

func TestHTTPClient_UnsupportedAuth(t *testing.T) {
	if _, err := (ServerConfig{Auth: AuthConfig{Type: "kerberos"}}).httpClient(); err == nil {
		t.Error("expected error for unsupported auth type")
	}
}
