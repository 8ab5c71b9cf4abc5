package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIsAllowedOrigin(t *testing.T) {
	tests := map[string]bool{
		"http://localhost:3000":         true,
		"http://192.168.1.1:7777":       true,
		"http://10.0.0.1":               true,
		"http://127.0.0.1:3000":         true,
		"http://[::1]:3000":             true,
		"http://mynas.local":            true,
		"http://mediaserver:7777":       true,
		"https://nebula.example.com":    false,
		"http://image.tmdb.org.evil.io": false,
		"http://8.8.8.8":                false,
		"":                              false,
		"not-a-url":                     false,
	}
	for origin, want := range tests {
		if got := IsAllowedOrigin(origin); got != want {
			t.Errorf("IsAllowedOrigin(%q) = %v, want %v", origin, got, want)
		}
	}
}

func TestOriginPolicy(t *testing.T) {
	policy := NewOriginPolicy([]string{" https://Nebula.example.com/ ", ""})
	if !policy.Allows("https://nebula.example.com") {
		t.Error("expected configured origin to be allowed")
	}
	if policy.Allows("https://other.example.com") {
		t.Error("expected unknown public origin to be rejected")
	}
	if !policy.Allows("http://localhost:5173") {
		t.Error("expected local origin to be allowed")
	}

	wildcard := NewOriginPolicy([]string{"*"})
	if !wildcard.Allows("https://anything.example.org") {
		t.Error("expected wildcard to allow any origin")
	}
	if wildcard.Allows("") {
		t.Error("expected empty origin to be rejected")
	}
}

func TestRouterPreflightAndHealth(t *testing.T) {
	r := NewRouter([]string{"https://nebula.example.com"})

	req := httptest.NewRequest(http.MethodOptions, "/health", nil)
	req.Header.Set("Origin", "https://nebula.example.com")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for preflight, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://nebula.example.com" {
		t.Fatalf("unexpected allow-origin %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != `{"status":"ok"}` {
		t.Fatalf("unexpected health response %d %q", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no allow-origin for rejected origin, got %q", got)
	}
}
