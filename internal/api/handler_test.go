package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/avelis/taskhub/internal/auth"
)

// ---------------------------------------------------------------------------
// Health check handler tests
// ---------------------------------------------------------------------------

func TestHealthCheck_OK(t *testing.T) {
	handler := NewRouter(RouterDeps{AllowedOrigins: []string{"*"}})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status=ok, got %q", body["status"])
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %q", ct)
	}
}

// ---------------------------------------------------------------------------
// Well-known manifest tests
// ---------------------------------------------------------------------------

func TestWellKnownHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/.well-known/taskhub.json", nil)
	rec := httptest.NewRecorder()
	WellKnownHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %q", ct)
	}

	var manifest map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&manifest); err != nil {
		t.Fatalf("failed to decode manifest: %v", err)
	}

	requiredFields := []string{"name", "description", "version", "api_base", "auth", "endpoints", "health"}
	for _, field := range requiredFields {
		if _, ok := manifest[field]; !ok {
			t.Errorf("manifest missing required field %q", field)
		}
	}

	if name, _ := manifest["name"].(string); name != "TaskHub" {
		t.Errorf("expected name=TaskHub, got %q", name)
	}
	if apiBase, _ := manifest["api_base"].(string); apiBase != "/api/v1" {
		t.Errorf("expected api_base=/api/v1, got %q", apiBase)
	}

	authMap, ok := manifest["auth"].(map[string]interface{})
	if !ok {
		t.Fatal("auth field is not an object")
	}
	if authMap["type"] != "bearer" {
		t.Errorf("expected auth.type=bearer, got %v", authMap["type"])
	}

	endpoints, ok := manifest["endpoints"].(map[string]interface{})
	if !ok {
		t.Fatal("endpoints field is not an object")
	}
	expectedEndpoints := []string{"tasks", "projects", "teams", "tags", "users", "report"}
	for _, ep := range expectedEndpoints {
		if _, ok := endpoints[ep]; !ok {
			t.Errorf("endpoints missing %q", ep)
		}
	}
}

func TestWellKnownHandler_ViaRouter(t *testing.T) {
	handler := NewRouter(RouterDeps{AllowedOrigins: []string{"*"}})

	req := httptest.NewRequest(http.MethodGet, "/.well-known/taskhub.json", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 via router, got %d", rec.Code)
	}
}

// ---------------------------------------------------------------------------
// Auth gate integration via router
// ---------------------------------------------------------------------------

type staticLookup struct {
	identities map[string]*auth.Identity
}

func (s *staticLookup) FindIdentity(_ context.Context, id string) (*auth.Identity, error) {
	if ident, ok := s.identities[id]; ok {
		return ident, nil
	}
	return nil, fmt.Errorf("no such user")
}

func gatedRouter(t *testing.T) (http.Handler, *auth.Issuer) {
	t.Helper()

	issuer := auth.NewIssuer("test-secret", 4*time.Hour, 24*time.Hour)
	lookup := &staticLookup{identities: map[string]*auth.Identity{
		"user-1": {ID: "user-1", Name: "Dana", Email: "dana@example.com"},
	}}

	handler := NewRouter(RouterDeps{
		Auth:           auth.NewService(issuer, lookup),
		Issuer:         issuer,
		AllowedOrigins: []string{"*"},
	})
	return handler, issuer
}

func TestRouter_GateRejections(t *testing.T) {
	handler, issuer := gatedRouter(t)

	forged, err := auth.NewIssuer("other-secret", time.Hour, time.Hour).LoginToken("user-1")
	if err != nil {
		t.Fatalf("issuing forged token: %v", err)
	}
	stale, err := issuer.LoginToken("deleted-user")
	if err != nil {
		t.Fatalf("issuing stale token: %v", err)
	}

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		wantCode   string
	}{
		{"no header", "", http.StatusUnauthorized, "missing_credential"},
		{"scheme only", "Bearer", http.StatusUnauthorized, "missing_credential"},
		{"wrong scheme", "Basic abc123", http.StatusForbidden, "invalid_credential"},
		{"garbage token", "Bearer not.a.jwt", http.StatusForbidden, "invalid_credential"},
		{"forged token", "Bearer " + forged, http.StatusForbidden, "invalid_credential"},
		{"stale subject", "Bearer " + stale, http.StatusUnauthorized, "unknown_identity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rec.Code, tt.wantStatus)
			}

			var envelope errorEnvelope
			if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
				t.Fatalf("failed to decode error: %v", err)
			}
			if envelope.Error.Code != tt.wantCode {
				t.Errorf("code: got %q, want %q", envelope.Error.Code, tt.wantCode)
			}
		})
	}
}

func TestRouter_GateAdmitsValidToken(t *testing.T) {
	handler, issuer := gatedRouter(t)

	token, err := issuer.LoginToken("user-1")
	if err != nil {
		t.Fatalf("issuing token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body %s)", rec.Code, rec.Body.String())
	}

	var body struct {
		User auth.Identity `json:"user"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.User.ID != "user-1" || body.User.Email != "dana@example.com" {
		t.Errorf("unexpected identity: %+v", body.User)
	}
}

func TestRouter_InvalidPathID(t *testing.T) {
	handler, issuer := gatedRouter(t)

	token, err := issuer.LoginToken("user-1")
	if err != nil {
		t.Fatalf("issuing token: %v", err)
	}

	paths := []string{
		"/api/v1/tasks/not-a-uuid",
		"/api/v1/projects/not-a-uuid",
		"/api/v1/teams/not-a-uuid",
		"/api/v1/tags/not-a-uuid",
		"/api/v1/users/not-a-uuid",
	}

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
			}

			var envelope errorEnvelope
			if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
				t.Fatalf("failed to decode error: %v", err)
			}
			if envelope.Error.Code != "invalid_id" {
				t.Errorf("code: got %q, want %q", envelope.Error.Code, "invalid_id")
			}
		})
	}
}

// ---------------------------------------------------------------------------
// CORS middleware tests
// ---------------------------------------------------------------------------

func TestCORSMiddleware(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name            string
		allowedOrigins  []string
		requestOrigin   string
		method          string
		wantStatus      int
		wantAllowOrigin string
		wantVary        string
	}{
		{
			name:            "wildcard allows any origin",
			allowedOrigins:  []string{"*"},
			requestOrigin:   "https://example.com",
			method:          http.MethodGet,
			wantStatus:      http.StatusOK,
			wantAllowOrigin: "*",
		},
		{
			name:            "specific origin is echoed back",
			allowedOrigins:  []string{"https://app.example.com"},
			requestOrigin:   "https://app.example.com",
			method:          http.MethodGet,
			wantStatus:      http.StatusOK,
			wantAllowOrigin: "https://app.example.com",
			wantVary:        "Origin",
		},
		{
			name:            "non-matching origin gets no Allow-Origin header",
			allowedOrigins:  []string{"https://app.example.com"},
			requestOrigin:   "https://evil.com",
			method:          http.MethodGet,
			wantStatus:      http.StatusOK,
			wantAllowOrigin: "",
		},
		{
			name:            "no origin header means no CORS headers",
			allowedOrigins:  []string{"*"},
			requestOrigin:   "",
			method:          http.MethodGet,
			wantStatus:      http.StatusOK,
			wantAllowOrigin: "",
		},
		{
			name:            "preflight returns 204",
			allowedOrigins:  []string{"*"},
			requestOrigin:   "https://example.com",
			method:          http.MethodOptions,
			wantStatus:      http.StatusNoContent,
			wantAllowOrigin: "*",
		},
		{
			name:            "empty allowed origins list",
			allowedOrigins:  nil,
			requestOrigin:   "https://example.com",
			method:          http.MethodGet,
			wantStatus:      http.StatusOK,
			wantAllowOrigin: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := corsMiddleware(tt.allowedOrigins)
			handler := mw(inner)

			req := httptest.NewRequest(tt.method, "/test", nil)
			if tt.requestOrigin != "" {
				req.Header.Set("Origin", tt.requestOrigin)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rec.Code, tt.wantStatus)
			}

			gotAllowOrigin := rec.Header().Get("Access-Control-Allow-Origin")
			if gotAllowOrigin != tt.wantAllowOrigin {
				t.Errorf("Access-Control-Allow-Origin: got %q, want %q", gotAllowOrigin, tt.wantAllowOrigin)
			}

			if tt.wantVary != "" {
				if gotVary := rec.Header().Get("Vary"); gotVary != tt.wantVary {
					t.Errorf("Vary: got %q, want %q", gotVary, tt.wantVary)
				}
			}
		})
	}
}

func TestCORSMiddleware_PreflightDoesNotCallNext(t *testing.T) {
	called := false
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	mw := corsMiddleware([]string{"*"})
	handler := mw(inner)

	req := httptest.NewRequest(http.MethodOptions, "/test", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if called {
		t.Error("preflight OPTIONS should not call the next handler")
	}
}

// ---------------------------------------------------------------------------
// Secure headers middleware tests
// ---------------------------------------------------------------------------

func TestSecureHeaders(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := secureHeaders(inner)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	expectedHeaders := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"X-XSS-Protection":       "0",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	}

	for header, want := range expectedHeaders {
		if got := rec.Header().Get(header); got != want {
			t.Errorf("%s: got %q, want %q", header, got, want)
		}
	}
}

// ---------------------------------------------------------------------------
// Request ID middleware tests
// ---------------------------------------------------------------------------

func TestRequestIDMiddleware_GeneratesID(t *testing.T) {
	var capturedID string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedID = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	handler := requestIDMiddleware(inner)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	respID := rec.Header().Get("X-Request-ID")
	if respID == "" {
		t.Fatal("expected X-Request-ID response header to be set")
	}

	// Generated IDs are canonical UUID strings.
	if len(respID) != 36 || strings.Count(respID, "-") != 4 {
		t.Errorf("expected a UUID, got %q", respID)
	}

	if capturedID != respID {
		t.Errorf("context ID %q does not match response header ID %q", capturedID, respID)
	}
}

func TestRequestIDMiddleware_ForwardsExistingID(t *testing.T) {
	const existingID = "my-custom-request-id-12345"

	var capturedID string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedID = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	handler := requestIDMiddleware(inner)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-Request-ID", existingID)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if respID := rec.Header().Get("X-Request-ID"); respID != existingID {
		t.Errorf("expected forwarded ID %q, got %q", existingID, respID)
	}
	if capturedID != existingID {
		t.Errorf("context ID: expected %q, got %q", existingID, capturedID)
	}
}

func TestRequestIDFromContext_Empty(t *testing.T) {
	id := RequestIDFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	if id != "" {
		t.Errorf("expected empty string from bare context, got %q", id)
	}
}

// ---------------------------------------------------------------------------
// Login rate limiter tests
// ---------------------------------------------------------------------------

func TestLoginRateLimiter_AllowsUpToLimit(t *testing.T) {
	rl := newLoginRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		allowed, _ := rl.allow("1.2.3.4")
		if !allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	allowed, retryAfter := rl.allow("1.2.3.4")
	if allowed {
		t.Error("expected request 4 to be denied")
	}
	if retryAfter < 1 {
		t.Errorf("expected retryAfter >= 1, got %d", retryAfter)
	}
}

func TestLoginRateLimiter_SeparateIPs(t *testing.T) {
	rl := newLoginRateLimiter(2, time.Minute)

	rl.allow("10.0.0.1")
	rl.allow("10.0.0.1")

	if allowed, _ := rl.allow("10.0.0.1"); allowed {
		t.Error("IP A should be denied after 2 attempts")
	}
	if allowed, _ := rl.allow("10.0.0.2"); !allowed {
		t.Error("IP B should still be allowed")
	}
}

func TestLoginRateLimiter_WindowResets(t *testing.T) {
	rl := newLoginRateLimiter(1, 10*time.Millisecond)

	if allowed, _ := rl.allow("1.2.3.4"); !allowed {
		t.Fatal("first request should be allowed")
	}
	if allowed, _ := rl.allow("1.2.3.4"); allowed {
		t.Fatal("second request should be denied")
	}

	time.Sleep(15 * time.Millisecond)

	if allowed, _ := rl.allow("1.2.3.4"); !allowed {
		t.Error("request after window reset should be allowed")
	}
}

func TestLoginRateLimiter_Cleanup(t *testing.T) {
	rl := newLoginRateLimiter(1, 10*time.Millisecond)

	rl.allow("1.2.3.4")
	rl.allow("5.6.7.8")

	count := 0
	rl.entries.Range(func(_, _ interface{}) bool { count++; return true })
	if count != 2 {
		t.Fatalf("expected 2 entries, got %d", count)
	}

	time.Sleep(15 * time.Millisecond)
	rl.cleanup()

	count = 0
	rl.entries.Range(func(_, _ interface{}) bool { count++; return true })
	if count != 0 {
		t.Errorf("expected 0 entries after cleanup, got %d", count)
	}
}

func TestLoginRateLimiter_SweepsOnAllow(t *testing.T) {
	rl := newLoginRateLimiter(1, 10*time.Millisecond)

	rl.allow("1.2.3.4")
	time.Sleep(15 * time.Millisecond)

	// The next allow, from any IP, prunes the expired entry on its own; no
	// background goroutine or explicit cleanup call is involved.
	rl.allow("5.6.7.8")

	if _, ok := rl.entries.Load("1.2.3.4"); ok {
		t.Error("expected expired entry to be swept by allow")
	}
	if _, ok := rl.entries.Load("5.6.7.8"); !ok {
		t.Error("expected fresh entry to survive the sweep")
	}
}

func TestWithLoginRateLimit(t *testing.T) {
	rl := newLoginRateLimiter(2, time.Minute)
	handler := withLoginRateLimit(rl, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		req.RemoteAddr = "192.168.1.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	req.RemoteAddr = "192.168.1.1:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", rec.Code)
	}
	if ra := rec.Header().Get("Retry-After"); ra == "" {
		t.Error("expected Retry-After header to be set")
	}

	var envelope errorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode error: %v", err)
	}
	if envelope.Error.Code != "rate_limited" {
		t.Errorf("expected error code rate_limited, got %q", envelope.Error.Code)
	}
}

func TestWithLoginRateLimit_XForwardedFor(t *testing.T) {
	rl := newLoginRateLimiter(1, time.Minute)
	handler := withLoginRateLimit(rl, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.50")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request should succeed, got %d", rec.Code)
	}

	// Same forwarded IP behind a different peer address is still throttled.
	req = httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.2:5678"
	req.Header.Set("X-Forwarded-For", "203.0.113.50")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.99")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("different forwarded IP should succeed, got %d", rec.Code)
	}
}

// ---------------------------------------------------------------------------
// writeError / writeJSON / readJSON helper tests
// ---------------------------------------------------------------------------

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, http.StatusNotFound, "not_found", "resource not found")

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %q", ct)
	}

	var envelope errorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if envelope.Error.Code != "not_found" {
		t.Errorf("expected code=not_found, got %q", envelope.Error.Code)
	}
	if envelope.Error.Message != "resource not found" {
		t.Errorf("expected message='resource not found', got %q", envelope.Error.Message)
	}
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusCreated, map[string]string{"hello": "world"})

	if rec.Code != http.StatusCreated {
		t.Errorf("expected status 201, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if body["hello"] != "world" {
		t.Errorf("expected hello=world, got %q", body["hello"])
	}
}

func TestReadJSON_Valid(t *testing.T) {
	body := strings.NewReader(`{"name":"test","value":42}`)
	req := httptest.NewRequest(http.MethodPost, "/", body)

	var result struct {
		Name  string `json:"name"`
		Value int    `json:"value"`
	}
	if err := readJSON(req, &result); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Name != "test" || result.Value != 42 {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestReadJSON_InvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{not json`))

	var result map[string]interface{}
	if err := readJSON(req, &result); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestReadJSON_EmptyBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))

	var result map[string]interface{}
	if err := readJSON(req, &result); err == nil {
		t.Error("expected error for empty body")
	}
}

// ---------------------------------------------------------------------------
// Middleware integration via router
// ---------------------------------------------------------------------------

func TestRouter_SecureHeadersApplied(t *testing.T) {
	handler := NewRouter(RouterDeps{AllowedOrigins: []string{"*"}})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected X-Content-Type-Options: nosniff on router responses")
	}
	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("expected X-Frame-Options: DENY on router responses")
	}
}

func TestRouter_RequestIDApplied(t *testing.T) {
	handler := NewRouter(RouterDeps{AllowedOrigins: []string{"*"}})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID to be set on router responses")
	}
}

func TestRouter_CORSApplied(t *testing.T) {
	handler := NewRouter(RouterDeps{AllowedOrigins: []string{"https://myapp.com"}})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://myapp.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://myapp.com" {
		t.Errorf("expected Access-Control-Allow-Origin=https://myapp.com, got %q", got)
	}
}

func TestRouter_PreflightAtAnyPath(t *testing.T) {
	handler := NewRouter(RouterDeps{AllowedOrigins: []string{"*"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/tasks", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent && rec.Code != http.StatusOK {
		t.Errorf("expected 204 or 200 for OPTIONS preflight, got %d", rec.Code)
	}
}

func TestRouter_NotFound(t *testing.T) {
	handler := NewRouter(RouterDeps{AllowedOrigins: []string{"*"}})

	req := httptest.NewRequest(http.MethodGet, "/nonexistent-path", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown path, got %d", rec.Code)
	}
}
