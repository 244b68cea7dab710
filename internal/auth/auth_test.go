package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// --- mock identity store ---

type mockIdentityLookup struct {
	identities map[string]*Identity
}

func (m *mockIdentityLookup) FindIdentity(ctx context.Context, id string) (*Identity, error) {
	ident, ok := m.identities[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return ident, nil
}

func newTestService(t *testing.T, secret string, identities map[string]*Identity) (*Service, *Issuer) {
	t.Helper()
	iss := NewIssuer(secret, 4*time.Hour, 24*time.Hour)
	return NewService(iss, &mockIdentityLookup{identities: identities}), iss
}

// --- tokenFromHeader tests ---

func TestTokenFromHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"empty", "", ""},
		{"bearer token", "Bearer abc123", "abc123"},
		{"lowercase scheme", "bearer abc123", "abc123"},
		{"scheme only", "Bearer", ""},
		{"bare token no scheme", "abc123", ""},
		{"wrong scheme still yields token", "Basic abc123", "abc123"},
		{"extra parts take second field", "Bearer abc 123", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tokenFromHeader(tt.header); got != tt.want {
				t.Errorf("tokenFromHeader(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

// --- Authenticate tests ---

func TestAuthenticate(t *testing.T) {
	svc, iss := newTestService(t, "test-secret", map[string]*Identity{
		"user-1": {ID: "user-1", Name: "Ada", Email: "ada@example.com"},
	})

	validToken, err := iss.LoginToken("user-1")
	if err != nil {
		t.Fatal(err)
	}
	staleToken, err := iss.LoginToken("user-gone")
	if err != nil {
		t.Fatal(err)
	}
	otherIssuer := NewIssuer("other-secret", time.Hour, time.Hour)
	forgedToken, err := otherIssuer.LoginToken("user-1")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		header  string
		wantErr error
	}{
		{"valid token", "Bearer " + validToken, nil},
		{"missing header", "", ErrMissingCredential},
		{"scheme only", "Bearer", ErrMissingCredential},
		{"garbage token", "Bearer garbage", ErrInvalidCredential},
		{"wrong scheme garbage", "Basic garbage", ErrInvalidCredential},
		{"wrong scheme valid token", "Token " + validToken, nil},
		{"forged token", "Bearer " + forgedToken, ErrInvalidCredential},
		{"deleted account", "Bearer " + staleToken, ErrUnknownIdentity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ident, err := svc.Authenticate(context.Background(), tt.header)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Authenticate() error: %v", err)
				}
				if ident == nil || ident.ID != "user-1" {
					t.Errorf("expected identity user-1, got %+v", ident)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if ident != nil {
				t.Errorf("expected nil identity on rejection, got %+v", ident)
			}
		})
	}
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	iss := NewIssuer("test-secret", -time.Minute, -time.Minute)
	svc := NewService(iss, &mockIdentityLookup{identities: map[string]*Identity{
		"user-1": {ID: "user-1"},
	}})

	token, err := iss.LoginToken("user-1")
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.Authenticate(context.Background(), "Bearer "+token)
	if !errors.Is(err, ErrInvalidCredential) {
		t.Errorf("expected ErrInvalidCredential for expired token, got %v", err)
	}
}

// --- Context helpers tests ---

func TestIdentityContext_RoundTrip(t *testing.T) {
	ident := &Identity{ID: "u1", Name: "Ada", Email: "ada@example.com"}
	ctx := ContextWithIdentity(context.Background(), ident)
	got := IdentityFromContext(ctx)
	if got == nil {
		t.Fatal("expected identity from context, got nil")
	}
	if got.ID != ident.ID {
		t.Errorf("expected ID %q, got %q", ident.ID, got.ID)
	}
}

func TestIdentityFromContext_Empty(t *testing.T) {
	if got := IdentityFromContext(context.Background()); got != nil {
		t.Errorf("expected nil from empty context, got %+v", got)
	}
}

// --- Middleware tests ---

func TestMiddleware(t *testing.T) {
	svc, iss := newTestService(t, "test-secret", map[string]*Identity{
		"user-1": {ID: "user-1", Name: "Ada", Email: "ada@example.com"},
	})

	validToken, err := iss.LoginToken("user-1")
	if err != nil {
		t.Fatal(err)
	}
	staleToken, err := iss.LoginToken("user-gone")
	if err != nil {
		t.Fatal(err)
	}

	var handlerCalls int
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalls++
		if IdentityFromContext(r.Context()) == nil {
			t.Error("expected identity in context inside handler")
		}
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "valid token",
			authHeader: "Bearer " + validToken,
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing header",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
			wantCode:   "missing_credential",
		},
		{
			name:       "scheme only no token",
			authHeader: "Bearer",
			wantStatus: http.StatusUnauthorized,
			wantCode:   "missing_credential",
		},
		{
			name:       "invalid token",
			authHeader: "Bearer garbage",
			wantStatus: http.StatusForbidden,
			wantCode:   "invalid_credential",
		},
		{
			name:       "wrong scheme invalid token",
			authHeader: "Basic garbage",
			wantStatus: http.StatusForbidden,
			wantCode:   "invalid_credential",
		},
		{
			name:       "stale subject",
			authHeader: "Bearer " + staleToken,
			wantStatus: http.StatusUnauthorized,
			wantCode:   "unknown_identity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalls = 0
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()

			handler := Middleware(svc)(okHandler)
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rr.Code)
			}

			if tt.wantCode != "" {
				if handlerCalls != 0 {
					t.Error("rejected request must not reach the handler")
				}
				assertErrorCode(t, rr, tt.wantCode)
			}
		})
	}
}

// assertErrorCode checks the JSON error envelope and its code field.
func assertErrorCode(t *testing.T, rr *httptest.ResponseRecorder, wantCode string) {
	t.Helper()

	ct := rr.Header().Get("Content-Type")
	if !strings.Contains(ct, "application/json") {
		t.Errorf("expected Content-Type application/json, got %q", ct)
	}

	var resp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}

	if resp.Error.Code != wantCode {
		t.Errorf("expected error code %q, got %q", wantCode, resp.Error.Code)
	}
	if resp.Error.Message == "" {
		t.Error("expected non-empty error message")
	}
}
