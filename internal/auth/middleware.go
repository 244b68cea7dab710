package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
)

type contextKey int

const identityContextKey contextKey = iota

// ContextWithIdentity returns a new context carrying the given identity.
func ContextWithIdentity(ctx context.Context, ident *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, ident)
}

// IdentityFromContext extracts the identity from the context, or nil if the
// gate has not run.
func IdentityFromContext(ctx context.Context) *Identity {
	ident, _ := ctx.Value(identityContextKey).(*Identity)
	return ident
}

// GateObserver receives the outcome of each gate decision. Implemented by the
// metrics package.
type GateObserver interface {
	IncAuthSuccess()
	IncAuthFailure(kind string)
}

// Middleware returns the authentication gate. It authenticates the request's
// Authorization header and injects the resolved identity into the request
// context, or rejects:
//
//	missing token        -> 401 missing_credential
//	bad/expired token    -> 403 invalid_credential
//	stale token subject  -> 401 unknown_identity
//
// Handlers behind this middleware may assume IdentityFromContext is non-nil.
func Middleware(svc *Service) func(http.Handler) http.Handler {
	return MiddlewareWithObserver(svc, nil)
}

// MiddlewareWithObserver is Middleware with gate outcomes reported to obs.
func MiddlewareWithObserver(svc *Service, obs GateObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, err := svc.Authenticate(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				if obs != nil {
					obs.IncAuthFailure(rejectionKind(err))
				}
				writeRejection(w, err)
				return
			}

			if obs != nil {
				obs.IncAuthSuccess()
			}
			ctx := ContextWithIdentity(r.Context(), ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func rejectionKind(err error) string {
	switch {
	case errors.Is(err, ErrMissingCredential):
		return "missing_credential"
	case errors.Is(err, ErrInvalidCredential):
		return "invalid_credential"
	default:
		return "unknown_identity"
	}
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeRejection(w http.ResponseWriter, err error) {
	status := http.StatusUnauthorized
	code := "unknown_identity"
	message := "no account matches this token"

	switch {
	case errors.Is(err, ErrMissingCredential):
		code = "missing_credential"
		message = "missing or malformed authorization header"
	case errors.Is(err, ErrInvalidCredential):
		status = http.StatusForbidden
		code = "invalid_credential"
		message = "token is invalid or expired"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Error: errorBody{
			Code:    code,
			Message: message,
		},
	})
}
