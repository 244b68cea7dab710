package api

import (
	"log/slog"
	"net/http"

	"github.com/avelis/taskhub/internal/auth"
)

// auditLog emits a structured audit log entry for a state-mutating action.
func auditLog(r *http.Request, action string, resourceType string, resourceID string, detail ...any) {
	attrs := []any{
		"action", action,
		"resource_type", resourceType,
		"resource_id", resourceID,
		"ip", clientIP(r),
		"request_id", RequestIDFromContext(r.Context()),
	}

	if ident := auth.IdentityFromContext(r.Context()); ident != nil {
		attrs = append(attrs, "user_id", ident.ID, "user_email", ident.Email)
	}

	attrs = append(attrs, detail...)
	slog.Info("audit", attrs...)
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	return r.RemoteAddr
}
