package api

import (
	"errors"
	"net/http"

	"github.com/avelis/taskhub/internal/auth"
	"github.com/avelis/taskhub/internal/metrics"
	"github.com/avelis/taskhub/internal/user"
)

// authHandler groups signup/login/me HTTP handlers.
type authHandler struct {
	store   *user.Store
	issuer  *auth.Issuer
	metrics *metrics.Metrics
}

func newAuthHandler(store *user.Store, issuer *auth.Issuer, m *metrics.Metrics) *authHandler {
	return &authHandler{store: store, issuer: issuer, metrics: m}
}

// Signup handles POST /auth/signup.
func (h *authHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req user.CreateUserInput
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "name is required")
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "email is required")
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "password is required")
		return
	}

	u, err := h.store.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			writeError(w, http.StatusConflict, "duplicate_email", "user already exists, please log in")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create user")
		return
	}

	token, err := h.issuer.SignupToken(u.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to issue token")
		return
	}

	auditLog(r, "signup", "user", u.ID)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"token": token,
		"user":  u,
	})
}

// Login handles POST /auth/login.
func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "email and password are required")
		return
	}

	u, err := h.store.GetByEmail(r.Context(), req.Email)
	if err != nil || !user.CheckPassword(u, req.Password) {
		if h.metrics != nil {
			h.metrics.IncAuthFailure("login")
		}
		writeError(w, http.StatusUnauthorized, "unauthorized", "invalid email or password")
		return
	}

	token, err := h.issuer.LoginToken(u.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to issue token")
		return
	}

	if h.metrics != nil {
		h.metrics.IncAuthSuccess()
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  u,
	})
}

// Me handles GET /auth/me.
func (h *authHandler) Me(w http.ResponseWriter, r *http.Request) {
	ident := auth.IdentityFromContext(r.Context())
	if ident == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "not authenticated")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user": ident,
	})
}
