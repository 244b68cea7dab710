package api

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"

	"github.com/avelis/taskhub/internal/user"
)

// usersHandler groups user account HTTP handlers. Account creation happens via
// signup, not here.
type usersHandler struct {
	store *user.Store
}

func newUsersHandler(store *user.Store) *usersHandler {
	return &usersHandler{store: store}
}

// ListUsers handles GET /users.
func (h *usersHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list users")
		return
	}

	if users == nil {
		users = []*user.User{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

// GetUser handles GET /users/{id}.
func (h *usersHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	u, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to get user")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"user": u})
}

// UpdateUser handles PUT /users/{id}.
func (h *usersHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req user.UpdateUserInput
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	u, err := h.store.Update(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			writeError(w, http.StatusNotFound, "not_found", "user not found")
		case errors.Is(err, user.ErrDuplicateEmail):
			writeError(w, http.StatusConflict, "duplicate_email", "email already registered")
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to update user")
		}
		return
	}

	auditLog(r, "update", "user", u.ID)
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": u})
}

// DeleteUser handles DELETE /users/{id}.
func (h *usersHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete user")
		return
	}

	auditLog(r, "delete", "user", id)
	w.WriteHeader(http.StatusNoContent)
}
