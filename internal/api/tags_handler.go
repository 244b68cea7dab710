package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/avelis/taskhub/internal/tag"
)

// tagsHandler groups tag HTTP handlers.
type tagsHandler struct {
	store *tag.Store
}

func newTagsHandler(store *tag.Store) *tagsHandler {
	return &tagsHandler{store: store}
}

// CreateTag handles POST /tags.
func (h *tagsHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "name is required")
		return
	}

	t, err := h.store.Create(r.Context(), name)
	if err != nil {
		if errors.Is(err, tag.ErrDuplicateName) {
			writeError(w, http.StatusConflict, "duplicate_name", "tag name already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create tag")
		return
	}

	auditLog(r, "create", "tag", t.ID)
	writeJSON(w, http.StatusCreated, map[string]interface{}{"tag": t})
}

// ListTags handles GET /tags.
func (h *tagsHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list tags")
		return
	}

	if tags == nil {
		tags = []*tag.Tag{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tags": tags})
}

// GetTag handles GET /tags/{id}.
func (h *tagsHandler) GetTag(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	t, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "tag not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to get tag")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"tag": t})
}

// DeleteTag handles DELETE /tags/{id}.
func (h *tagsHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "tag not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete tag")
		return
	}

	auditLog(r, "delete", "tag", id)
	w.WriteHeader(http.StatusNoContent)
}
