package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/avelis/taskhub/internal/project"
)

// projectsHandler groups project HTTP handlers.
type projectsHandler struct {
	store *project.Store
}

func newProjectsHandler(store *project.Store) *projectsHandler {
	return &projectsHandler{store: store}
}

// CreateProject handles POST /projects.
func (h *projectsHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req project.CreateProjectInput
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "name is required")
		return
	}

	p, err := h.store.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, project.ErrDuplicateName) {
			writeError(w, http.StatusConflict, "duplicate_name", "project name already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create project")
		return
	}

	auditLog(r, "create", "project", p.ID)
	writeJSON(w, http.StatusCreated, map[string]interface{}{"project": p})
}

// ListProjects handles GET /projects.
func (h *projectsHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list projects")
		return
	}

	if projects == nil {
		projects = []*project.Project{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"projects": projects})
}

// GetProject handles GET /projects/{id}.
func (h *projectsHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	p, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "project not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to get project")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"project": p})
}

// UpdateProject handles PUT /projects/{id}.
func (h *projectsHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req project.UpdateProjectInput
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	p, err := h.store.Update(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			writeError(w, http.StatusNotFound, "not_found", "project not found")
		case errors.Is(err, project.ErrDuplicateName):
			writeError(w, http.StatusConflict, "duplicate_name", "project name already exists")
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to update project")
		}
		return
	}

	auditLog(r, "update", "project", p.ID)
	writeJSON(w, http.StatusOK, map[string]interface{}{"project": p})
}

// DeleteProject handles DELETE /projects/{id}.
func (h *projectsHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "project not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete project")
		return
	}

	auditLog(r, "delete", "project", id)
	w.WriteHeader(http.StatusNoContent)
}
