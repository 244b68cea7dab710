package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/avelis/taskhub/internal/task"
)

// tasksHandler groups task HTTP handlers.
type tasksHandler struct {
	store  *task.Store
	writer *task.Writer
}

func newTasksHandler(store *task.Store, writer *task.Writer) *tasksHandler {
	return &tasksHandler{store: store, writer: writer}
}

// CreateTask handles POST /tasks.
func (h *tasksHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req task.CreateTaskInput
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "name is required")
		return
	}
	if req.TimeToComplete < 0 {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "time_to_complete must not be negative")
		return
	}

	t, err := h.writer.Create(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create task")
		return
	}

	auditLog(r, "create", "task", t.ID)
	writeJSON(w, http.StatusCreated, map[string]interface{}{"task": t})
}

// ListTasks handles GET /tasks with optional team/project/owner/status/tags filters.
func (h *tasksHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := task.ListParams{
		TeamID:    q.Get("team"),
		ProjectID: q.Get("project"),
		OwnerID:   q.Get("owner"),
		Status:    q.Get("status"),
	}
	if tags := q.Get("tags"); tags != "" {
		for _, id := range strings.Split(tags, ",") {
			if id = strings.TrimSpace(id); id != "" {
				params.TagIDs = append(params.TagIDs, id)
			}
		}
	}

	tasks, err := h.store.List(r.Context(), params)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list tasks")
		return
	}

	if tasks == nil {
		tasks = []*task.Task{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tasks": tasks})
}

// GetTask handles GET /tasks/{id}.
func (h *tasksHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	t, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "task not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to get task")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"task": t})
}

// UpdateTask handles PUT /tasks/{id} with partial-update semantics.
func (h *tasksHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req task.UpdateTaskInput
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	if req.TimeToComplete != nil && *req.TimeToComplete < 0 {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "time_to_complete must not be negative")
		return
	}

	t, err := h.writer.Update(r.Context(), id, req)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "task not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to update task")
		return
	}

	auditLog(r, "update", "task", t.ID)
	writeJSON(w, http.StatusOK, map[string]interface{}{"task": t})
}

// DeleteTask handles DELETE /tasks/{id}.
func (h *tasksHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "task not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete task")
		return
	}

	auditLog(r, "delete", "task", id)
	w.WriteHeader(http.StatusNoContent)
}
