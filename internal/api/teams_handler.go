package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/avelis/taskhub/internal/team"
)

// teamsHandler groups team HTTP handlers.
type teamsHandler struct {
	store *team.Store
}

func newTeamsHandler(store *team.Store) *teamsHandler {
	return &teamsHandler{store: store}
}

// CreateTeam handles POST /teams, optionally with initial members.
func (h *teamsHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var req team.CreateTeamInput
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "name is required")
		return
	}

	t, err := h.store.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, team.ErrDuplicateName) {
			writeError(w, http.StatusConflict, "duplicate_name", "team name already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create team")
		return
	}

	auditLog(r, "create", "team", t.ID)
	writeJSON(w, http.StatusCreated, map[string]interface{}{"team": t})
}

// ListTeams handles GET /teams.
func (h *teamsHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list teams")
		return
	}

	if teams == nil {
		teams = []*team.Team{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"teams": teams})
}

// GetTeam handles GET /teams/{id}.
func (h *teamsHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	t, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "team not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to get team")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"team": t})
}

// UpdateTeam handles PUT /teams/{id}. Membership is not touched here; adding
// members goes through AddMembers.
func (h *teamsHandler) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req team.UpdateTeamInput
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	t, err := h.store.Update(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			writeError(w, http.StatusNotFound, "not_found", "team not found")
		case errors.Is(err, team.ErrDuplicateName):
			writeError(w, http.StatusConflict, "duplicate_name", "team name already exists")
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to update team")
		}
		return
	}

	auditLog(r, "update", "team", t.ID)
	writeJSON(w, http.StatusOK, map[string]interface{}{"team": t})
}

// AddMembers handles POST /teams/{id}/members. Ids already in the team are
// skipped.
func (h *teamsHandler) AddMembers(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		NewMembers []string `json:"new_members"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	if len(req.NewMembers) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "no members provided to add")
		return
	}

	t, err := h.store.AddMembers(r.Context(), id, req.NewMembers)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "team not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to add team members")
		return
	}

	auditLog(r, "add_members", "team", t.ID, "count", len(req.NewMembers))
	writeJSON(w, http.StatusOK, map[string]interface{}{"team": t})
}

// DeleteTeam handles DELETE /teams/{id}.
func (h *teamsHandler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "team not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete team")
		return
	}

	auditLog(r, "delete", "team", id)
	w.WriteHeader(http.StatusNoContent)
}
