package api

import (
	"errors"
	"net/http"

	"github.com/avelis/taskhub/internal/report"
	"github.com/avelis/taskhub/internal/task"
)

// reportHandler groups the read-only reporting endpoints.
type reportHandler struct {
	store *report.Store
}

func newReportHandler(store *report.Store) *reportHandler {
	return &reportHandler{store: store}
}

// LastWeekCompleted handles GET /report/last-week.
func (h *reportHandler) LastWeekCompleted(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.store.LastWeekCompleted(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to run last-week report")
		return
	}

	if tasks == nil {
		tasks = []*task.Task{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tasks": tasks})
}

// PendingDays handles GET /report/pending.
func (h *reportHandler) PendingDays(w http.ResponseWriter, r *http.Request) {
	total, err := h.store.PendingDays(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to run pending report")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"total_pending_days": total})
}

// ClosedTaskCounts handles GET /report/closed-tasks?group_by=team|owner|project.
func (h *reportHandler) ClosedTaskCounts(w http.ResponseWriter, r *http.Request) {
	groupBy := report.GroupBy(r.URL.Query().Get("group_by"))

	counts, err := h.store.ClosedTaskCounts(r.Context(), groupBy)
	if err != nil {
		if errors.Is(err, report.ErrInvalidGroupBy) {
			writeError(w, http.StatusBadRequest, "invalid_group_by", "group_by must be one of team, owner, project")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to run closed-tasks report")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"counts": counts, "group_by": groupBy})
}
