package task

import "time"

// Task statuses are free text by convention; these two are the values the
// reporting queries key on.
const (
	StatusPending   = "Pending"
	StatusCompleted = "Completed"
)

// Task is a unit of work. Project, team and owner references are plain ids
// with no integrity enforcement: a task may reference entities that have
// since been deleted.
type Task struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	ProjectID      *string   `json:"project_id"`
	TeamID         *string   `json:"team_id"`
	OwnerIDs       []string  `json:"owner_ids"`
	TagIDs         []string  `json:"tag_ids"`
	TimeToComplete int       `json:"time_to_complete"` // days
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CreateTaskInput holds the fields for creating a task. Tags is the raw
// comma-separated tag field; when set, the writer resolves it and fills
// TagIDs. Callers on the programmatic path may supply TagIDs directly.
type CreateTaskInput struct {
	Name           string   `json:"name"`
	ProjectID      *string  `json:"project_id"`
	TeamID         *string  `json:"team_id"`
	OwnerIDs       []string `json:"owner_ids"`
	Tags           string   `json:"tags"`
	TagIDs         []string `json:"tag_ids"`
	TimeToComplete int      `json:"time_to_complete"`
	Status         string   `json:"status"`
}

// UpdateTaskInput holds optional fields for a partial task update. Only
// non-nil fields are applied. A non-nil Tags recomputes the tag set
// wholesale, including to empty for a blank string.
type UpdateTaskInput struct {
	Name           *string   `json:"name"`
	ProjectID      *string   `json:"project_id"`
	TeamID         *string   `json:"team_id"`
	OwnerIDs       *[]string `json:"owner_ids"`
	Tags           *string   `json:"tags"`
	TagIDs         *[]string `json:"tag_ids"`
	TimeToComplete *int      `json:"time_to_complete"`
	Status         *string   `json:"status"`
}

// ListParams filters the task list. Zero values mean "no filter".
type ListParams struct {
	TeamID       string
	ProjectID    string
	OwnerID      string
	Status       string
	TagIDs       []string
	UpdatedSince time.Time
}
