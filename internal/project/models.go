package project

import "time"

// Project groups tasks. Names are unique.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateProjectInput holds the fields required to create a project.
type CreateProjectInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UpdateProjectInput holds optional fields for a partial project update.
type UpdateProjectInput struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}
