package team

import "time"

// Team is a named group of users. Names are unique; members are user ids.
type Team struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	MemberIDs   []string  `json:"member_ids"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateTeamInput holds the fields required to create a team, optionally with
// initial members.
type CreateTeamInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	MemberIDs   []string `json:"member_ids"`
}

// UpdateTeamInput holds optional fields for a partial team update. The member
// list is deliberately absent: membership changes go through AddMembers only.
type UpdateTeamInput struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}
