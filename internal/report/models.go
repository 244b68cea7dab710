package report

import "errors"

// GroupBy selects the grouping dimension for the closed-tasks report.
type GroupBy string

const (
	GroupByTeam    GroupBy = "team"
	GroupByOwner   GroupBy = "owner"
	GroupByProject GroupBy = "project"
)

// ErrInvalidGroupBy is returned for a groupBy value outside team/owner/project.
var ErrInvalidGroupBy = errors.New("groupBy must be one of: team, owner, project")

// GroupCount is one row of the closed-tasks report. Key is nil for completed
// tasks with no team/project reference.
type GroupCount struct {
	Key   *string `json:"key"`
	Count int     `json:"count"`
}

// Valid reports whether g is an accepted grouping dimension.
func (g GroupBy) Valid() bool {
	switch g {
	case GroupByTeam, GroupByOwner, GroupByProject:
		return true
	}
	return false
}
