package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avelis/taskhub/internal/task"
)

// Store runs the aggregate reporting queries. Read-only.
type Store struct {
	pool  *pgxpool.Pool
	tasks *task.Store
}

// NewStore creates a report store over the given pool and task store.
func NewStore(pool *pgxpool.Pool, tasks *task.Store) *Store {
	return &Store{pool: pool, tasks: tasks}
}

// LastWeekCompleted returns tasks completed within the last seven days.
func (s *Store) LastWeekCompleted(ctx context.Context) ([]*task.Task, error) {
	return s.tasks.List(ctx, task.ListParams{
		Status:       task.StatusCompleted,
		UpdatedSince: time.Now().AddDate(0, 0, -7),
	})
}

// PendingDays returns the total days of work outstanding: the sum of
// time_to_complete over every task that is not completed.
func (s *Store) PendingDays(ctx context.Context) (int, error) {
	var total int
	err := s.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(time_to_complete), 0) FROM tasks WHERE status <> $1`,
		task.StatusCompleted,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("summing pending days: %w", err)
	}
	return total, nil
}

// ClosedTaskCounts returns the number of completed tasks per team, per
// project, or per individual owner.
func (s *Store) ClosedTaskCounts(ctx context.Context, groupBy GroupBy) ([]GroupCount, error) {
	if !groupBy.Valid() {
		return nil, ErrInvalidGroupBy
	}

	var query string
	switch groupBy {
	case GroupByTeam:
		query = `SELECT team_id::text, COUNT(*) FROM tasks
			 WHERE status = $1 GROUP BY team_id ORDER BY COUNT(*) DESC`
	case GroupByProject:
		query = `SELECT project_id::text, COUNT(*) FROM tasks
			 WHERE status = $1 GROUP BY project_id ORDER BY COUNT(*) DESC`
	case GroupByOwner:
		query = `SELECT o::text, COUNT(*) FROM tasks, unnest(owner_ids) AS o
			 WHERE status = $1 GROUP BY o ORDER BY COUNT(*) DESC`
	}

	rows, err := s.pool.Query(ctx, query, task.StatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("counting closed tasks by %s: %w", groupBy, err)
	}
	defer rows.Close()

	counts := []GroupCount{}
	for rows.Next() {
		var gc GroupCount
		if err := rows.Scan(&gc.Key, &gc.Count); err != nil {
			return nil, fmt.Errorf("scanning closed-task count: %w", err)
		}
		counts = append(counts, gc)
	}
	return counts, rows.Err()
}
