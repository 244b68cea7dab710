package task

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store provides database operations for tasks.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new task store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const taskColumns = `id, name, project_id, team_id, owner_ids, tag_ids,
	time_to_complete, status, created_at, updated_at`

func scanTask(row pgx.Row) (*Task, error) {
	t := &Task{}
	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.ProjectID,
		&t.TeamID,
		&t.OwnerIDs,
		&t.TagIDs,
		&t.TimeToComplete,
		&t.Status,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if t.OwnerIDs == nil {
		t.OwnerIDs = []string{}
	}
	if t.TagIDs == nil {
		t.TagIDs = []string{}
	}
	return t, nil
}

// Create inserts a new task and returns the full row.
func (s *Store) Create(ctx context.Context, in CreateTaskInput) (*Task, error) {
	status := in.Status
	if status == "" {
		status = StatusPending
	}
	owners := in.OwnerIDs
	if owners == nil {
		owners = []string{}
	}
	tagIDs := in.TagIDs
	if tagIDs == nil {
		tagIDs = []string{}
	}

	query := fmt.Sprintf(`INSERT INTO tasks
		(name, project_id, team_id, owner_ids, tag_ids, time_to_complete, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s`, taskColumns)

	t, err := scanTask(s.pool.QueryRow(ctx, query,
		in.Name, in.ProjectID, in.TeamID, owners, tagIDs, in.TimeToComplete, status))
	if err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}
	return t, nil
}

// GetByID retrieves a task by primary key.
func (s *Store) GetByID(ctx context.Context, id string) (*Task, error) {
	t, err := scanTask(s.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM tasks WHERE id = $1`, taskColumns), id))
	if err != nil {
		return nil, fmt.Errorf("getting task by id: %w", err)
	}
	return t, nil
}

// List returns tasks matching the given filters, newest first.
func (s *Store) List(ctx context.Context, params ListParams) ([]*Task, error) {
	var whereClauses []string
	var args []any
	argIdx := 1

	if params.TeamID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("team_id = $%d", argIdx))
		args = append(args, params.TeamID)
		argIdx++
	}
	if params.ProjectID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("project_id = $%d", argIdx))
		args = append(args, params.ProjectID)
		argIdx++
	}
	if params.OwnerID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("$%d = ANY(owner_ids)", argIdx))
		args = append(args, params.OwnerID)
		argIdx++
	}
	if params.Status != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, params.Status)
		argIdx++
	}
	if len(params.TagIDs) > 0 {
		whereClauses = append(whereClauses, fmt.Sprintf("tag_ids && $%d", argIdx))
		args = append(args, params.TagIDs)
		argIdx++
	}
	if !params.UpdatedSince.IsZero() {
		whereClauses = append(whereClauses, fmt.Sprintf("updated_at >= $%d", argIdx))
		args = append(args, params.UpdatedSince)
		argIdx++
	}

	where := ""
	if len(whereClauses) > 0 {
		where = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	query := fmt.Sprintf(`SELECT %s FROM tasks %s ORDER BY created_at DESC, id DESC`,
		taskColumns, where)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Update applies a partial update and returns the updated row. Fields left
// nil in the input keep their prior values; updated_at moves regardless.
func (s *Store) Update(ctx context.Context, id string, in UpdateTaskInput) (*Task, error) {
	var setClauses []string
	var args []any
	argIdx := 1

	if in.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", argIdx))
		args = append(args, *in.Name)
		argIdx++
	}
	if in.ProjectID != nil {
		setClauses = append(setClauses, fmt.Sprintf("project_id = $%d", argIdx))
		args = append(args, *in.ProjectID)
		argIdx++
	}
	if in.TeamID != nil {
		setClauses = append(setClauses, fmt.Sprintf("team_id = $%d", argIdx))
		args = append(args, *in.TeamID)
		argIdx++
	}
	if in.OwnerIDs != nil {
		setClauses = append(setClauses, fmt.Sprintf("owner_ids = $%d", argIdx))
		args = append(args, *in.OwnerIDs)
		argIdx++
	}
	if in.TagIDs != nil {
		setClauses = append(setClauses, fmt.Sprintf("tag_ids = $%d", argIdx))
		args = append(args, *in.TagIDs)
		argIdx++
	}
	if in.TimeToComplete != nil {
		setClauses = append(setClauses, fmt.Sprintf("time_to_complete = $%d", argIdx))
		args = append(args, *in.TimeToComplete)
		argIdx++
	}
	if in.Status != nil {
		setClauses = append(setClauses, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *in.Status)
		argIdx++
	}

	if len(setClauses) == 0 {
		return s.GetByID(ctx, id)
	}

	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", argIdx))
	args = append(args, time.Now())
	argIdx++

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE tasks SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argIdx, taskColumns,
	)

	t, err := scanTask(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("updating task: %w", err)
	}
	return t, nil
}

// Delete removes a task by id. Returns pgx.ErrNoRows if no task matched.
func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
