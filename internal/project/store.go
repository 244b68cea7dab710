package project

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrDuplicateName is returned when the unique constraint on projects.name is
// violated.
var ErrDuplicateName = errors.New("project name already exists")

// Store provides database operations for projects.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new project store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const projectColumns = `id, name, description, created_at`

func scanProject(row pgx.Row) (*Project, error) {
	p := &Project{}
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt); err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts a new project.
func (s *Store) Create(ctx context.Context, in CreateProjectInput) (*Project, error) {
	p, err := scanProject(s.pool.QueryRow(ctx,
		fmt.Sprintf(`INSERT INTO projects (name, description)
		 VALUES ($1, $2) RETURNING %s`, projectColumns),
		in.Name, in.Description))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("creating project: %w", err)
	}
	return p, nil
}

// GetByID retrieves a project by primary key.
func (s *Store) GetByID(ctx context.Context, id string) (*Project, error) {
	p, err := scanProject(s.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM projects WHERE id = $1`, projectColumns), id))
	if err != nil {
		return nil, fmt.Errorf("getting project by id: %w", err)
	}
	return p, nil
}

// List returns all projects, newest first.
func (s *Store) List(ctx context.Context) ([]*Project, error) {
	rows, err := s.pool.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM projects ORDER BY created_at DESC`, projectColumns))
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning project row: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// Update performs a partial update on the project with the given id.
func (s *Store) Update(ctx context.Context, id string, in UpdateProjectInput) (*Project, error) {
	var setClauses []string
	var args []any
	argIdx := 1

	if in.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", argIdx))
		args = append(args, *in.Name)
		argIdx++
	}
	if in.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", argIdx))
		args = append(args, *in.Description)
		argIdx++
	}

	if len(setClauses) == 0 {
		return s.GetByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE projects SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argIdx, projectColumns,
	)

	p, err := scanProject(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("updating project: %w", err)
	}
	return p, nil
}

// Delete removes a project by id. Returns pgx.ErrNoRows if no project matched.
func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
