package team

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrDuplicateName is returned when the unique constraint on teams.name is
// violated.
var ErrDuplicateName = errors.New("team name already exists")

// Store provides database operations for teams.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new team store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const teamColumns = `id, name, description, member_ids, created_at`

func scanTeam(row pgx.Row) (*Team, error) {
	t := &Team{}
	if err := row.Scan(&t.ID, &t.Name, &t.Description, &t.MemberIDs, &t.CreatedAt); err != nil {
		return nil, err
	}
	if t.MemberIDs == nil {
		t.MemberIDs = []string{}
	}
	return t, nil
}

// Create inserts a new team.
func (s *Store) Create(ctx context.Context, in CreateTeamInput) (*Team, error) {
	members := in.MemberIDs
	if members == nil {
		members = []string{}
	}

	t, err := scanTeam(s.pool.QueryRow(ctx,
		fmt.Sprintf(`INSERT INTO teams (name, description, member_ids)
		 VALUES ($1, $2, $3) RETURNING %s`, teamColumns),
		in.Name, in.Description, members))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("creating team: %w", err)
	}
	return t, nil
}

// GetByID retrieves a team by primary key.
func (s *Store) GetByID(ctx context.Context, id string) (*Team, error) {
	t, err := scanTeam(s.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM teams WHERE id = $1`, teamColumns), id))
	if err != nil {
		return nil, fmt.Errorf("getting team by id: %w", err)
	}
	return t, nil
}

// List returns all teams ordered by name.
func (s *Store) List(ctx context.Context) ([]*Team, error) {
	rows, err := s.pool.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM teams ORDER BY name ASC`, teamColumns))
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}
	defer rows.Close()

	var teams []*Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning team row: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// Update performs a partial update on name/description. Membership is out of
// scope here; see AddMembers.
func (s *Store) Update(ctx context.Context, id string, in UpdateTeamInput) (*Team, error) {
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
		`UPDATE teams SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argIdx, teamColumns,
	)

	t, err := scanTeam(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("updating team: %w", err)
	}
	return t, nil
}

// AddMembers appends the given user ids to the team, skipping ids already
// present, and returns the updated team.
func (s *Store) AddMembers(ctx context.Context, id string, newMembers []string) (*Team, error) {
	t, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing := make(map[string]bool, len(t.MemberIDs))
	for _, m := range t.MemberIDs {
		existing[m] = true
	}

	members := t.MemberIDs
	for _, m := range newMembers {
		if existing[m] {
			continue
		}
		existing[m] = true
		members = append(members, m)
	}

	if len(members) == len(t.MemberIDs) {
		return t, nil
	}

	t, err = scanTeam(s.pool.QueryRow(ctx,
		fmt.Sprintf(`UPDATE teams SET member_ids = $1 WHERE id = $2 RETURNING %s`, teamColumns),
		members, id))
	if err != nil {
		return nil, fmt.Errorf("adding team members: %w", err)
	}
	return t, nil
}

// Delete removes a team by id. Returns pgx.ErrNoRows if no team matched.
func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting team: %w", err)
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
