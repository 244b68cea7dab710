package tag

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrDuplicateName is returned by Create when the unique constraint on
// tags.name is violated. The resolver treats it as "the row exists now,
// re-fetch it"; the tags HTTP endpoint surfaces it as a user error.
var ErrDuplicateName = errors.New("tag name already exists")

// Store provides database operations for tags.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new tag store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const tagColumns = `id, name, created_at`

func scanTag(row pgx.Row) (*Tag, error) {
	t := &Tag{}
	if err := row.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
		return nil, err
	}
	return t, nil
}

// FindByName retrieves a tag by exact name. Returns (nil, nil) when no tag
// with that name exists.
func (s *Store) FindByName(ctx context.Context, name string) (*Tag, error) {
	t, err := scanTag(s.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM tags WHERE name = $1`, tagColumns), name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding tag by name: %w", err)
	}
	return t, nil
}

// Create inserts a new tag. Returns ErrDuplicateName if the name is taken.
func (s *Store) Create(ctx context.Context, name string) (*Tag, error) {
	t, err := scanTag(s.pool.QueryRow(ctx,
		fmt.Sprintf(`INSERT INTO tags (name) VALUES ($1) RETURNING %s`, tagColumns), name))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("creating tag: %w", err)
	}
	return t, nil
}

// GetByID retrieves a tag by primary key.
func (s *Store) GetByID(ctx context.Context, id string) (*Tag, error) {
	t, err := scanTag(s.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM tags WHERE id = $1`, tagColumns), id))
	if err != nil {
		return nil, fmt.Errorf("getting tag by id: %w", err)
	}
	return t, nil
}

// Delete removes a tag by id. Returns pgx.ErrNoRows if no tag matched.
func (s *Store) Delete(ctx context.Context, id string) error {
	ct, err := s.pool.Exec(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting tag: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// List returns all tags ordered by name.
func (s *Store) List(ctx context.Context) ([]*Tag, error) {
	rows, err := s.pool.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM tags ORDER BY name ASC`, tagColumns))
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer rows.Close()

	var tags []*Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning tag row: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
