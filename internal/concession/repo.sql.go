package concession

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidyakosh-erp/vidyakosh-erp/internal/platform/httpx"
)

const concessionColumns = `id, student_id, concession_type, percentage, fixed_amount, reason, approved_by, valid_from, valid_to, active, created_at, updated_at`

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanConcession(row pgx.Row) (Concession, error) {
	var c Concession
	err := row.Scan(&c.ID, &c.StudentID, &c.Type, &c.Percentage, &c.FixedAmount, &c.Reason, &c.ApprovedBy, &c.ValidFrom, &c.ValidTo, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// ListActive returns concessions in force for a student on asOf.
func (r *Repository) ListActive(ctx context.Context, studentID int64, asOf time.Time) ([]Concession, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+concessionColumns+` FROM concessions
WHERE student_id = $1 AND active AND valid_from <= $2 AND (valid_to IS NULL OR valid_to >= $2)
ORDER BY id`, studentID, asOf)
	if err != nil {
		return nil, fmt.Errorf("concession: list active: %w", err)
	}
	defer rows.Close()
	var concessions []Concession
	for rows.Next() {
		c, err := scanConcession(rows)
		if err != nil {
			return nil, fmt.Errorf("concession: scan: %w", err)
		}
		concessions = append(concessions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("concession: iterate: %w", err)
	}
	return concessions, nil
}

// List returns concessions matching the filters.
func (r *Repository) List(ctx context.Context, req ListConcessionsRequest) ([]Concession, error) {
	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}
	rows, err := r.pool.Query(ctx, `SELECT `+concessionColumns+` FROM concessions
WHERE ($1 = 0 OR student_id = $1)
  AND ($2 = '' OR concession_type = $2)
  AND (NOT $3 OR (active AND valid_from <= $4 AND (valid_to IS NULL OR valid_to >= $4)))
ORDER BY id`, req.StudentID, req.Type, req.OnlyLive, asOf)
	if err != nil {
		return nil, fmt.Errorf("concession: list: %w", err)
	}
	defer rows.Close()
	var concessions []Concession
	for rows.Next() {
		c, err := scanConcession(rows)
		if err != nil {
			return nil, fmt.Errorf("concession: scan: %w", err)
		}
		concessions = append(concessions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("concession: iterate: %w", err)
	}
	return concessions, nil
}

// Get returns one concession by id.
func (r *Repository) Get(ctx context.Context, id int64) (*Concession, error) {
	c, err := scanConcession(r.pool.QueryRow(ctx, `SELECT `+concessionColumns+` FROM concessions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: concession %d", httpx.ErrNotFound, id)
		}
		return nil, fmt.Errorf("concession: get: %w", err)
	}
	return &c, nil
}

// Create inserts a new concession.
func (r *Repository) Create(ctx context.Context, c Concession) (*Concession, error) {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	err := r.pool.QueryRow(ctx, `INSERT INTO concessions (student_id, concession_type, percentage, fixed_amount, reason, approved_by, valid_from, valid_to, active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`,
		c.StudentID, c.Type, c.Percentage, c.FixedAmount, c.Reason, c.ApprovedBy, c.ValidFrom, c.ValidTo, c.Active, c.CreatedAt, c.UpdatedAt).Scan(&c.ID)
	if err != nil {
		return nil, fmt.Errorf("concession: create: %w", err)
	}
	return &c, nil
}

// Deactivate soft-deletes a concession.
func (r *Repository) Deactivate(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE concessions SET active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("concession: deactivate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: concession %d", httpx.ErrNotFound, id)
	}
	return nil
}
