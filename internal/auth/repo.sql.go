package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidyakosh-erp/vidyakosh-erp/internal/platform/httpx"
)

// Repository provides PostgreSQL backed operator lookup.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetByUsername returns an active operator by username.
func (r *Repository) GetByUsername(ctx context.Context, username string) (*Operator, error) {
	var op Operator
	err := r.pool.QueryRow(ctx, `SELECT id, username, password_hash, role, active FROM operators WHERE username = $1`, username).
		Scan(&op.ID, &op.Username, &op.PasswordHash, &op.Role, &op.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: operator", httpx.ErrNotFound)
		}
		return nil, fmt.Errorf("auth: get operator: %w", err)
	}
	return &op, nil
}
