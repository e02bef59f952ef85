package feestructure

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidyakosh-erp/vidyakosh-erp/internal/platform/db"
	"github.com/vidyakosh-erp/vidyakosh-erp/internal/platform/httpx"
	"github.com/vidyakosh-erp/vidyakosh-erp/internal/shared"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetByClassYear returns the structure for a (class, academic year) pair.
func (r *Repository) GetByClassYear(ctx context.Context, classID, academicYearID int64) (*FeeStructure, error) {
	var fs FeeStructure
	err := r.pool.QueryRow(ctx, `SELECT id, class_id, academic_year_id, tuition_amount, hostel_amount, created_at, updated_at
FROM fee_structures WHERE class_id = $1 AND academic_year_id = $2`, classID, academicYearID).
		Scan(&fs.ID, &fs.ClassID, &fs.AcademicYearID, &fs.TuitionAmount, &fs.HostelAmount, &fs.CreatedAt, &fs.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w for class %d year %d", shared.ErrNotConfigured, classID, academicYearID)
		}
		return nil, fmt.Errorf("feestructure: get by class/year: %w", err)
	}
	return &fs, nil
}

// Get returns a structure by id.
func (r *Repository) Get(ctx context.Context, id int64) (*FeeStructure, error) {
	var fs FeeStructure
	err := r.pool.QueryRow(ctx, `SELECT id, class_id, academic_year_id, tuition_amount, hostel_amount, created_at, updated_at
FROM fee_structures WHERE id = $1`, id).
		Scan(&fs.ID, &fs.ClassID, &fs.AcademicYearID, &fs.TuitionAmount, &fs.HostelAmount, &fs.CreatedAt, &fs.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: fee structure %d", httpx.ErrNotFound, id)
		}
		return nil, fmt.Errorf("feestructure: get: %w", err)
	}
	return &fs, nil
}

// List returns structures matching the optional filters.
func (r *Repository) List(ctx context.Context, req ListFeeStructuresRequest) ([]FeeStructure, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, class_id, academic_year_id, tuition_amount, hostel_amount, created_at, updated_at
FROM fee_structures
WHERE ($1 = 0 OR class_id = $1) AND ($2 = 0 OR academic_year_id = $2)
ORDER BY class_id`, req.ClassID, req.AcademicYearID)
	if err != nil {
		return nil, fmt.Errorf("feestructure: list: %w", err)
	}
	defer rows.Close()
	var structures []FeeStructure
	for rows.Next() {
		var fs FeeStructure
		if err := rows.Scan(&fs.ID, &fs.ClassID, &fs.AcademicYearID, &fs.TuitionAmount, &fs.HostelAmount, &fs.CreatedAt, &fs.UpdatedAt); err != nil {
			return nil, fmt.Errorf("feestructure: scan: %w", err)
		}
		structures = append(structures, fs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("feestructure: iterate: %w", err)
	}
	return structures, nil
}

// Create inserts a new structure. Duplicate (class, year) maps to
// ErrStructureExists via the unique constraint.
func (r *Repository) Create(ctx context.Context, fs FeeStructure) (*FeeStructure, error) {
	now := time.Now()
	fs.CreatedAt = now
	fs.UpdatedAt = now
	err := r.pool.QueryRow(ctx, `INSERT INTO fee_structures (class_id, academic_year_id, tuition_amount, hostel_amount, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`, fs.ClassID, fs.AcademicYearID, fs.TuitionAmount, fs.HostelAmount, fs.CreatedAt, fs.UpdatedAt).Scan(&fs.ID)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, shared.ErrStructureExists
		}
		return nil, fmt.Errorf("feestructure: create: %w", err)
	}
	return &fs, nil
}

// Update adjusts amounts on an existing structure.
func (r *Repository) Update(ctx context.Context, id int64, tuition, hostel *int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE fee_structures SET
tuition_amount = COALESCE($2, tuition_amount),
hostel_amount = COALESCE($3, hostel_amount),
updated_at = NOW()
WHERE id = $1`, id, tuition, hostel)
	if err != nil {
		return fmt.Errorf("feestructure: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: fee structure %d", httpx.ErrNotFound, id)
	}
	return nil
}

// GetRouteMonthlyFee returns the monthly transport fee for a route.
func (r *Repository) GetRouteMonthlyFee(ctx context.Context, routeID int64) (int64, error) {
	var fee int64
	err := r.pool.QueryRow(ctx, `SELECT monthly_fee FROM transport_routes WHERE id = $1`, routeID).Scan(&fee)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%w: transport route %d", httpx.ErrNotFound, routeID)
		}
		return 0, fmt.Errorf("feestructure: get route fee: %w", err)
	}
	return fee, nil
}
