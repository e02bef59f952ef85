package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidyakosh-erp/vidyakosh-erp/internal/shared"
)

const chargeColumns = `id, student_id, academic_year_id, month, year, tuition_amount, hostel_amount, transport_amount, concession_amount, total_amount, amount_paid, amount_pending, status, due_date, generated_at`

// Repository provides PostgreSQL backed persistence for monthly charges.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanCharge(row pgx.Row) (MonthlyCharge, error) {
	var c MonthlyCharge
	err := row.Scan(&c.ID, &c.StudentID, &c.AcademicYearID, &c.Month, &c.Year,
		&c.TuitionAmount, &c.HostelAmount, &c.TransportAmount, &c.ConcessionAmount,
		&c.TotalAmount, &c.AmountPaid, &c.AmountPending, &c.Status, &c.DueDate, &c.GeneratedAt)
	return c, err
}

// BilledStudentIDs returns the ids of students who already have a charge
// for the period. Loaded once up front so the batch skips them cheaply.
func (r *Repository) BilledStudentIDs(ctx context.Context, academicYearID int64, period shared.Period) (map[int64]struct{}, error) {
	rows, err := r.pool.Query(ctx, `SELECT student_id FROM monthly_charges
WHERE academic_year_id = $1 AND month = $2 AND year = $3`, academicYearID, period.Month, period.Year)
	if err != nil {
		return nil, fmt.Errorf("billing: billed students: %w", err)
	}
	defer rows.Close()
	billed := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("billing: scan billed id: %w", err)
		}
		billed[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("billing: iterate billed ids: %w", err)
	}
	return billed, nil
}

// Insert writes one charge. The unique index on (student_id,
// academic_year_id, month, year) plus ON CONFLICT DO NOTHING makes
// concurrent or repeated runs collapse into a single row; inserted
// reports whether this call created the row.
func (r *Repository) Insert(ctx context.Context, c MonthlyCharge) (int64, bool, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO monthly_charges
(student_id, academic_year_id, month, year, tuition_amount, hostel_amount, transport_amount, concession_amount, total_amount, amount_paid, amount_pending, status, due_date, generated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
ON CONFLICT (student_id, academic_year_id, month, year) DO NOTHING
RETURNING id`,
		c.StudentID, c.AcademicYearID, c.Month, c.Year,
		c.TuitionAmount, c.HostelAmount, c.TransportAmount, c.ConcessionAmount,
		c.TotalAmount, c.AmountPaid, c.AmountPending, c.Status, c.DueDate, c.GeneratedAt).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("billing: insert charge: %w", err)
	}
	return id, true, nil
}

// Get returns one charge by id.
func (r *Repository) Get(ctx context.Context, id int64) (*MonthlyCharge, error) {
	c, err := scanCharge(r.pool.QueryRow(ctx, `SELECT `+chargeColumns+` FROM monthly_charges WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: id %d", shared.ErrChargeNotFound, id)
		}
		return nil, fmt.Errorf("billing: get charge: %w", err)
	}
	return &c, nil
}

// List returns charges matching the filters.
func (r *Repository) List(ctx context.Context, req ListChargesRequest) ([]MonthlyCharge, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+chargeColumns+` FROM monthly_charges
WHERE ($1 = 0 OR student_id = $1)
  AND ($2 = 0 OR academic_year_id = $2)
  AND ($3 = '' OR status = $3)
  AND ($4 = 0 OR month = $4)
  AND ($5 = 0 OR year = $5)
ORDER BY year, month, student_id`,
		req.StudentID, req.AcademicYearID, req.Status, req.Month, req.Year)
	if err != nil {
		return nil, fmt.Errorf("billing: list charges: %w", err)
	}
	defer rows.Close()
	var charges []MonthlyCharge
	for rows.Next() {
		c, err := scanCharge(rows)
		if err != nil {
			return nil, fmt.Errorf("billing: scan charge: %w", err)
		}
		charges = append(charges, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("billing: iterate charges: %w", err)
	}
	return charges, nil
}
