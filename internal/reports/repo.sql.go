package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository runs the aggregate queries. All reads, no writes.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CollectionSummary aggregates charges for the scope. COALESCE keeps an
// empty period at zero instead of NULL.
func (r *Repository) CollectionSummary(ctx context.Context, scope Scope) (*CollectionSummary, error) {
	summary := &CollectionSummary{
		AcademicYearID: scope.AcademicYearID,
		Month:          scope.Month,
		Year:           scope.Year,
		CountByStatus:  make(map[string]int),
	}
	err := r.pool.QueryRow(ctx, `SELECT
  COALESCE(SUM(total_amount), 0),
  COALESCE(SUM(amount_paid), 0),
  COALESCE(SUM(amount_pending), 0),
  COUNT(*)
FROM monthly_charges
WHERE ($1 = 0 OR academic_year_id = $1)
  AND ($2 = 0 OR month = $2)
  AND ($3 = 0 OR year = $3)`,
		scope.AcademicYearID, scope.Month, scope.Year).Scan(
		&summary.TotalBilled, &summary.TotalCollected, &summary.TotalPending, &summary.ChargeCount)
	if err != nil {
		return nil, fmt.Errorf("reports: collection summary: %w", err)
	}

	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM monthly_charges
WHERE ($1 = 0 OR academic_year_id = $1)
  AND ($2 = 0 OR month = $2)
  AND ($3 = 0 OR year = $3)
GROUP BY status`, scope.AcademicYearID, scope.Month, scope.Year)
	if err != nil {
		return nil, fmt.Errorf("reports: status counts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("reports: scan status count: %w", err)
		}
		summary.CountByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reports: iterate status counts: %w", err)
	}

	if summary.TotalBilled > 0 {
		summary.CollectionRate = summary.TotalCollected * 100 / summary.TotalBilled
	}
	return summary, nil
}

// Defaulters returns overdue, not fully paid charges as of today.
func (r *Repository) Defaulters(ctx context.Context, academicYearID int64, today time.Time) ([]Defaulter, error) {
	rows, err := r.pool.Query(ctx, `SELECT s.id, s.first_name, s.guardian_phone,
  mc.id, mc.month, mc.year, mc.amount_pending, mc.due_date
FROM monthly_charges mc
JOIN students s ON s.id = mc.student_id
WHERE ($1 = 0 OR mc.academic_year_id = $1)
  AND mc.due_date < $2
  AND mc.status <> 'paid'
ORDER BY mc.due_date, s.id`, academicYearID, today)
	if err != nil {
		return nil, fmt.Errorf("reports: defaulters: %w", err)
	}
	defer rows.Close()
	var out []Defaulter
	for rows.Next() {
		var d Defaulter
		if err := rows.Scan(&d.StudentID, &d.StudentName, &d.GuardianPhone,
			&d.ChargeID, &d.Month, &d.Year, &d.AmountPending, &d.DueDate); err != nil {
			return nil, fmt.Errorf("reports: scan defaulter: %w", err)
		}
		d.OverdueDays = int(today.Sub(d.DueDate).Hours() / 24)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reports: iterate defaulters: %w", err)
	}
	return out, nil
}

// ClassCollections breaks a period's totals down by class.
func (r *Repository) ClassCollections(ctx context.Context, scope Scope) ([]ClassCollection, error) {
	rows, err := r.pool.Query(ctx, `SELECT c.id, c.name,
  COALESCE(SUM(mc.total_amount), 0),
  COALESCE(SUM(mc.amount_paid), 0),
  COALESCE(SUM(mc.amount_pending), 0),
  COUNT(mc.id)
FROM monthly_charges mc
JOIN students s ON s.id = mc.student_id
JOIN classes c ON c.id = s.class_id
WHERE ($1 = 0 OR mc.academic_year_id = $1)
  AND ($2 = 0 OR mc.month = $2)
  AND ($3 = 0 OR mc.year = $3)
GROUP BY c.id, c.name
ORDER BY c.id`, scope.AcademicYearID, scope.Month, scope.Year)
	if err != nil {
		return nil, fmt.Errorf("reports: class collections: %w", err)
	}
	defer rows.Close()
	var out []ClassCollection
	for rows.Next() {
		var cc ClassCollection
		if err := rows.Scan(&cc.ClassID, &cc.ClassName, &cc.TotalBilled, &cc.TotalCollected, &cc.TotalPending, &cc.ChargeCount); err != nil {
			return nil, fmt.Errorf("reports: scan class collection: %w", err)
		}
		out = append(out, cc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reports: iterate class collections: %w", err)
	}
	return out, nil
}

// ModeBreakdowns totals collections by payment mode for the scope.
func (r *Repository) ModeBreakdowns(ctx context.Context, scope Scope) ([]ModeBreakdown, error) {
	rows, err := r.pool.Query(ctx, `SELECT p.mode, COALESCE(SUM(p.amount), 0), COUNT(*)
FROM payments p
JOIN monthly_charges mc ON mc.id = p.monthly_charge_id
WHERE ($1 = 0 OR mc.academic_year_id = $1)
  AND ($2 = 0 OR mc.month = $2)
  AND ($3 = 0 OR mc.year = $3)
GROUP BY p.mode
ORDER BY p.mode`, scope.AcademicYearID, scope.Month, scope.Year)
	if err != nil {
		return nil, fmt.Errorf("reports: mode breakdowns: %w", err)
	}
	defer rows.Close()
	var out []ModeBreakdown
	for rows.Next() {
		var mb ModeBreakdown
		if err := rows.Scan(&mb.Mode, &mb.Amount, &mb.Count); err != nil {
			return nil, fmt.Errorf("reports: scan mode breakdown: %w", err)
		}
		out = append(out, mb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reports: iterate mode breakdowns: %w", err)
	}
	return out, nil
}
