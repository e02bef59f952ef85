package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidyakosh-erp/vidyakosh-erp/internal/billing"
	"github.com/vidyakosh-erp/vidyakosh-erp/internal/platform/httpx"
	"github.com/vidyakosh-erp/vidyakosh-erp/internal/shared"
)

const paymentColumns = `id, monthly_charge_id, student_id, amount, mode, payment_date, receipt_number, recorded_by, created_at`

// Repository provides PostgreSQL backed persistence for payments.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetChargeForUpdate loads a charge under a row lock. Concurrent payments
// against the same charge serialize here, so amount_pending is never read
// stale inside the transaction.
func (r *Repository) GetChargeForUpdate(ctx context.Context, tx pgx.Tx, chargeID int64) (*billing.MonthlyCharge, error) {
	var c billing.MonthlyCharge
	err := tx.QueryRow(ctx, `SELECT id, student_id, academic_year_id, month, year, tuition_amount, hostel_amount, transport_amount, concession_amount, total_amount, amount_paid, amount_pending, status, due_date, generated_at
FROM monthly_charges WHERE id = $1 FOR UPDATE`, chargeID).Scan(
		&c.ID, &c.StudentID, &c.AcademicYearID, &c.Month, &c.Year,
		&c.TuitionAmount, &c.HostelAmount, &c.TransportAmount, &c.ConcessionAmount,
		&c.TotalAmount, &c.AmountPaid, &c.AmountPending, &c.Status, &c.DueDate, &c.GeneratedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: id %d", shared.ErrChargeNotFound, chargeID)
		}
		return nil, fmt.Errorf("payments: lock charge: %w", err)
	}
	return &c, nil
}

// NextReceiptSeq atomically advances the per-day receipt counter and
// returns the new value. A single upsert statement, never read-then-write,
// so two concurrent payments on the same day can never draw the same
// number.
func (r *Repository) NextReceiptSeq(ctx context.Context, tx pgx.Tx, day time.Time) (int64, error) {
	var seq int64
	err := tx.QueryRow(ctx, `INSERT INTO receipt_counters (day, last_value) VALUES ($1, 1)
ON CONFLICT (day) DO UPDATE SET last_value = receipt_counters.last_value + 1
RETURNING last_value`, day.Format("2006-01-02")).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("payments: advance receipt counter: %w", err)
	}
	return seq, nil
}

// InsertPayment writes one payment row inside the transaction.
func (r *Repository) InsertPayment(ctx context.Context, tx pgx.Tx, p Payment) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx, `INSERT INTO payments (monthly_charge_id, student_id, amount, mode, payment_date, receipt_number, recorded_by, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		p.MonthlyChargeID, p.StudentID, p.Amount, p.Mode, p.PaymentDate, p.ReceiptNumber, p.RecordedBy, p.CreatedAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("payments: insert payment: %w", err)
	}
	return id, nil
}

// ApplyToCharge writes the charge's new position after a payment.
func (r *Repository) ApplyToCharge(ctx context.Context, tx pgx.Tx, chargeID, amountPaid, amountPending int64, status billing.ChargeStatus) error {
	tag, err := tx.Exec(ctx, `UPDATE monthly_charges SET amount_paid = $2, amount_pending = $3, status = $4 WHERE id = $1`,
		chargeID, amountPaid, amountPending, status)
	if err != nil {
		return fmt.Errorf("payments: apply to charge: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: id %d", shared.ErrChargeNotFound, chargeID)
	}
	return nil
}

// Get returns one payment by id.
func (r *Repository) Get(ctx context.Context, id int64) (*Payment, error) {
	var p Payment
	err := r.pool.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id).Scan(
		&p.ID, &p.MonthlyChargeID, &p.StudentID, &p.Amount, &p.Mode, &p.PaymentDate, &p.ReceiptNumber, &p.RecordedBy, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: payment %d", httpx.ErrNotFound, id)
		}
		return nil, fmt.Errorf("payments: get payment: %w", err)
	}
	return &p, nil
}

// List returns payments matching the filters.
func (r *Repository) List(ctx context.Context, req ListPaymentsRequest) ([]Payment, error) {
	from := req.From
	if from.IsZero() {
		from = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	to := req.To
	if to.IsZero() {
		to = time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	rows, err := r.pool.Query(ctx, `SELECT `+paymentColumns+` FROM payments
WHERE ($1 = 0 OR student_id = $1)
  AND ($2 = 0 OR monthly_charge_id = $2)
  AND ($3 = '' OR mode = $3)
  AND payment_date BETWEEN $4 AND $5
ORDER BY id`, req.StudentID, req.MonthlyChargeID, req.Mode, from, to)
	if err != nil {
		return nil, fmt.Errorf("payments: list: %w", err)
	}
	defer rows.Close()
	var out []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.MonthlyChargeID, &p.StudentID, &p.Amount, &p.Mode, &p.PaymentDate, &p.ReceiptNumber, &p.RecordedBy, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("payments: scan: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("payments: iterate: %w", err)
	}
	return out, nil
}
