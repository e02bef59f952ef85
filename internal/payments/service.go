package payments

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidyakosh-erp/vidyakosh-erp/internal/billing"
	"github.com/vidyakosh-erp/vidyakosh-erp/internal/platform/db"
	"github.com/vidyakosh-erp/vidyakosh-erp/internal/shared"
)

// txAttempts bounds retries on serialization failures when two sessions
// hit the same charge or receipt counter at once.
const txAttempts = 3

// TxRunner executes fn atomically. Production wiring retries transient
// conflicts; tests substitute a pass-through.
type TxRunner func(ctx context.Context, fn func(pgx.Tx) error) error

// RepositoryPort defines the ledger's persistence operations. The
// tx-scoped methods run inside one atomic unit per recorded payment.
type RepositoryPort interface {
	GetChargeForUpdate(ctx context.Context, tx pgx.Tx, chargeID int64) (*billing.MonthlyCharge, error)
	NextReceiptSeq(ctx context.Context, tx pgx.Tx, day time.Time) (int64, error)
	InsertPayment(ctx context.Context, tx pgx.Tx, p Payment) (int64, error)
	ApplyToCharge(ctx context.Context, tx pgx.Tx, chargeID, amountPaid, amountPending int64, status billing.ChargeStatus) error
	Get(ctx context.Context, id int64) (*Payment, error)
	List(ctx context.Context, req ListPaymentsRequest) ([]Payment, error)
}

// AuditPort records payment activity.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service is the payment ledger. Each recorded payment inserts the
// payment row, stamps a receipt number and moves the charge's position in
// one transaction; a validation failure leaves the charge untouched.
type Service struct {
	logger *slog.Logger
	runner TxRunner
	repo   RepositoryPort
	audit  AuditPort
}

// NewService builds Service instance. audit may be nil.
func NewService(logger *slog.Logger, runner TxRunner, repo RepositoryPort, audit AuditPort) *Service {
	return &Service{logger: logger, runner: runner, repo: repo, audit: audit}
}

// PoolRunner returns the production TxRunner over a pgx pool.
func PoolRunner(pool *pgxpool.Pool) TxRunner {
	return func(ctx context.Context, fn func(pgx.Tx) error) error {
		return db.WithTxRetry(ctx, pool, txAttempts, fn)
	}
}

// RecordPayment applies one payment to a charge. Validation: amount must
// be positive and must not exceed the charge's amount_pending; when the
// request names a student it must own the charge. Overpayment is rejected
// rather than held as credit.
func (s *Service) RecordPayment(ctx context.Context, req RecordPaymentRequest, recordedBy int64) (*RecordPaymentResponse, error) {
	if req.Amount <= 0 {
		return nil, shared.ErrInvalidAmount
	}
	paymentDate := req.PaymentDate
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}

	var resp *RecordPaymentResponse
	err := s.runner(ctx, func(tx pgx.Tx) error {
		charge, err := s.repo.GetChargeForUpdate(ctx, tx, req.MonthlyChargeID)
		if err != nil {
			return err
		}
		if req.StudentID != 0 && req.StudentID != charge.StudentID {
			return shared.ErrStudentMismatch
		}
		if req.Amount > charge.AmountPending {
			return fmt.Errorf("%w: pending %d, got %d", shared.ErrOverpaymentRejected, charge.AmountPending, req.Amount)
		}

		seq, err := s.repo.NextReceiptSeq(ctx, tx, paymentDate)
		if err != nil {
			return err
		}
		payment := Payment{
			MonthlyChargeID: charge.ID,
			StudentID:       charge.StudentID,
			Amount:          req.Amount,
			Mode:            PaymentMode(req.Mode),
			PaymentDate:     paymentDate,
			ReceiptNumber:   FormatReceipt(paymentDate, seq),
			RecordedBy:      recordedBy,
			CreatedAt:       time.Now(),
		}
		payment.ID, err = s.repo.InsertPayment(ctx, tx, payment)
		if err != nil {
			return err
		}

		amountPaid := charge.AmountPaid + req.Amount
		amountPending := charge.TotalAmount - amountPaid
		status := billing.DeriveStatus(charge.TotalAmount, amountPaid)
		if err := s.repo.ApplyToCharge(ctx, tx, charge.ID, amountPaid, amountPending, status); err != nil {
			return err
		}

		resp = &RecordPaymentResponse{
			Payment:       payment,
			ReceiptNumber: payment.ReceiptNumber,
			Status:        string(status),
			AmountPending: amountPending,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment recorded",
		slog.String("receipt", resp.ReceiptNumber),
		slog.Int64("charge_id", req.MonthlyChargeID),
		slog.Int64("amount", req.Amount),
		slog.String("status", resp.Status))
	s.recordAudit(ctx, resp, recordedBy)
	return resp, nil
}

func (s *Service) recordAudit(ctx context.Context, resp *RecordPaymentResponse, recordedBy int64) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  recordedBy,
		Action:   "payments.record",
		Entity:   "payment",
		EntityID: resp.ReceiptNumber,
		Meta: map[string]any{
			"charge_id": resp.Payment.MonthlyChargeID,
			"amount":    resp.Payment.Amount,
			"mode":      resp.Payment.Mode,
		},
	})
	if err != nil {
		s.logger.Warn("audit record failed", slog.Any("error", err))
	}
}

// Get returns one payment.
func (s *Service) Get(ctx context.Context, id int64) (*Payment, error) {
	return s.repo.Get(ctx, id)
}

// List returns payments matching the filters.
func (s *Service) List(ctx context.Context, req ListPaymentsRequest) ([]Payment, error) {
	return s.repo.List(ctx, req)
}
