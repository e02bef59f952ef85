package payments

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/vidyakosh-erp/vidyakosh-erp/internal/billing"
	"github.com/vidyakosh-erp/vidyakosh-erp/internal/shared"
)

type fakeLedgerRepo struct {
	charges  map[int64]*billing.MonthlyCharge
	payments []Payment
	counters map[string]int64
	nextID   int64
}

func newFakeLedgerRepo(charges ...*billing.MonthlyCharge) *fakeLedgerRepo {
	repo := &fakeLedgerRepo{
		charges:  make(map[int64]*billing.MonthlyCharge),
		counters: make(map[string]int64),
	}
	for _, c := range charges {
		repo.charges[c.ID] = c
	}
	return repo
}

func (f *fakeLedgerRepo) GetChargeForUpdate(_ context.Context, _ pgx.Tx, chargeID int64) (*billing.MonthlyCharge, error) {
	c, ok := f.charges[chargeID]
	if !ok {
		return nil, shared.ErrChargeNotFound
	}
	copied := *c
	return &copied, nil
}

func (f *fakeLedgerRepo) NextReceiptSeq(_ context.Context, _ pgx.Tx, day time.Time) (int64, error) {
	key := day.Format("2006-01-02")
	f.counters[key]++
	return f.counters[key], nil
}

func (f *fakeLedgerRepo) InsertPayment(_ context.Context, _ pgx.Tx, p Payment) (int64, error) {
	f.nextID++
	p.ID = f.nextID
	f.payments = append(f.payments, p)
	return p.ID, nil
}

func (f *fakeLedgerRepo) ApplyToCharge(_ context.Context, _ pgx.Tx, chargeID, amountPaid, amountPending int64, status billing.ChargeStatus) error {
	c, ok := f.charges[chargeID]
	if !ok {
		return shared.ErrChargeNotFound
	}
	c.AmountPaid = amountPaid
	c.AmountPending = amountPending
	c.Status = status
	return nil
}

func (f *fakeLedgerRepo) Get(_ context.Context, id int64) (*Payment, error) {
	for i := range f.payments {
		if f.payments[i].ID == id {
			return &f.payments[i], nil
		}
	}
	return nil, shared.ErrChargeNotFound
}

func (f *fakeLedgerRepo) List(_ context.Context, _ ListPaymentsRequest) ([]Payment, error) {
	return f.payments, nil
}

func passThroughRunner(_ context.Context, fn func(pgx.Tx) error) error {
	return fn(nil)
}

func newTestService(repo *fakeLedgerRepo) *Service {
	return NewService(slog.New(slog.DiscardHandler), passThroughRunner, repo, nil)
}

func testCharge() *billing.MonthlyCharge {
	return &billing.MonthlyCharge{
		ID:            1,
		StudentID:     7,
		TotalAmount:   100000,
		AmountPaid:    0,
		AmountPending: 100000,
		Status:        billing.StatusPending,
	}
}

func marchFirst() time.Time {
	return time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
}

func TestRecordPaymentPartialThenPaid(t *testing.T) {
	repo := newFakeLedgerRepo(testCharge())
	svc := newTestService(repo)

	first, err := svc.RecordPayment(context.Background(), RecordPaymentRequest{
		MonthlyChargeID: 1, Amount: 40000, Mode: "cash", PaymentDate: marchFirst(),
	}, 2)
	require.NoError(t, err)
	require.Equal(t, "RCP-20250301-00001", first.ReceiptNumber)
	require.Equal(t, "partial", first.Status)
	require.Equal(t, int64(60000), first.AmountPending)

	second, err := svc.RecordPayment(context.Background(), RecordPaymentRequest{
		MonthlyChargeID: 1, Amount: 60000, Mode: "upi", PaymentDate: marchFirst(),
	}, 2)
	require.NoError(t, err)
	require.Equal(t, "RCP-20250301-00002", second.ReceiptNumber)
	require.Equal(t, "paid", second.Status)
	require.Zero(t, second.AmountPending)

	charge := repo.charges[1]
	require.Equal(t, int64(100000), charge.AmountPaid)
	require.Zero(t, charge.AmountPending)
	require.Equal(t, billing.StatusPaid, charge.Status)
}

func TestRecordPaymentAgainstPaidChargeRejected(t *testing.T) {
	charge := testCharge()
	charge.AmountPaid = 100000
	charge.AmountPending = 0
	charge.Status = billing.StatusPaid
	repo := newFakeLedgerRepo(charge)
	svc := newTestService(repo)

	_, err := svc.RecordPayment(context.Background(), RecordPaymentRequest{
		MonthlyChargeID: 1, Amount: 1, Mode: "cash", PaymentDate: marchFirst(),
	}, 2)
	require.ErrorIs(t, err, shared.ErrOverpaymentRejected)
	require.Empty(t, repo.payments)
}

func TestRecordPaymentOverpaymentLeavesChargeUnchanged(t *testing.T) {
	repo := newFakeLedgerRepo(testCharge())
	svc := newTestService(repo)

	_, err := svc.RecordPayment(context.Background(), RecordPaymentRequest{
		MonthlyChargeID: 1, Amount: 100001, Mode: "cash", PaymentDate: marchFirst(),
	}, 2)
	require.ErrorIs(t, err, shared.ErrOverpaymentRejected)

	charge := repo.charges[1]
	require.Zero(t, charge.AmountPaid)
	require.Equal(t, int64(100000), charge.AmountPending)
	require.Equal(t, billing.StatusPending, charge.Status)
	require.Empty(t, repo.payments)
}

func TestRecordPaymentRejectsNonPositiveAmount(t *testing.T) {
	svc := newTestService(newFakeLedgerRepo(testCharge()))

	for _, amount := range []int64{0, -500} {
		_, err := svc.RecordPayment(context.Background(), RecordPaymentRequest{
			MonthlyChargeID: 1, Amount: amount, Mode: "cash",
		}, 2)
		require.ErrorIs(t, err, shared.ErrInvalidAmount)
	}
}

func TestRecordPaymentStudentMismatch(t *testing.T) {
	repo := newFakeLedgerRepo(testCharge())
	svc := newTestService(repo)

	_, err := svc.RecordPayment(context.Background(), RecordPaymentRequest{
		MonthlyChargeID: 1, StudentID: 99, Amount: 1000, Mode: "cash",
	}, 2)
	require.ErrorIs(t, err, shared.ErrStudentMismatch)
	require.Empty(t, repo.payments)
}

func TestRecordPaymentUnknownCharge(t *testing.T) {
	svc := newTestService(newFakeLedgerRepo())

	_, err := svc.RecordPayment(context.Background(), RecordPaymentRequest{
		MonthlyChargeID: 404, Amount: 1000, Mode: "cash",
	}, 2)
	require.ErrorIs(t, err, shared.ErrChargeNotFound)
}

func TestReceiptCounterRestartsEachDay(t *testing.T) {
	chargeA := testCharge()
	chargeB := &billing.MonthlyCharge{ID: 2, StudentID: 8, TotalAmount: 100000, AmountPending: 100000, Status: billing.StatusPending}
	repo := newFakeLedgerRepo(chargeA, chargeB)
	svc := newTestService(repo)

	first, err := svc.RecordPayment(context.Background(), RecordPaymentRequest{
		MonthlyChargeID: 1, Amount: 1000, Mode: "cash", PaymentDate: marchFirst(),
	}, 2)
	require.NoError(t, err)
	require.Equal(t, "RCP-20250301-00001", first.ReceiptNumber)

	next, err := svc.RecordPayment(context.Background(), RecordPaymentRequest{
		MonthlyChargeID: 2, Amount: 1000, Mode: "cash", PaymentDate: marchFirst().AddDate(0, 0, 1),
	}, 2)
	require.NoError(t, err)
	require.Equal(t, "RCP-20250302-00001", next.ReceiptNumber)
}

func TestFormatReceipt(t *testing.T) {
	require.Equal(t, "RCP-20250301-00001", FormatReceipt(marchFirst(), 1))
	require.Equal(t, "RCP-20251231-12345", FormatReceipt(time.Date(2025, time.December, 31, 23, 59, 0, 0, time.UTC), 12345))
}
