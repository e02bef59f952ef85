package billing

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vidyakosh-erp/vidyakosh-erp/internal/feestructure"
	"github.com/vidyakosh-erp/vidyakosh-erp/internal/roster"
	"github.com/vidyakosh-erp/vidyakosh-erp/internal/shared"
)

type fakeRoster struct {
	students []roster.Student
}

func (f *fakeRoster) ListActiveStudents(_ context.Context, _ int64) ([]roster.Student, error) {
	return f.students, nil
}

type fakeStructures struct {
	byClass map[int64]feestructure.Resolved
	routes  map[int64]int64
}

func (f *fakeStructures) Resolve(_ context.Context, classID, _ int64) (feestructure.Resolved, error) {
	resolved, ok := f.byClass[classID]
	if !ok {
		return feestructure.Resolved{}, shared.ErrNotConfigured
	}
	return resolved, nil
}

func (f *fakeStructures) RouteMonthlyFee(_ context.Context, routeID *int64) (int64, error) {
	if routeID == nil {
		return 0, nil
	}
	return f.routes[*routeID], nil
}

type fakeConcessions struct {
	reductions map[int64]int64 // studentID -> flat reduction
}

func (f *fakeConcessions) ReductionFor(_ context.Context, studentID int64, gross int64, _ time.Time) (int64, error) {
	r := f.reductions[studentID]
	if r > gross {
		r = gross
	}
	return r, nil
}

type fakeChargeRepo struct {
	charges []MonthlyCharge
	nextID  int64
}

func (f *fakeChargeRepo) key(c MonthlyCharge) [4]int64 {
	return [4]int64{c.StudentID, c.AcademicYearID, int64(c.Month), int64(c.Year)}
}

func (f *fakeChargeRepo) BilledStudentIDs(_ context.Context, academicYearID int64, period shared.Period) (map[int64]struct{}, error) {
	billed := make(map[int64]struct{})
	for _, c := range f.charges {
		if c.AcademicYearID == academicYearID && c.Month == period.Month && c.Year == period.Year {
			billed[c.StudentID] = struct{}{}
		}
	}
	return billed, nil
}

func (f *fakeChargeRepo) Insert(_ context.Context, c MonthlyCharge) (int64, bool, error) {
	for _, existing := range f.charges {
		if f.key(existing) == f.key(c) {
			return 0, false, nil
		}
	}
	f.nextID++
	c.ID = f.nextID
	f.charges = append(f.charges, c)
	return c.ID, true, nil
}

func (f *fakeChargeRepo) Get(_ context.Context, id int64) (*MonthlyCharge, error) {
	for i := range f.charges {
		if f.charges[i].ID == id {
			return &f.charges[i], nil
		}
	}
	return nil, shared.ErrChargeNotFound
}

func (f *fakeChargeRepo) List(_ context.Context, _ ListChargesRequest) ([]MonthlyCharge, error) {
	return f.charges, nil
}

type fakeNotifier struct {
	calls int
	err   error
}

func (f *fakeNotifier) ChargeCreated(_ context.Context, _ roster.Student, _ MonthlyCharge) error {
	f.calls++
	return f.err
}

func newTestGenerator(r *fakeRoster, s *fakeStructures, c *fakeConcessions, repo *fakeChargeRepo, n Notifier) *Generator {
	return NewGenerator(slog.New(slog.DiscardHandler), r, s, c, repo, n, nil, 10)
}

func routeID(id int64) *int64 { return &id }

func TestGenerateSingleStudent(t *testing.T) {
	repo := &fakeChargeRepo{}
	gen := newTestGenerator(
		&fakeRoster{students: []roster.Student{{ID: 1, ClassID: 5}}},
		&fakeStructures{byClass: map[int64]feestructure.Resolved{5: {TuitionAmount: 200000}}},
		&fakeConcessions{},
		repo, nil,
	)

	summary, err := gen.Generate(context.Background(), GenerateRequest{AcademicYearID: 1, Month: 3, Year: 2025}, 1)
	require.NoError(t, err)
	require.Equal(t, 1, summary.CreatedCount)
	require.Zero(t, summary.SkippedCount)
	require.Empty(t, summary.Errors)
	require.NotEmpty(t, summary.RunID)

	require.Len(t, repo.charges, 1)
	charge := repo.charges[0]
	require.Equal(t, int64(200000), charge.TotalAmount)
	require.Equal(t, int64(200000), charge.AmountPending)
	require.Zero(t, charge.AmountPaid)
	require.Equal(t, StatusPending, charge.Status)
	require.Equal(t, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), charge.DueDate)
}

func TestGenerateAppliesConcession(t *testing.T) {
	repo := &fakeChargeRepo{}
	gen := newTestGenerator(
		&fakeRoster{students: []roster.Student{{ID: 1, ClassID: 5}}},
		&fakeStructures{byClass: map[int64]feestructure.Resolved{5: {TuitionAmount: 200000}}},
		&fakeConcessions{reductions: map[int64]int64{1: 100000}},
		repo, nil,
	)

	_, err := gen.Generate(context.Background(), GenerateRequest{AcademicYearID: 1, Month: 3, Year: 2025}, 1)
	require.NoError(t, err)

	charge := repo.charges[0]
	require.Equal(t, int64(100000), charge.ConcessionAmount)
	require.Equal(t, int64(100000), charge.TotalAmount)
	require.Equal(t, int64(100000), charge.AmountPending)
}

func TestGenerateAddOns(t *testing.T) {
	repo := &fakeChargeRepo{}
	gen := newTestGenerator(
		&fakeRoster{students: []roster.Student{
			{ID: 1, ClassID: 5, HasHostel: true, TransportRouteID: routeID(3)},
			{ID: 2, ClassID: 5},
		}},
		&fakeStructures{
			byClass: map[int64]feestructure.Resolved{5: {TuitionAmount: 200000, HostelAmount: 150000}},
			routes:  map[int64]int64{3: 50000},
		},
		&fakeConcessions{},
		repo, nil,
	)

	_, err := gen.Generate(context.Background(), GenerateRequest{AcademicYearID: 1, Month: 3, Year: 2025}, 1)
	require.NoError(t, err)
	require.Len(t, repo.charges, 2)

	withAddOns := repo.charges[0]
	require.Equal(t, int64(150000), withAddOns.HostelAmount)
	require.Equal(t, int64(50000), withAddOns.TransportAmount)
	require.Equal(t, int64(400000), withAddOns.TotalAmount)

	// Hostel amount exists in the structure but the day scholar skips it.
	dayScholar := repo.charges[1]
	require.Zero(t, dayScholar.HostelAmount)
	require.Zero(t, dayScholar.TransportAmount)
	require.Equal(t, int64(200000), dayScholar.TotalAmount)
}

func TestGenerateIsIdempotent(t *testing.T) {
	repo := &fakeChargeRepo{}
	gen := newTestGenerator(
		&fakeRoster{students: []roster.Student{{ID: 1, ClassID: 5}, {ID: 2, ClassID: 5}, {ID: 3, ClassID: 5}}},
		&fakeStructures{byClass: map[int64]feestructure.Resolved{5: {TuitionAmount: 200000}}},
		&fakeConcessions{},
		repo, nil,
	)
	req := GenerateRequest{AcademicYearID: 1, Month: 3, Year: 2025}

	first, err := gen.Generate(context.Background(), req, 1)
	require.NoError(t, err)
	require.Equal(t, 3, first.CreatedCount)

	second, err := gen.Generate(context.Background(), req, 1)
	require.NoError(t, err)
	require.Zero(t, second.CreatedCount)
	require.Equal(t, 3, second.SkippedCount)
	require.Empty(t, second.Errors)
	require.Len(t, repo.charges, 3)
}

func TestGeneratePartialFailure(t *testing.T) {
	repo := &fakeChargeRepo{}
	gen := newTestGenerator(
		&fakeRoster{students: []roster.Student{
			{ID: 1, ClassID: 5},
			{ID: 2, ClassID: 99}, // no structure configured
			{ID: 3, ClassID: 5},
		}},
		&fakeStructures{byClass: map[int64]feestructure.Resolved{5: {TuitionAmount: 200000}}},
		&fakeConcessions{},
		repo, nil,
	)

	summary, err := gen.Generate(context.Background(), GenerateRequest{AcademicYearID: 1, Month: 3, Year: 2025}, 1)
	require.NoError(t, err)
	require.Equal(t, 2, summary.CreatedCount)
	require.Len(t, summary.Errors, 1)
	require.Equal(t, int64(2), summary.Errors[0].StudentID)
	require.Contains(t, summary.Errors[0].Reason, "not configured")
}

func TestGenerateConcessionOverGrossFloorsAtZero(t *testing.T) {
	repo := &fakeChargeRepo{}
	gen := newTestGenerator(
		&fakeRoster{students: []roster.Student{{ID: 1, ClassID: 5}}},
		&fakeStructures{byClass: map[int64]feestructure.Resolved{5: {TuitionAmount: 200000}}},
		&fakeConcessions{reductions: map[int64]int64{1: 999999}},
		repo, nil,
	)

	_, err := gen.Generate(context.Background(), GenerateRequest{AcademicYearID: 1, Month: 3, Year: 2025}, 1)
	require.NoError(t, err)

	charge := repo.charges[0]
	require.Equal(t, int64(200000), charge.ConcessionAmount)
	require.Zero(t, charge.TotalAmount)
	require.Zero(t, charge.AmountPending)
}

func TestGenerateNotificationFailureDoesNotFailRun(t *testing.T) {
	repo := &fakeChargeRepo{}
	notifier := &fakeNotifier{err: errors.New("gateway down")}
	gen := newTestGenerator(
		&fakeRoster{students: []roster.Student{{ID: 1, ClassID: 5}}},
		&fakeStructures{byClass: map[int64]feestructure.Resolved{5: {TuitionAmount: 200000}}},
		&fakeConcessions{},
		repo, notifier,
	)

	summary, err := gen.Generate(context.Background(), GenerateRequest{AcademicYearID: 1, Month: 3, Year: 2025}, 1)
	require.NoError(t, err)
	require.Equal(t, 1, summary.CreatedCount)
	require.Empty(t, summary.Errors)
	require.Equal(t, 1, notifier.calls)
}

func TestGenerateInvalidPeriod(t *testing.T) {
	gen := newTestGenerator(&fakeRoster{}, &fakeStructures{}, &fakeConcessions{}, &fakeChargeRepo{}, nil)

	_, err := gen.Generate(context.Background(), GenerateRequest{AcademicYearID: 1, Month: 13, Year: 2025}, 1)
	require.ErrorIs(t, err, shared.ErrInvalidPeriod)
}

func TestDeriveStatus(t *testing.T) {
	require.Equal(t, StatusPending, DeriveStatus(1000, 0))
	require.Equal(t, StatusPartial, DeriveStatus(1000, 1))
	require.Equal(t, StatusPartial, DeriveStatus(1000, 999))
	require.Equal(t, StatusPaid, DeriveStatus(1000, 1000))
	require.Equal(t, StatusPending, DeriveStatus(0, 0))
}
