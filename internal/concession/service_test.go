package concession

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	concessions []Concession
}

func (f *fakeRepo) ListActive(_ context.Context, studentID int64, asOf time.Time) ([]Concession, error) {
	var out []Concession
	for _, c := range f.concessions {
		if c.StudentID == studentID && c.AppliesOn(asOf) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeRepo) List(_ context.Context, _ ListConcessionsRequest) ([]Concession, error) {
	return f.concessions, nil
}

func (f *fakeRepo) Get(_ context.Context, id int64) (*Concession, error) {
	for i := range f.concessions {
		if f.concessions[i].ID == id {
			return &f.concessions[i], nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) Create(_ context.Context, c Concession) (*Concession, error) {
	c.ID = int64(len(f.concessions) + 1)
	f.concessions = append(f.concessions, c)
	return &c, nil
}

func (f *fakeRepo) Deactivate(_ context.Context, id int64) error {
	for i := range f.concessions {
		if f.concessions[i].ID == id {
			f.concessions[i].Active = false
		}
	}
	return nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComputeReduction(t *testing.T) {
	t.Run("percentage only", func(t *testing.T) {
		got := ComputeReduction(500000, []Concession{{Percentage: 25}})
		require.Equal(t, int64(125000), got)
	})

	t.Run("fixed only", func(t *testing.T) {
		got := ComputeReduction(500000, []Concession{{FixedAmount: 100000}})
		require.Equal(t, int64(100000), got)
	})

	t.Run("mixed stack is additive", func(t *testing.T) {
		got := ComputeReduction(500000, []Concession{
			{Percentage: 10},
			{FixedAmount: 50000},
		})
		require.Equal(t, int64(100000), got)
	})

	t.Run("clamped at gross", func(t *testing.T) {
		got := ComputeReduction(500000, []Concession{
			{Percentage: 80},
			{FixedAmount: 300000},
		})
		require.Equal(t, int64(500000), got)
	})

	t.Run("stacked percentages past 100 clamp to gross", func(t *testing.T) {
		got := ComputeReduction(500000, []Concession{
			{Percentage: 60},
			{Percentage: 60},
		})
		require.Equal(t, int64(500000), got)
	})

	t.Run("zero gross yields zero", func(t *testing.T) {
		require.Zero(t, ComputeReduction(0, []Concession{{Percentage: 50}}))
	})

	t.Run("integer floor on odd percentage", func(t *testing.T) {
		// 333333 * 7 / 100 = 23333.31 -> 23333
		require.Equal(t, int64(23333), ComputeReduction(333333, []Concession{{Percentage: 7}}))
	})
}

func TestAppliesOn(t *testing.T) {
	from := date(2025, time.April, 1)
	to := date(2026, time.March, 31)

	c := Concession{Active: true, ValidFrom: from, ValidTo: &to}
	require.True(t, c.AppliesOn(from))
	require.True(t, c.AppliesOn(to))
	require.True(t, c.AppliesOn(date(2025, time.September, 15)))
	require.False(t, c.AppliesOn(from.AddDate(0, 0, -1)))
	require.False(t, c.AppliesOn(to.AddDate(0, 0, 1)))

	openEnded := Concession{Active: true, ValidFrom: from}
	require.True(t, openEnded.AppliesOn(date(2030, time.January, 1)))

	inactive := Concession{Active: false, ValidFrom: from}
	require.False(t, inactive.AppliesOn(date(2025, time.September, 15)))
}

func TestReductionForFiltersByWindow(t *testing.T) {
	repo := &fakeRepo{concessions: []Concession{
		{ID: 1, StudentID: 7, Percentage: 50, Active: true, ValidFrom: date(2025, time.April, 1)},
		{ID: 2, StudentID: 7, FixedAmount: 100000, Active: true,
			ValidFrom: date(2024, time.April, 1), ValidTo: ptrTime(date(2025, time.March, 31))},
		{ID: 3, StudentID: 9, Percentage: 100, Active: true, ValidFrom: date(2025, time.April, 1)},
	}}
	svc := NewService(repo)

	// Only the sibling discount is live in June 2025; the expired scholarship
	// and the other student's waiver are ignored.
	got, err := svc.ReductionFor(context.Background(), 7, 400000, date(2025, time.June, 1))
	require.NoError(t, err)
	require.Equal(t, int64(200000), got)
}

func TestRevokeStopsFutureReductions(t *testing.T) {
	repo := &fakeRepo{concessions: []Concession{
		{ID: 1, StudentID: 7, Percentage: 50, Active: true, ValidFrom: date(2025, time.April, 1)},
	}}
	svc := NewService(repo)

	require.NoError(t, svc.Revoke(context.Background(), 1))

	got, err := svc.ReductionFor(context.Background(), 7, 400000, date(2025, time.June, 1))
	require.NoError(t, err)
	require.Zero(t, got)
}

func ptrTime(t time.Time) *time.Time { return &t }
