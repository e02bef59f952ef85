package feestructure

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vidyakosh-erp/vidyakosh-erp/internal/shared"
)

type fakeRepo struct {
	structures map[[2]int64]*FeeStructure
	routes     map[int64]int64
	nextID     int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		structures: make(map[[2]int64]*FeeStructure),
		routes:     make(map[int64]int64),
	}
}

func (f *fakeRepo) GetByClassYear(_ context.Context, classID, academicYearID int64) (*FeeStructure, error) {
	fs, ok := f.structures[[2]int64{classID, academicYearID}]
	if !ok {
		return nil, shared.ErrNotConfigured
	}
	return fs, nil
}

func (f *fakeRepo) Get(_ context.Context, id int64) (*FeeStructure, error) {
	for _, fs := range f.structures {
		if fs.ID == id {
			return fs, nil
		}
	}
	return nil, shared.ErrNotConfigured
}

func (f *fakeRepo) List(_ context.Context, _ ListFeeStructuresRequest) ([]FeeStructure, error) {
	var out []FeeStructure
	for _, fs := range f.structures {
		out = append(out, *fs)
	}
	return out, nil
}

func (f *fakeRepo) Create(_ context.Context, fs FeeStructure) (*FeeStructure, error) {
	key := [2]int64{fs.ClassID, fs.AcademicYearID}
	if _, exists := f.structures[key]; exists {
		return nil, shared.ErrStructureExists
	}
	f.nextID++
	fs.ID = f.nextID
	f.structures[key] = &fs
	return &fs, nil
}

func (f *fakeRepo) Update(_ context.Context, id int64, tuition, hostel *int64) error {
	for _, fs := range f.structures {
		if fs.ID == id {
			if tuition != nil {
				fs.TuitionAmount = *tuition
			}
			if hostel != nil {
				fs.HostelAmount = *hostel
			}
			return nil
		}
	}
	return shared.ErrNotConfigured
}

func (f *fakeRepo) GetRouteMonthlyFee(_ context.Context, routeID int64) (int64, error) {
	return f.routes[routeID], nil
}

func TestResolveReturnsComponents(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), CreateFeeStructureRequest{
		ClassID: 5, AcademicYearID: 1, TuitionAmount: 200000, HostelAmount: 150000,
	})
	require.NoError(t, err)

	resolved, err := svc.Resolve(context.Background(), 5, 1)
	require.NoError(t, err)
	require.Equal(t, int64(200000), resolved.TuitionAmount)
	require.Equal(t, int64(150000), resolved.HostelAmount)
}

func TestResolveNotConfigured(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Resolve(context.Background(), 99, 1)
	require.ErrorIs(t, err, shared.ErrNotConfigured)
}

func TestCreateDuplicateRejected(t *testing.T) {
	svc := NewService(newFakeRepo())
	req := CreateFeeStructureRequest{ClassID: 5, AcademicYearID: 1, TuitionAmount: 200000}

	_, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), req)
	require.ErrorIs(t, err, shared.ErrStructureExists)
}

func TestRouteMonthlyFee(t *testing.T) {
	repo := newFakeRepo()
	repo.routes[3] = 50000
	svc := NewService(repo)

	fee, err := svc.RouteMonthlyFee(context.Background(), nil)
	require.NoError(t, err)
	require.Zero(t, fee, "no assigned route means no transport fee")

	route := int64(3)
	fee, err = svc.RouteMonthlyFee(context.Background(), &route)
	require.NoError(t, err)
	require.Equal(t, int64(50000), fee)
}

func TestUpdateLeavesOtherFieldUntouched(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	created, err := svc.Create(context.Background(), CreateFeeStructureRequest{
		ClassID: 5, AcademicYearID: 1, TuitionAmount: 200000, HostelAmount: 150000,
	})
	require.NoError(t, err)

	tuition := int64(250000)
	updated, err := svc.Update(context.Background(), created.ID, UpdateFeeStructureRequest{TuitionAmount: &tuition})
	require.NoError(t, err)
	require.Equal(t, int64(250000), updated.TuitionAmount)
	require.Equal(t, int64(150000), updated.HostelAmount)
}
