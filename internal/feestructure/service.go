package feestructure

import (
	"context"
	"fmt"
)

// RepositoryPort defines data access methods for fee structures.
type RepositoryPort interface {
	GetByClassYear(ctx context.Context, classID, academicYearID int64) (*FeeStructure, error)
	Get(ctx context.Context, id int64) (*FeeStructure, error)
	List(ctx context.Context, req ListFeeStructuresRequest) ([]FeeStructure, error)
	Create(ctx context.Context, fs FeeStructure) (*FeeStructure, error)
	Update(ctx context.Context, id int64, tuition, hostel *int64) error
	GetRouteMonthlyFee(ctx context.Context, routeID int64) (int64, error)
}

// Service resolves base fee components and manages structure definitions.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Resolve returns the base monthly components for a class in a year.
// Propagates shared.ErrNotConfigured when nothing is defined, which the
// generator treats as a per-student error.
func (s *Service) Resolve(ctx context.Context, classID, academicYearID int64) (Resolved, error) {
	fs, err := s.repo.GetByClassYear(ctx, classID, academicYearID)
	if err != nil {
		return Resolved{}, err
	}
	return Resolved{TuitionAmount: fs.TuitionAmount, HostelAmount: fs.HostelAmount}, nil
}

// RouteMonthlyFee returns the transport add-on for a route, zero for nil.
func (s *Service) RouteMonthlyFee(ctx context.Context, routeID *int64) (int64, error) {
	if routeID == nil {
		return 0, nil
	}
	fee, err := s.repo.GetRouteMonthlyFee(ctx, *routeID)
	if err != nil {
		return 0, fmt.Errorf("resolve transport fee: %w", err)
	}
	return fee, nil
}

// Create adds a structure for a (class, year) pair.
func (s *Service) Create(ctx context.Context, req CreateFeeStructureRequest) (*FeeStructure, error) {
	return s.repo.Create(ctx, FeeStructure{
		ClassID:        req.ClassID,
		AcademicYearID: req.AcademicYearID,
		TuitionAmount:  req.TuitionAmount,
		HostelAmount:   req.HostelAmount,
	})
}

// Update edits amounts. Already generated charges keep their frozen copy.
func (s *Service) Update(ctx context.Context, id int64, req UpdateFeeStructureRequest) (*FeeStructure, error) {
	if err := s.repo.Update(ctx, id, req.TuitionAmount, req.HostelAmount); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// List returns structures matching the filters.
func (s *Service) List(ctx context.Context, req ListFeeStructuresRequest) ([]FeeStructure, error) {
	return s.repo.List(ctx, req)
}
