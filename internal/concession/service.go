package concession

import (
	"context"
	"fmt"
	"time"
)

// RepositoryPort defines data access methods for concessions.
type RepositoryPort interface {
	ListActive(ctx context.Context, studentID int64, asOf time.Time) ([]Concession, error)
	List(ctx context.Context, req ListConcessionsRequest) ([]Concession, error)
	Get(ctx context.Context, id int64) (*Concession, error)
	Create(ctx context.Context, c Concession) (*Concession, error)
	Deactivate(ctx context.Context, id int64) error
}

// Service manages concession grants and evaluates reductions.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ReductionFor returns the total reduction on gross for a student on asOf.
func (s *Service) ReductionFor(ctx context.Context, studentID int64, gross int64, asOf time.Time) (int64, error) {
	if gross <= 0 {
		return 0, nil
	}
	active, err := s.repo.ListActive(ctx, studentID, asOf)
	if err != nil {
		return 0, fmt.Errorf("load concessions for student %d: %w", studentID, err)
	}
	return ComputeReduction(gross, active), nil
}

// Create grants a concession. approvedBy is the operator performing the grant.
func (s *Service) Create(ctx context.Context, req CreateConcessionRequest, approvedBy int64) (*Concession, error) {
	return s.repo.Create(ctx, Concession{
		StudentID:   req.StudentID,
		Type:        req.Type,
		Percentage:  req.Percentage,
		FixedAmount: req.FixedAmount,
		Reason:      req.Reason,
		ApprovedBy:  &approvedBy,
		ValidFrom:   req.ValidFrom,
		ValidTo:     req.ValidTo,
		Active:      true,
	})
}

// List returns concessions matching the filters.
func (s *Service) List(ctx context.Context, req ListConcessionsRequest) ([]Concession, error) {
	return s.repo.List(ctx, req)
}

// Get returns one concession.
func (s *Service) Get(ctx context.Context, id int64) (*Concession, error) {
	return s.repo.Get(ctx, id)
}

// Revoke deactivates a concession without deleting its history. Charges
// already generated keep the reduction they were priced with.
func (s *Service) Revoke(ctx context.Context, id int64) error {
	return s.repo.Deactivate(ctx, id)
}
