package auth

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/vidyakosh-erp/vidyakosh-erp/internal/platform/httpx"
)

// RepositoryPort defines operator lookup for the service.
type RepositoryPort interface {
	GetByUsername(ctx context.Context, username string) (*Operator, error)
}

// Service handles operator authentication.
type Service struct {
	repo   RepositoryPort
	tokens *TokenStore
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, tokens *TokenStore) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// Login verifies credentials and issues a bearer token.
func (s *Service) Login(ctx context.Context, username, password string) (string, *Operator, error) {
	op, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return "", nil, fmt.Errorf("%w: invalid credentials", httpx.ErrUnauthorized)
	}
	if !op.Active {
		return "", nil, fmt.Errorf("%w: operator disabled", httpx.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(password)); err != nil {
		return "", nil, fmt.Errorf("%w: invalid credentials", httpx.ErrUnauthorized)
	}
	token, err := s.tokens.Issue(ctx, op)
	if err != nil {
		return "", nil, err
	}
	return token, op, nil
}
