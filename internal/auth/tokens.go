package auth

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/vidyakosh-erp/vidyakosh-erp/internal/platform/httpx"
)

const tokenKeyPrefix = "auth:token:"

// TokenStore keeps bearer tokens in redis with a TTL. Tokens are opaque
// UUIDs; the stored value is "<operator_id>:<role>".
type TokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTokenStore constructs the store.
func NewTokenStore(client *redis.Client, ttl time.Duration) *TokenStore {
	return &TokenStore{client: client, ttl: ttl}
}

// Issue creates a new token for the operator.
func (s *TokenStore) Issue(ctx context.Context, op *Operator) (string, error) {
	token := uuid.NewString()
	value := fmt.Sprintf("%d:%s", op.ID, op.Role)
	if err := s.client.Set(ctx, tokenKeyPrefix+token, value, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("auth: store token: %w", err)
	}
	return token, nil
}

// Lookup resolves a token to an identity. Unknown or expired tokens map
// to ErrUnauthorized.
func (s *TokenStore) Lookup(ctx context.Context, token string) (Identity, error) {
	value, err := s.client.Get(ctx, tokenKeyPrefix+token).Result()
	if err == redis.Nil {
		return Identity{}, fmt.Errorf("%w: unknown token", httpx.ErrUnauthorized)
	}
	if err != nil {
		return Identity{}, fmt.Errorf("auth: lookup token: %w", err)
	}
	idStr, roleStr, ok := strings.Cut(value, ":")
	if !ok {
		return Identity{}, fmt.Errorf("%w: malformed token record", httpx.ErrUnauthorized)
	}
	operatorID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: malformed token record", httpx.ErrUnauthorized)
	}
	return Identity{OperatorID: operatorID, Role: Role(roleStr)}, nil
}

// Revoke deletes a token.
func (s *TokenStore) Revoke(ctx context.Context, token string) error {
	return s.client.Del(ctx, tokenKeyPrefix+token).Err()
}
