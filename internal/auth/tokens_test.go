package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/vidyakosh-erp/vidyakosh-erp/internal/platform/httpx"
)

func testTokenStore(t *testing.T) (*TokenStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewTokenStore(client, time.Hour), mr
}

func TestTokenIssueAndLookup(t *testing.T) {
	store, _ := testTokenStore(t)
	ctx := context.Background()

	token, err := store.Issue(ctx, &Operator{ID: 42, Role: RoleAccountant})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	identity, err := store.Lookup(ctx, token)
	require.NoError(t, err)
	require.Equal(t, int64(42), identity.OperatorID)
	require.Equal(t, RoleAccountant, identity.Role)
}

func TestTokenLookupUnknown(t *testing.T) {
	store, _ := testTokenStore(t)

	_, err := store.Lookup(context.Background(), "never-issued")
	require.ErrorIs(t, err, httpx.ErrUnauthorized)
}

func TestTokenExpires(t *testing.T) {
	store, mr := testTokenStore(t)
	ctx := context.Background()

	token, err := store.Issue(ctx, &Operator{ID: 1, Role: RoleAdmin})
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)

	_, err = store.Lookup(ctx, token)
	require.ErrorIs(t, err, httpx.ErrUnauthorized)
}

func TestTokenRevoke(t *testing.T) {
	store, _ := testTokenStore(t)
	ctx := context.Background()

	token, err := store.Issue(ctx, &Operator{ID: 1, Role: RoleAdmin})
	require.NoError(t, err)
	require.NoError(t, store.Revoke(ctx, token))

	_, err = store.Lookup(ctx, token)
	require.ErrorIs(t, err, httpx.ErrUnauthorized)
}
