package auth

import "context"

// Role enumerates operator roles.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleAccountant Role = "accountant"
	RoleViewer     Role = "viewer"
)

// Operator is a back-office user allowed to call the fee engine.
type Operator struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         Role
	Active       bool
}

// Identity is the authenticated caller attached to the request context.
type Identity struct {
	OperatorID int64
	Role       Role
}

type identityKey struct{}

// ContextWithIdentity attaches the caller identity to the context.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the caller identity, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
