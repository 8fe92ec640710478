// Package authz decides whether the caller carried in a context may run an
// operation. The identity is placed in the context by the token middleware;
// nothing here depends on an HTTP framework.
package authz

import (
	"context"

	"taxi-booking/internal/common/types"

	"github.com/google/uuid"
)

// Identity is the authenticated caller.
type Identity struct {
	UserID uuid.UUID
	Role   types.Role
	// RoleID is the role-scoped id (admin, client or driver id). uuid.Nil when absent.
	RoleID uuid.UUID
}

type contextKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}

// RoleSet is the set of roles allowed to run an operation.
type RoleSet map[types.Role]struct{}

func NewRoleSet(roles ...types.Role) RoleSet {
	s := make(RoleSet, len(roles))
	for _, r := range roles {
		s[r] = struct{}{}
	}
	return s
}

func (s RoleSet) Contains(r types.Role) bool {
	_, ok := s[r]
	return ok
}

// Authorize reports whether the caller's role is in allowed. An
// unauthenticated context is never authorized.
func Authorize(ctx context.Context, allowed RoleSet) bool {
	id, ok := IdentityFromContext(ctx)
	if !ok {
		return false
	}
	return allowed.Contains(id.Role)
}

// RoleIDFromContext returns the caller's role-scoped id.
func RoleIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := IdentityFromContext(ctx)
	if !ok || id.RoleID == uuid.Nil {
		return uuid.Nil, false
	}
	return id.RoleID, true
}
