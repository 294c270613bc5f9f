package authz

import "context"

// Identity is the authenticated caller, extracted from the bearer token by
// the HTTP layer and read back at the storage boundary.
type Identity struct {
	ManagerID int64
	Role      string
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the caller identity, or a zero Identity with
// ok=false when the context carries none (internal callers, tests).
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// RoleFromContext returns the caller's role, defaulting to viewer so that
// unauthenticated contexts can never write.
func RoleFromContext(ctx context.Context) string {
	if id, ok := IdentityFromContext(ctx); ok {
		return id.Role
	}
	return RoleViewer
}
