package auth

import "context"

// DefaultAuthority is granted to every authenticated caller unless a
// different RoleResolver is configured.
const DefaultAuthority = "ROLE_ADMIN"

// Principal is the identity established for one request.
type Principal struct {
	Subject   string
	Authority string
}

// RoleResolver picks the authority for an authenticated subject.
type RoleResolver func(ctx context.Context, subject string) (string, error)

// FixedRole grants the same authority to every subject.
func FixedRole(authority string) RoleResolver {
	return func(context.Context, string) (string, error) {
		return authority, nil
	}
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal installed by the token filter,
// or false when the request is anonymous.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	if !ok || p == nil {
		return nil, false
	}
	return p, true
}
