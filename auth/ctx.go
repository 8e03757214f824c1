package auth

import (
	"context"

	"github.com/formation-app/centre-server/model"
	"github.com/google/uuid"
)

var principalCtxKey = &contextKey{"principal"}

type contextKey struct {
	name string
}

// Principal is the request scoped authenticated actor. It is created fresh
// per request by the auth pipelines and must never outlive the request.
type Principal struct {
	User   *model.User
	Source ResolutionSource
}

// ID returns the account id
func (p *Principal) ID() uuid.UUID {
	return p.User.ID
}

// Login returns the account login
func (p *Principal) Login() string {
	return p.User.Login
}

// Role returns the stored role, re-read from the store this request.
func (p *Principal) Role() model.UserRole {
	return p.User.Role
}

// HasAnyRole reports whether the principal's role is in the given set.
func (p *Principal) HasAnyRole(roles ...model.UserRole) bool {
	for _, r := range roles {
		if p.User.Role == r {
			return true
		}
	}
	return false
}

// WithPrincipal sets the Principal in the given context
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey, p)
}

// PrincipalFromContext finds the principal from the context.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	raw, ok := ctx.Value(principalCtxKey).(*Principal)
	if !ok || raw == nil {
		return nil, false
	}
	return raw, true
}
