package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/kardexcare/service-api/internal/domain"
)

// UserContext holds authenticated user information
type UserContext struct {
	UserID      uuid.UUID
	DisplayName string
	Email       string
	Role        domain.UserRole
	// ZoneIDs are the zones the user covers (zone-scoped roles only)
	ZoneIDs []uuid.UUID
	// CustomerID is set for customer-scoped roles
	CustomerID *uuid.UUID
}

type contextKey string

const userContextKey contextKey = "userContext"
const scopeKey contextKey = "dataScope"

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok
}

// MustFromContext extracts user context or panics
func MustFromContext(ctx context.Context) *UserContext {
	user, ok := FromContext(ctx)
	if !ok {
		panic("user context not found in context")
	}
	return user
}

// HasRole checks if user has a specific role
func (u *UserContext) HasRole(role domain.UserRole) bool {
	return u.Role == role
}

// HasAnyRole checks if user has any of the specified roles
func (u *UserContext) HasAnyRole(roles ...domain.UserRole) bool {
	for _, role := range roles {
		if u.Role == role {
			return true
		}
	}
	return false
}

// IsAdmin checks if the user has unrestricted access
func (u *UserContext) IsAdmin() bool {
	return u.Role == domain.RoleAdmin
}

// IsCustomerUser checks if the user is scoped to a single customer
func (u *UserContext) IsCustomerUser() bool {
	return u.Role.IsCustomerRole()
}

// CanAccessCustomer checks if a customer-scoped user may see the given customer
func (u *UserContext) CanAccessCustomer(customerID uuid.UUID) bool {
	if !u.IsCustomerUser() {
		return true
	}
	return u.CustomerID != nil && *u.CustomerID == customerID
}

// ScopeKind says which dimension a scope filters on
type ScopeKind int

const (
	// ScopeUnrestricted applies no filtering
	ScopeUnrestricted ScopeKind = iota
	// ScopeZones limits rows to the listed zones. An empty list matches
	// nothing: a zone-scoped user with no assignments sees no rows.
	ScopeZones
	// ScopeCustomer limits rows to a single customer
	ScopeCustomer
)

// Scope describes the data visibility boundary repositories apply to queries.
// The zero Scope is unrestricted.
type Scope struct {
	Kind ScopeKind
	// ZoneIDs limits rows to these zones when Kind is ScopeZones
	ZoneIDs []uuid.UUID
	// CustomerID limits rows to a single customer when Kind is ScopeCustomer
	CustomerID *uuid.UUID
}

// IsUnrestricted reports whether the scope applies no filtering
func (s *Scope) IsUnrestricted() bool {
	return s.Kind == ScopeUnrestricted
}

// ScopeForUser derives the data scope from a user's role and assignments
func ScopeForUser(u *UserContext) *Scope {
	switch {
	case u.Role.IsZoneScoped():
		return &Scope{Kind: ScopeZones, ZoneIDs: u.ZoneIDs}
	case u.Role.IsCustomerRole():
		return &Scope{Kind: ScopeCustomer, CustomerID: u.CustomerID}
	case u.Role == domain.RoleServicePerson:
		// Service people without zone links cover everywhere; once linked
		// they see only their zones
		if len(u.ZoneIDs) == 0 {
			return &Scope{}
		}
		return &Scope{Kind: ScopeZones, ZoneIDs: u.ZoneIDs}
	default:
		// ADMIN, EXPERT_HELPDESK, EXTERNAL_USER see everything
		return &Scope{}
	}
}

// WithScope adds a data scope to the context
func WithScope(ctx context.Context, scope *Scope) context.Context {
	return context.WithValue(ctx, scopeKey, scope)
}

// ScopeFromContext extracts the data scope from the context
func ScopeFromContext(ctx context.Context) (*Scope, bool) {
	scope, ok := ctx.Value(scopeKey).(*Scope)
	return scope, ok
}

// EffectiveScope returns the scope repositories should apply. Falls back to
// deriving it from the user context when middleware did not set one.
func EffectiveScope(ctx context.Context) *Scope {
	if scope, ok := ScopeFromContext(ctx); ok && scope != nil {
		return scope
	}
	if userCtx, ok := FromContext(ctx); ok {
		return ScopeForUser(userCtx)
	}
	return &Scope{}
}
