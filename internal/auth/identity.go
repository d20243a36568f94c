// Package auth carries the caller identity supplied by the external auth
// collaborator. Authentication itself happens upstream (gateway); this
// service only reads the identity headers and enforces the assignment
// ownership check in the allocation ledger.
package auth

import (
	"context"
	"net/http"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleLister Role = "lister"
)

// Identity is the authenticated caller as asserted by the gateway.
type Identity struct {
	UserID string
	Role   Role
}

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// CanAccessAssignment is the only authorization rule this core enforces:
// admins see everything, listers only their own assignments.
func (i Identity) CanAccessAssignment(listerID string) bool {
	return i.IsAdmin() || (i.UserID != "" && i.UserID == listerID)
}

type ctxKey struct{}

// Middleware extracts the identity headers set by the auth collaborator.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := Identity{
			UserID: r.Header.Get("X-User-ID"),
			Role:   Role(r.Header.Get("X-User-Role")),
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) Identity {
	if id, ok := ctx.Value(ctxKey{}).(Identity); ok {
		return id
	}
	return Identity{}
}
