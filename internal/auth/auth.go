// Package auth resolves caller identities from HTTP requests.
package auth

import (
	"context"
	"net/http"
)

// Identity is an authenticated caller. Role is carried but callers decide
// whether to enforce it.
type Identity struct {
	Subject string `json:"sub"`
	Role    string `json:"role,omitempty"`
}

// Resolver returns the caller identity for a request. The boolean is false
// when no identity could be established, for whatever reason.
type Resolver interface {
	Resolve(r *http.Request) (Identity, bool)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(r *http.Request) (Identity, bool)

// Resolve calls f(r).
func (f ResolverFunc) Resolve(r *http.Request) (Identity, bool) {
	return f(r)
}

// Anonymous never resolves an identity.
var Anonymous Resolver = ResolverFunc(func(*http.Request) (Identity, bool) {
	return Identity{}, false
})

type contextKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the identity stored by WithIdentity.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}
