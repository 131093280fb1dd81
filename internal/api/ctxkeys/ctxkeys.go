// Package ctxkeys holds the shared context keys for the API layer.
// Extracted to a leaf package to avoid import cycles between api,
// api/middleware, and api/handlers.
package ctxkeys

import "context"

// Key is the unexported named type for all API context keys. A named type
// keeps context.Value lookups from colliding with string keys elsewhere.
type Key string

const (
	// Subject is the token subject of the authenticated caller.
	// Injected by the history auth middleware from JWT claims.
	Subject Key = "subject"

	// Scope is the granted token scope.
	Scope Key = "scope"
)

// WithValue adds a ctxkeys.Key value to the context.
func WithValue(ctx context.Context, key Key, value string) context.Context {
	return context.WithValue(ctx, key, value)
}
