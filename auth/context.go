package auth

import (
	"context"
)

// Context keys for auth-related values.
type contextKey int

const (
	identityKey contextKey = iota
	headersKey
	userScopeKey
)

// UserScope carries the per-request correlation identifiers a caller
// binds a request to: which user it belongs to and the request/thread/run
// ids used to correlate logs and events across a single agent run. It
// lives in auth, not in the session package that owns the rest of this
// lifecycle, so that neither package has to import the other to pass it
// through a context.Context.
type UserScope struct {
	UserID    string
	RequestID string
	ThreadID  string
	RunID     string
}

// WithUserContext returns a new context with scope attached.
func WithUserContext(ctx context.Context, scope UserScope) context.Context {
	return context.WithValue(ctx, userScopeKey, scope)
}

// UserContextFrom retrieves the UserScope attached by WithUserContext.
// ok is false if none is present.
func UserContextFrom(ctx context.Context) (scope UserScope, ok bool) {
	scope, ok = ctx.Value(userScopeKey).(UserScope)
	return scope, ok
}

// WithIdentity returns a new context with the given identity attached.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext retrieves the identity from the context.
// Returns nil if no identity is present.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey).(*Identity)
	return id
}

// PrincipalFromContext retrieves the principal from the context.
// Returns empty string if no identity is present.
func PrincipalFromContext(ctx context.Context) string {
	id := IdentityFromContext(ctx)
	if id == nil {
		return ""
	}
	return id.Principal
}

// TenantIDFromContext retrieves the tenant ID from the context.
// Returns empty string if no identity is present or tenant is not set.
func TenantIDFromContext(ctx context.Context) string {
	id := IdentityFromContext(ctx)
	if id == nil {
		return ""
	}
	return id.TenantID
}

// WithHeaders returns a new context with the given HTTP headers attached.
// These headers are used by authenticators to extract credentials.
func WithHeaders(ctx context.Context, headers map[string][]string) context.Context {
	return context.WithValue(ctx, headersKey, headers)
}

// HeadersFromContext retrieves HTTP headers from the context.
// Returns nil if no headers are present.
func HeadersFromContext(ctx context.Context) map[string][]string {
	h, _ := ctx.Value(headersKey).(map[string][]string)
	return h
}

// GetHeader retrieves a single header value from the context.
// Returns the first value if multiple values exist, or empty string if not found.
func GetHeader(ctx context.Context, key string) string {
	headers := HeadersFromContext(ctx)
	if headers == nil {
		return ""
	}
	values := headers[key]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
