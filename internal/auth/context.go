package auth

import "context"

// identityContextKey keys the authenticated identity on a request context.
type identityContextKey struct{}

// WithIdentity returns a context carrying the given claims. Anonymous
// requests simply never call this.
func WithIdentity(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, identityContextKey{}, claims)
}

// FromContext extracts the authenticated identity, if present.
func FromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(identityContextKey{}).(*Claims)
	return c, ok
}
