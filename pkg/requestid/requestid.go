// Package requestid carries the per-request correlation id through a context.
package requestid

import "context"

type contextKey struct{}

const Header = "X-Request-ID"

func With(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// From returns the request id stored in ctx, or "" outside a request.
func From(ctx context.Context) string {
	if id, ok := ctx.Value(contextKey{}).(string); ok {
		return id
	}
	return ""
}
