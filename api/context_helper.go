package api

import (
	"context"
	"time"
)

// QueryTimeout is the default timeout for database queries
const QueryTimeout = 10 * time.Second

// WithQueryTimeout creates a context with query timeout
func WithQueryTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, QueryTimeout)
}

type authEmailContextKey struct{}

// WithAuthEmail stores the authenticated principal's email on the context
func WithAuthEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, authEmailContextKey{}, email)
}

// AuthEmailFromContext returns the authenticated principal's email, if any
func AuthEmailFromContext(ctx context.Context) string {
	if v := ctx.Value(authEmailContextKey{}); v != nil {
		return v.(string)
	}
	return ""
}
