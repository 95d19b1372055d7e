// Package http provides HTTP handlers and middleware for account management
// operations. Every route runs behind the client-DN middleware, which derives
// the caller's tenant key from the subject DN forwarded by the mTLS
// terminating proxy.
package http

import (
	"context"
)

// tenantKey is a context key type for storing the caller's tenant key.
type tenantKey struct{}

// WithTenant stores the caller's tenant key in the context.
// This is called by the client-DN middleware after parsing the forwarded DN.
func WithTenant(ctx context.Context, tenant string) context.Context {
	return context.WithValue(ctx, tenantKey{}, tenant)
}

// GetTenant retrieves the caller's tenant key from the context.
// Returns (tenant, true) if present, or ("", false) if no tenant was set.
func GetTenant(ctx context.Context) (string, bool) {
	tenant, ok := ctx.Value(tenantKey{}).(string)
	return tenant, ok
}
