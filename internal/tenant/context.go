package tenant

import "context"

// TechnicalTenantId is the sentinel used by background maintenance jobs
// to bypass per-tenant filtering on purpose.
const TechnicalTenantId int64 = 0

type tenantContextKey struct{}

// WithTenant binds the resolved tenant id to the context. The value is
// scoped to a single request or job execution; it is never stored in
// process-wide state.
func WithTenant(ctx context.Context, tenantId int64) context.Context {
	return context.WithValue(ctx, tenantContextKey{}, tenantId)
}

// FromContext returns the bound tenant id, if any.
func FromContext(ctx context.Context) (int64, bool) {
	if ctx == nil {
		return 0, false
	}
	v, ok := ctx.Value(tenantContextKey{}).(int64)
	return v, ok
}

// IsTechnical reports whether the context runs as the technical tenant.
func IsTechnical(ctx context.Context) bool {
	id, ok := FromContext(ctx)
	return ok && id == TechnicalTenantId
}

// RunAsTechnical executes fn with the technical tenant bound to a
// derived context. The override lives only for this call; concurrent
// tasks are unaffected.
func RunAsTechnical(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(WithTenant(ctx, TechnicalTenantId))
}
