package tenant

import (
	"context"
	"strconv"
	"strings"

	"counseling-userservice-be/internal/pkg/apperr"
)

// Header names used by the reverse proxy / frontend.
const (
	HeaderTenantId = "tenantId"
	HeaderAgencyId = "agencyId"
)

// Request is the transport-agnostic view of an inbound request, just
// enough for tenant resolution.
type Request interface {
	Header(key string) string
	Hostname() string
}

// Resolver is one strategy for determining the active tenant. ok=false
// means the strategy does not apply to this request; an error means the
// strategy applied but found an inconsistency, which is a caller error
// and must not fall through silently.
type Resolver interface {
	Resolve(ctx context.Context, req Request) (tenantId int64, ok bool, err error)
}

// TenantLookup resolves a subdomain to its tenant via the tenant
// directory service.
type TenantLookup interface {
	TenantIdBySubdomain(ctx context.Context, subdomain string) (int64, error)
}

// AgencyLookup resolves an agency to its tenant via the agency
// directory service. A nil tenant id means the agency has no tenant
// assigned.
type AgencyLookup interface {
	AgencyTenantId(ctx context.Context, agencyId int64) (*int64, error)
}

// HeaderResolver reads an explicit tenant id header.
type HeaderResolver struct{}

func (HeaderResolver) Resolve(_ context.Context, req Request) (int64, bool, error) {
	raw := req.Header(HeaderTenantId)
	if raw == "" {
		return 0, false, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, apperr.Newf(apperr.KindBadRequest, "invalid %s header %q", HeaderTenantId, raw)
	}
	return id, true, nil
}

// SubdomainResolver maps the request's subdomain to a tenant through
// the tenant directory.
type SubdomainResolver struct {
	BaseDomain string
	Tenants    TenantLookup
}

func (r SubdomainResolver) Resolve(ctx context.Context, req Request) (int64, bool, error) {
	subdomain := extractSubdomain(req.Hostname(), r.BaseDomain)
	if subdomain == "" {
		return 0, false, nil
	}
	id, err := r.Tenants.TenantIdBySubdomain(ctx, subdomain)
	if err != nil {
		return 0, false, apperr.Wrap(apperr.KindBadRequest,
			"cannot resolve tenant for subdomain "+subdomain, err)
	}
	return id, true, nil
}

// AgencyResolver covers the single-domain multitenancy setup where the
// frontend sends only an agency id.
type AgencyResolver struct {
	Agencies AgencyLookup
}

func (r AgencyResolver) Resolve(ctx context.Context, req Request) (int64, bool, error) {
	raw := req.Header(HeaderAgencyId)
	if raw == "" {
		return 0, false, nil
	}
	agencyId, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, apperr.Newf(apperr.KindBadRequest, "invalid %s header %q", HeaderAgencyId, raw)
	}
	tenantId, err := r.Agencies.AgencyTenantId(ctx, agencyId)
	if err != nil {
		return 0, false, err
	}
	if tenantId == nil {
		return 0, false, apperr.Newf(apperr.KindBadRequest,
			"cannot resolve tenant: agency %d has no tenant assigned", agencyId)
	}
	return *tenantId, true, nil
}

// Chain tries each resolver in order; the first that applies wins.
// Resolution errors stop the chain immediately.
type Chain struct {
	resolvers []Resolver
}

func NewChain(resolvers ...Resolver) *Chain {
	return &Chain{resolvers: resolvers}
}

func (c *Chain) Resolve(ctx context.Context, req Request) (int64, bool, error) {
	for _, r := range c.resolvers {
		id, ok, err := r.Resolve(ctx, req)
		if err != nil {
			return 0, false, err
		}
		if ok {
			return id, true, nil
		}
	}
	return 0, false, nil
}

func extractSubdomain(hostname, baseDomain string) string {
	if hostname == "" || baseDomain == "" || hostname == baseDomain {
		return ""
	}
	if host, ok := strings.CutSuffix(hostname, "."+baseDomain); ok {
		// Only single-level subdomains map to tenants.
		if host != "" && !strings.Contains(host, ".") {
			return host
		}
	}
	return ""
}
