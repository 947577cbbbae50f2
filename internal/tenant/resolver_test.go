package tenant

import (
	"context"
	"errors"
	"testing"

	"counseling-userservice-be/internal/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRequest struct {
	headers  map[string]string
	hostname string
}

func (r fakeRequest) Header(key string) string { return r.headers[key] }
func (r fakeRequest) Hostname() string         { return r.hostname }

type fakeTenantLookup struct {
	bySubdomain map[string]int64
}

func (l fakeTenantLookup) TenantIdBySubdomain(_ context.Context, subdomain string) (int64, error) {
	id, ok := l.bySubdomain[subdomain]
	if !ok {
		return 0, apperr.NotFound("unknown subdomain")
	}
	return id, nil
}

type fakeAgencyLookup struct {
	byAgency map[int64]*int64
}

func (l fakeAgencyLookup) AgencyTenantId(_ context.Context, agencyId int64) (*int64, error) {
	return l.byAgency[agencyId], nil
}

func tenantPtr(id int64) *int64 { return &id }

func newTestChain() *Chain {
	return NewChain(
		HeaderResolver{},
		SubdomainResolver{
			BaseDomain: "counseling.example",
			Tenants:    fakeTenantLookup{bySubdomain: map[string]int64{"awocare": 3}},
		},
		AgencyResolver{
			Agencies: fakeAgencyLookup{byAgency: map[int64]*int64{
				10: tenantPtr(5),
				11: nil,
			}},
		},
	)
}

func TestChainHeaderWins(t *testing.T) {
	chain := newTestChain()

	id, ok, err := chain.Resolve(context.Background(), fakeRequest{
		headers:  map[string]string{HeaderTenantId: "9", HeaderAgencyId: "10"},
		hostname: "awocare.counseling.example",
	})

	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(9), id)
}

func TestChainFallsBackToSubdomain(t *testing.T) {
	chain := newTestChain()

	id, ok, err := chain.Resolve(context.Background(), fakeRequest{
		hostname: "awocare.counseling.example",
	})

	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(3), id)
}

func TestChainFallsBackToAgency(t *testing.T) {
	chain := newTestChain()

	id, ok, err := chain.Resolve(context.Background(), fakeRequest{
		headers:  map[string]string{HeaderAgencyId: "10"},
		hostname: "counseling.example",
	})

	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(5), id)
}

func TestChainUnresolved(t *testing.T) {
	chain := newTestChain()

	_, ok, err := chain.Resolve(context.Background(), fakeRequest{
		hostname: "counseling.example",
	})

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAgencyWithoutTenantFailsLoudly(t *testing.T) {
	chain := newTestChain()

	// Agency 11 exists but carries no tenant. Falling through silently
	// would hide a data inconsistency, so the chain must error instead.
	_, ok, err := chain.Resolve(context.Background(), fakeRequest{
		headers:  map[string]string{HeaderAgencyId: "11"},
		hostname: "counseling.example",
	})

	assert.False(t, ok)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrBadRequest))
}

func TestInvalidHeaderFailsLoudly(t *testing.T) {
	chain := newTestChain()

	_, _, err := chain.Resolve(context.Background(), fakeRequest{
		headers: map[string]string{HeaderTenantId: "not-a-number"},
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrBadRequest))
}

func TestExtractSubdomain(t *testing.T) {
	tests := []struct {
		hostname string
		base     string
		want     string
	}{
		{"awocare.counseling.example", "counseling.example", "awocare"},
		{"counseling.example", "counseling.example", ""},
		{"a.b.counseling.example", "counseling.example", ""},
		{"awocare.other.example", "counseling.example", ""},
		{"", "counseling.example", ""},
		{"awocare.counseling.example", "", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, extractSubdomain(tt.hostname, tt.base), "hostname %q", tt.hostname)
	}
}
