package tenant

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTenantAndFromContext(t *testing.T) {
	ctx := context.Background()

	_, ok := FromContext(ctx)
	assert.False(t, ok)

	ctx = WithTenant(ctx, 42)
	id, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(42), id)
}

func TestIsTechnical(t *testing.T) {
	assert.False(t, IsTechnical(context.Background()))
	assert.False(t, IsTechnical(WithTenant(context.Background(), 5)))
	assert.True(t, IsTechnical(WithTenant(context.Background(), TechnicalTenantId)))
}

func TestRunAsTechnicalScopesOverride(t *testing.T) {
	outer := WithTenant(context.Background(), 7)

	err := RunAsTechnical(outer, func(ctx context.Context) error {
		assert.True(t, IsTechnical(ctx))
		return nil
	})
	require.NoError(t, err)

	// The caller's binding is untouched.
	id, ok := FromContext(outer)
	require.True(t, ok)
	assert.Equal(t, int64(7), id)
}

func TestConcurrentBindingsDoNotLeak(t *testing.T) {
	var wg sync.WaitGroup
	for i := int64(1); i <= 50; i++ {
		wg.Add(1)
		go func(tenantId int64) {
			defer wg.Done()
			ctx := WithTenant(context.Background(), tenantId)
			got, ok := FromContext(ctx)
			assert.True(t, ok)
			assert.Equal(t, tenantId, got)
		}(i)
	}
	wg.Wait()
}
