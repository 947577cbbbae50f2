package tenantdir

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
)

// Tenant is the restricted tenant record exposed by the tenant
// directory service.
type Tenant struct {
	Id        int64  `json:"id"`
	Name      string `json:"name"`
	Subdomain string `json:"subdomain"`
}

// Client resolves subdomains to tenants through the tenant directory
// service. Same cache policy as the agency client: 5 minute TTL, no
// explicit invalidation.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *cache.Cache
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		cache: cache.New(5*time.Minute, 10*time.Minute),
	}
}

func (c *Client) GetBySubdomain(ctx context.Context, subdomain string) (*Tenant, error) {
	cacheKey := "tenant:" + subdomain
	if cached, found := c.cache.Get(cacheKey); found {
		return cached.(*Tenant), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/tenant/public/"+subdomain, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tenant directory lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tenant directory lookup: status %d", resp.StatusCode)
	}

	var tenant Tenant
	if err := json.NewDecoder(resp.Body).Decode(&tenant); err != nil {
		return nil, err
	}

	c.cache.Set(cacheKey, &tenant, cache.DefaultExpiration)
	return &tenant, nil
}

// TenantIdBySubdomain satisfies the tenant resolver's lookup contract.
func (c *Client) TenantIdBySubdomain(ctx context.Context, subdomain string) (int64, error) {
	tenant, err := c.GetBySubdomain(ctx, subdomain)
	if err != nil {
		return 0, err
	}
	if tenant == nil {
		return 0, fmt.Errorf("no tenant registered for subdomain %q", subdomain)
	}
	return tenant.Id, nil
}
