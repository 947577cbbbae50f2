package agencydir

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
)

// Agency is the directory-service view of a counseling agency.
type Agency struct {
	Id               int64  `json:"id"`
	Name             string `json:"name"`
	Postcode         string `json:"postcode"`
	TeamAgency       bool   `json:"teamAgency"`
	ConsultingTypeId int    `json:"consultingType"`
	TenantId         *int64 `json:"tenantId"`
	Offline          bool   `json:"offline"`
}

// Directory is the lookup surface consumers depend on.
type Directory interface {
	GetAgency(ctx context.Context, agencyId int64) (*Agency, error)
}

// Client is a read-through cached client for the agency directory
// service. Entries expire after 5 minutes; the directory publishes no
// change feed, so a short TTL is the whole invalidation policy.
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

func (c *Client) GetAgency(ctx context.Context, agencyId int64) (*Agency, error) {
	cacheKey := fmt.Sprintf("agency:%d", agencyId)
	if cached, found := c.cache.Get(cacheKey); found {
		return cached.(*Agency), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/agencies/%d", c.baseURL, agencyId), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("agency directory lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("agency directory lookup: status %d", resp.StatusCode)
	}

	var agency Agency
	if err := json.NewDecoder(resp.Body).Decode(&agency); err != nil {
		return nil, err
	}

	c.cache.Set(cacheKey, &agency, cache.DefaultExpiration)
	return &agency, nil
}

// AgencyTenantId satisfies the tenant resolver's agency lookup.
func (c *Client) AgencyTenantId(ctx context.Context, agencyId int64) (*int64, error) {
	agency, err := c.GetAgency(ctx, agencyId)
	if err != nil {
		return nil, err
	}
	if agency == nil {
		return nil, fmt.Errorf("agency %d not found", agencyId)
	}
	return agency.TenantId, nil
}
