package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2/clientcredentials"
)

// Account is the identity-provider view of a platform account.
type Account struct {
	Id       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Enabled  bool   `json:"enabled"`
}

// Provider manages platform accounts in the external identity provider.
type Provider interface {
	CreateAccount(ctx context.Context, username, email string) (string, error)
	DeleteAccount(ctx context.Context, accountId string) error
	GetAccount(ctx context.Context, accountId string) (*Account, error)
}

// Client is a Keycloak-style admin API client authenticated through the
// OAuth2 client-credentials grant.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL, tokenURL, clientId, clientSecret string) *Client {
	cc := clientcredentials.Config{
		ClientID:     clientId,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
	}
	httpClient := cc.Client(context.Background())
	httpClient.Timeout = 15 * time.Second
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

func (c *Client) CreateAccount(ctx context.Context, username, email string) (string, error) {
	body, err := json.Marshal(map[string]interface{}{
		"username": username,
		"email":    email,
		"enabled":  true,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/users", bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("identity provider create account: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("identity provider create account: status %d: %s", resp.StatusCode, string(raw))
	}

	// The created account id comes back in the Location header.
	location := resp.Header.Get("Location")
	if location == "" {
		return "", fmt.Errorf("identity provider create account: missing location header")
	}
	return location[lastSlash(location)+1:], nil
}

func (c *Client) DeleteAccount(ctx context.Context, accountId string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/users/"+accountId, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("identity provider delete account: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("identity provider delete account: status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) GetAccount(ctx context.Context, accountId string) (*Account, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/users/"+accountId, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity provider get account: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity provider get account: status %d", resp.StatusCode)
	}

	var account Account
	if err := json.NewDecoder(resp.Body).Decode(&account); err != nil {
		return nil, err
	}
	return &account, nil
}

func lastSlash(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '/' {
			return i
		}
	}
	return -1
}
