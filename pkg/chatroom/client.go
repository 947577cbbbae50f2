package chatroom

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"counseling-userservice-be/internal/pkg/apperr"
)

// Client talks to a Rocket.Chat compatible REST API using a technical
// user's credentials.
type Client struct {
	baseURL    string
	userId     string
	authToken  string
	httpClient *http.Client
}

func NewClient(baseURL, userId, authToken string) *Client {
	return &Client{
		baseURL:   baseURL,
		userId:    userId,
		authToken: authToken,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type groupCreateResponse struct {
	Group struct {
		Id string `json:"_id"`
	} `json:"group"`
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type apiResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (c *Client) CreateGroup(ctx context.Context, name string) (string, error) {
	var res groupCreateResponse
	err := c.post(ctx, "/api/v1/groups.create", map[string]interface{}{"name": name}, &res)
	if err != nil {
		return "", apperr.Gateway("groups.create", err)
	}
	if !res.Success || res.Group.Id == "" {
		return "", apperr.Gateway("groups.create", fmt.Errorf("remote error: %s", res.Error))
	}
	return res.Group.Id, nil
}

func (c *Client) DeleteGroup(ctx context.Context, groupId string) error {
	return c.groupCall(ctx, "groups.delete", map[string]interface{}{"roomId": groupId})
}

func (c *Client) AddUserToGroup(ctx context.Context, groupId, chatUserId string) error {
	return c.groupCall(ctx, "groups.invite", map[string]interface{}{
		"roomId": groupId,
		"userId": chatUserId,
	})
}

func (c *Client) RemoveUserFromGroup(ctx context.Context, groupId, chatUserId string) error {
	return c.groupCall(ctx, "groups.kick", map[string]interface{}{
		"roomId": groupId,
		"userId": chatUserId,
	})
}

func (c *Client) MuteUser(ctx context.Context, groupId, chatUserId string) error {
	return c.groupCall(ctx, "groups.muteUser", map[string]interface{}{
		"roomId": groupId,
		"userId": chatUserId,
	})
}

func (c *Client) UnmuteUser(ctx context.Context, groupId, chatUserId string) error {
	return c.groupCall(ctx, "groups.unmuteUser", map[string]interface{}{
		"roomId": groupId,
		"userId": chatUserId,
	})
}

func (c *Client) UpdateGroupKey(ctx context.Context, groupId, key string) error {
	return c.groupCall(ctx, "e2e.updateGroupKey", map[string]interface{}{
		"roomId": groupId,
		"key":    key,
	})
}

// CleanGroupHistory wipes all messages of a room; used when a
// repetitive group chat is stopped and rescheduled.
func (c *Client) CleanGroupHistory(ctx context.Context, groupId string) error {
	return c.groupCall(ctx, "rooms.cleanHistory", map[string]interface{}{
		"roomId": groupId,
		"latest": time.Now().UTC().Format(time.RFC3339),
		"oldest": "1970-01-01T00:00:00Z",
	})
}

func (c *Client) groupCall(ctx context.Context, op string, body map[string]interface{}) error {
	var res apiResponse
	if err := c.post(ctx, "/api/v1/"+op, body, &res); err != nil {
		return apperr.Gateway(op, err)
	}
	if !res.Success {
		return apperr.Gateway(op, fmt.Errorf("remote error: %s", res.Error))
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body map[string]interface{}, out interface{}) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(jsonBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", c.userId)
	req.Header.Set("X-Auth-Token", c.authToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(bodyBytes))
	}
	return json.Unmarshal(bodyBytes, out)
}
