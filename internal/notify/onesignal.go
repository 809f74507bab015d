// Package notify delivers push notifications through OneSignal and
// bridges the in-process event bus to it.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultAPIURL = "https://onesignal.com/api/v1/notifications"

// OneSignalClient talks to the OneSignal REST API. The zero value is not
// usable; construct it with NewOneSignalClient.
type OneSignalClient struct {
	appID  string
	apiKey string
	apiURL string
	client *http.Client
}

type OneSignalOption func(*OneSignalClient)

// WithAPIURL points the client at a different endpoint, used by tests.
func WithAPIURL(url string) OneSignalOption {
	return func(c *OneSignalClient) { c.apiURL = url }
}

func WithHTTPClient(hc *http.Client) OneSignalOption {
	return func(c *OneSignalClient) { c.client = hc }
}

func NewOneSignalClient(appID, apiKey string, opts ...OneSignalOption) *OneSignalClient {
	c := &OneSignalClient{
		appID:  appID,
		apiKey: apiKey,
		apiURL: defaultAPIURL,
		client: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Notification is one push message addressed to explicit device tokens.
type Notification struct {
	PlayerIDs []string
	Heading   string
	Content   string
	Data      map[string]any
}

type notificationRequest struct {
	AppID            string            `json:"app_id"`
	IncludePlayerIDs []string          `json:"include_player_ids"`
	Headings         map[string]string `json:"headings"`
	Contents         map[string]string `json:"contents"`
	Data             map[string]any    `json:"data,omitempty"`
}

type notificationResponse struct {
	ID     string   `json:"id"`
	Errors []string `json:"errors"`
}

// Send posts the notification and returns the provider's notification
// id. OneSignal reports some failures with a 200 status and an errors
// array, so both paths are checked.
func (c *OneSignalClient) Send(ctx context.Context, n Notification) (string, error) {
	if len(n.PlayerIDs) == 0 {
		return "", fmt.Errorf("onesignal: no player ids")
	}

	body, err := json.Marshal(notificationRequest{
		AppID:            c.appID,
		IncludePlayerIDs: n.PlayerIDs,
		Headings:         map[string]string{"en": n.Heading},
		Contents:         map[string]string{"en": n.Content},
		Data:             n.Data,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Basic "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("onesignal: status %d: %s", resp.StatusCode, raw)
	}

	var parsed notificationResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("onesignal: decode response: %w", err)
	}
	if len(parsed.Errors) > 0 {
		return "", fmt.Errorf("onesignal: %s", parsed.Errors[0])
	}
	return parsed.ID, nil
}
