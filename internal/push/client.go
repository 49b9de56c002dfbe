package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Payload is the structured message delivered to every device token.
type Payload struct {
	Notification Notification `json:"notification"`
	Data         Data         `json:"data"`
}

type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type Data struct {
	Type   string `json:"type"`
	BookID string `json:"bookId"`
	Screen string `json:"screen"`
}

// Result carries the gateway's per-call delivery counts. The gateway does
// not surface per-token errors.
type Result struct {
	SuccessCount int `json:"success"`
	FailureCount int `json:"failure"`
}

// Gateway delivers one payload to a set of device tokens in a single call.
type Gateway interface {
	Send(ctx context.Context, tokens []string, payload Payload) (Result, error)
}

// Client talks to the HTTP push gateway
type Client struct {
	gatewayURL string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new push gateway client
func NewClient(gatewayURL, apiKey string) *Client {
	return &Client{
		gatewayURL: gatewayURL,
		apiKey:     apiKey,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

type sendRequest struct {
	RegistrationIDs []string     `json:"registration_ids"`
	Notification    Notification `json:"notification"`
	Data            Data         `json:"data"`
}

func (c *Client) Send(ctx context.Context, tokens []string, payload Payload) (Result, error) {
	body := sendRequest{
		RegistrationIDs: tokens,
		Notification:    payload.Notification,
		Data:            payload.Data,
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return Result{}, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gatewayURL+"/send", bytes.NewBuffer(jsonData))
	if err != nil {
		return Result{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "key="+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("failed to send push: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("push gateway returned status %d", resp.StatusCode)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Result{}, fmt.Errorf("failed to decode gateway response: %w", err)
	}
	return result, nil
}
