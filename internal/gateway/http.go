package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var _ Gateway = (*HTTPClient)(nil)

// HTTPClient is a Gateway that sends messages through a provider's
// HTTP send API.
type HTTPClient struct {
	endpoint   string
	authKey    string
	fromNumber string
	httpClient *http.Client
}

// NewHTTPClient creates a provider-backed gateway for the given endpoint.
func NewHTTPClient(endpoint, authKey, fromNumber string) *HTTPClient {
	return &HTTPClient{
		endpoint:   endpoint,
		authKey:    authKey,
		fromNumber: fromNumber,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type sendRequest struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Content string `json:"content"`
}

type sendResponse struct {
	MessageID string `json:"messageId"`
	Status    string `json:"status"`
}

// withTimeout wraps the context with a timeout if it doesn't already have one.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		// Already has a deadline; no need to wrap again.
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}

// Send posts a JSON payload to the provider endpoint and returns the
// provider-assigned message id.
func (c *HTTPClient) Send(ctx context.Context, to, body string) (Receipt, error) {
	// Keep individual requests bounded in time.
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	payload := sendRequest{
		To:      to,
		From:    c.fromNumber,
		Content: body,
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return Receipt{}, &DeliveryError{Detail: "failed to marshal send payload", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(raw))
	if err != nil {
		return Receipt{}, &DeliveryError{Detail: "failed to create request", Err: err}
	}

	req.Header.Set("Content-Type", "application/json")
	if c.authKey != "" {
		req.Header.Set("x-api-key", c.authKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return Receipt{}, &DeliveryError{Detail: "provider request timeout or canceled", Err: err}
		}
		return Receipt{}, &DeliveryError{Detail: "provider request failed", Err: err}
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return Receipt{}, &DeliveryError{Detail: "failed to read provider response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Receipt{}, &DeliveryError{
			Detail: fmt.Sprintf("provider returned status %d: %s", resp.StatusCode, string(respBytes)),
		}
	}

	var parsed sendResponse
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return Receipt{}, &DeliveryError{Detail: "failed to parse provider response", Err: err}
	}

	if parsed.MessageID == "" {
		return Receipt{}, &DeliveryError{Detail: "provider response missing messageId"}
	}

	status := parsed.Status
	if status == "" {
		status = StatusQueued
	}

	return Receipt{ProviderID: parsed.MessageID, Status: status}, nil
}

// Health performs a lightweight GET against the provider endpoint.
func (c *HTTPClient) Health(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return fmt.Errorf("health: failed to create request: %w", err)
	}

	if c.authKey != "" {
		req.Header.Set("x-api-key", c.authKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("health: non-2xx status: %d", resp.StatusCode)
	}

	return nil
}
