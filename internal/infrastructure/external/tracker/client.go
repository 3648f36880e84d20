// Package tracker is a thin client for the outbound podcast tracker API.
package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
)

// Entry is one tracked podcast record
type Entry struct {
	Title   string `json:"title"`
	Date    string `json:"date"` // ISO date, e.g. "2026-02-14"
	Insight string `json:"insight"`
	Post    string `json:"post,omitempty"`
	Link    string `json:"link,omitempty"`
}

// Client posts entries to the tracker endpoint
type Client struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewClient creates a tracker client
func NewClient(endpoint, apiKey string) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Configured reports whether an endpoint is set
func (c *Client) Configured() bool {
	return c.endpoint != ""
}

// CreateEntry POSTs a new entry and returns the response JSON
func (c *Client) CreateEntry(ctx context.Context, entry Entry) (map[string]interface{}, error) {
	return c.send(ctx, http.MethodPost, entry)
}

// UpdateEntry PUTs changed fields for an existing entry
func (c *Client) UpdateEntry(ctx context.Context, entryID string, fields map[string]interface{}) (map[string]interface{}, error) {
	payload := map[string]interface{}{"id": entryID}
	for k, v := range fields {
		payload[k] = v
	}
	return c.send(ctx, http.MethodPut, payload)
}

func (c *Client) send(ctx context.Context, method string, payload interface{}) (map[string]interface{}, error) {
	if c.endpoint == "" {
		return nil, fmt.Errorf("tracker endpoint not configured")
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	var result map[string]interface{}
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, method, c.endpoint, bytes.NewReader(b))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("x-api-key", c.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("tracker returned status %d", resp.StatusCode)
		}
		if resp.StatusCode >= 400 {
			return backoff.Permanent(fmt.Errorf("tracker returned status %d", resp.StatusCode))
		}

		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode tracker response: %w", err))
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 1 * time.Second
	bo.MaxElapsedTime = 20 * time.Second

	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}
	return result, nil
}
