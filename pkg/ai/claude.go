package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/podscribe-team/podscribe/internal/domain/entities"
	"github.com/podscribe-team/podscribe/pkg/config"
)

const anthropicVersion = "2023-06-01"

// ClaudeClient is a minimal client for the Anthropic Messages API
type ClaudeClient struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewClaudeClient creates a Claude client using values from the provided
// config. Pass a nil config to fall back to environment variables.
func NewClaudeClient(cfg *config.AnthropicConfig) *ClaudeClient {
	var apiKey, base, model string
	if cfg != nil {
		apiKey = cfg.APIKey
		base = cfg.BaseURL
		model = cfg.Model
	}
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if base == "" {
		base = os.Getenv("ANTHROPIC_API_URL")
		if base == "" {
			base = "https://api.anthropic.com"
		}
	}
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}

	return &ClaudeClient{
		apiKey:  apiKey,
		baseURL: base,
		model:   model,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

// Tool declares a callable tool to the model
type Tool struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema InputSchema `json:"input_schema"`
}

// InputSchema is a JSON-schema-style description of a tool's input
type InputSchema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required,omitempty"`
}

// Property describes one tool input field
type Property struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// MessageRequest is the shape for Messages API requests. Model defaults to
// the client's configured model when empty.
type MessageRequest struct {
	Model     string                         `json:"model"`
	MaxTokens int                            `json:"max_tokens"`
	System    string                         `json:"system,omitempty"`
	Messages  []entities.ConversationMessage `json:"messages"`
	Tools     []Tool                         `json:"tools,omitempty"`
}

// MessageResponse is a minimal response shape: the ordered content blocks
// plus the stop reason
type MessageResponse struct {
	Content    []entities.ContentBlock `json:"content"`
	StopReason string                  `json:"stop_reason"`
}

// CreateMessage sends a Messages API request and returns the response blocks
func (c *ClaudeClient) CreateMessage(ctx context.Context, req MessageRequest) (*MessageResponse, error) {
	if req.Model == "" {
		req.Model = c.model
	}

	b, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL + "/v1/messages"
	httpReq, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("anthropic returned status %d: %s", resp.StatusCode, string(body))
	}

	var mr MessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, err
	}
	if len(mr.Content) == 0 {
		return nil, fmt.Errorf("empty response from anthropic")
	}
	return &mr, nil
}
