// Package n8n is a minimal typed client for the n8n REST API, covering the
// workflow read operations the sanitization service needs. Documents are
// fetched fully materialized and handed to the engine as-is.
package n8n

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// WorkflowSummary is one entry of the workflow listing.
type WorkflowSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Active    bool   `json:"active"`
	Tags      []any  `json:"tags"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type listWorkflowsResponse struct {
	Data []WorkflowSummary `json:"data"`
}

// Client talks to one n8n instance.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient creates an n8n client with the given options applied over the
// default configuration.
func NewClient(opts ...ClientOption) *Client {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(config)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
	}
}

// BaseURL returns the configured instance URL without a trailing slash.
func (c *Client) BaseURL() string {
	return strings.TrimRight(c.config.BaseURL, "/")
}

// ListWorkflows returns summaries of every workflow on the instance.
func (c *Client) ListWorkflows(ctx context.Context) ([]WorkflowSummary, error) {
	body, err := c.get(ctx, "/api/v1/workflows")
	if err != nil {
		return nil, err
	}

	var response listWorkflowsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("decoding workflow list: %w", err)
	}

	return response.Data, nil
}

// GetWorkflow fetches one workflow document, including credential bindings,
// as the raw mapping the sanitization engine consumes.
func (c *Client) GetWorkflow(ctx context.Context, workflowID string) (map[string]any, error) {
	body, err := c.get(ctx, "/api/v1/workflows/"+workflowID)
	if err != nil {
		return nil, err
	}

	var document map[string]any
	if err := json.Unmarshal(body, &document); err != nil {
		return nil, fmt.Errorf("decoding workflow %s: %w", workflowID, err)
	}

	return document, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	var lastErr error

	attempts := c.config.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.config.RetryDelay):
			}
		}

		body, err := c.doGet(ctx, path)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if apiErr, ok := AsAPIError(err); ok && !apiErr.IsRetryable() {
			return nil, err
		}
	}

	return nil, lastErr
}

func (c *Client) doGet(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL()+path, nil)
	if err != nil {
		return nil, err
	}

	for key, value := range c.config.DefaultHeaders {
		req.Header.Set(key, value)
	}
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}
	if c.config.APIKey != "" {
		req.Header.Set("X-N8N-API-KEY", c.config.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response for %s: %w", path, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       string(body),
		}
	}

	return body, nil
}
