package n8n

import (
	"net/http"
	"time"
)

// ClientOption represents an option for configuring the n8n client
type ClientOption func(*ClientConfig)

// ClientConfig holds the configuration for the n8n client
type ClientConfig struct {
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	RetryAttempts  int
	RetryDelay     time.Duration
	DefaultHeaders map[string]string
	HTTPClient     *http.Client
	UserAgent      string
}

// DefaultConfig returns a sensible default configuration
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:       "http://localhost:5678",
		Timeout:       30 * time.Second,
		RetryAttempts: 3,
		RetryDelay:    1 * time.Second,
		DefaultHeaders: map[string]string{
			"Accept": "application/json",
		},
		UserAgent: "templatize/1.0",
	}
}

// WithBaseURL sets the base URL of the n8n instance
func WithBaseURL(baseURL string) ClientOption {
	return func(c *ClientConfig) {
		c.BaseURL = baseURL
	}
}

// WithAPIKey sets the API key sent as X-N8N-API-KEY on every request
func WithAPIKey(apiKey string) ClientOption {
	return func(c *ClientConfig) {
		c.APIKey = apiKey
	}
}

// WithTimeout sets the request timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *ClientConfig) {
		c.Timeout = timeout
	}
}

// WithRetry sets the retry configuration
func WithRetry(attempts int, delay time.Duration) ClientOption {
	return func(c *ClientConfig) {
		c.RetryAttempts = attempts
		c.RetryDelay = delay
	}
}

// WithHeader adds a default header to all requests
func WithHeader(key, value string) ClientOption {
	return func(c *ClientConfig) {
		if c.DefaultHeaders == nil {
			c.DefaultHeaders = make(map[string]string)
		}
		c.DefaultHeaders[key] = value
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *ClientConfig) {
		c.HTTPClient = httpClient
	}
}

// WithUserAgent sets a custom user agent
func WithUserAgent(userAgent string) ClientOption {
	return func(c *ClientConfig) {
		c.UserAgent = userAgent
	}
}
