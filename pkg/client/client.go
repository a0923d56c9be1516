package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// Client talks to a laura-stem server over its REST API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	transport  *http.Transport
}

// Config holds configuration for the client
type Config struct {
	// Host is the server hostname or IP address (default: "localhost")
	Host string
	// Port is the server port (default: 8080)
	Port int
	// BaseURL overrides Host and Port, e.g. "https://stem.example.com"
	BaseURL string
	// APIKey is sent as a bearer token when set
	APIKey string
	// Timeout is the HTTP request timeout (default: 30s)
	Timeout time.Duration
	// MaxIdleConns is the maximum number of idle connections (default: 10)
	MaxIdleConns int
	// MaxConnsPerHost is the maximum connections per host (default: 10)
	MaxConnsPerHost int
	// RetryMax is how often a request failing with a network error, 429 or
	// 5xx is retried. 0 sends every request once.
	RetryMax int
	// RetryWaitMin and RetryWaitMax bound the exponential backoff between
	// retries (default: 100ms and 2s)
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

// DefaultConfig returns the default client configuration
func DefaultConfig() *Config {
	return &Config{
		Host:            "localhost",
		Port:            8080,
		Timeout:         30 * time.Second,
		MaxIdleConns:    10,
		MaxConnsPerHost: 10,
		RetryMax:        2,
		RetryWaitMin:    100 * time.Millisecond,
		RetryWaitMax:    2 * time.Second,
	}
}

// NewClient creates a new client with the given configuration
func NewClient(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	if config.Host == "" {
		config.Host = "localhost"
	}
	if config.Port == 0 {
		config.Port = 8080
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.MaxIdleConns == 0 {
		config.MaxIdleConns = 10
	}
	if config.MaxConnsPerHost == 0 {
		config.MaxConnsPerHost = 10
	}
	if config.RetryWaitMin == 0 {
		config.RetryWaitMin = 100 * time.Millisecond
	}
	if config.RetryWaitMax == 0 {
		config.RetryWaitMax = 2 * time.Second
	}

	transport := &http.Transport{
		MaxIdleConns:        config.MaxIdleConns,
		MaxConnsPerHost:     config.MaxConnsPerHost,
		MaxIdleConnsPerHost: config.MaxConnsPerHost,
		IdleConnTimeout:     90 * time.Second,
	}

	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://%s:%d", config.Host, config.Port)
	}

	retrying := retryablehttp.NewClient()
	retrying.HTTPClient = &http.Client{Transport: transport}
	retrying.RetryMax = config.RetryMax
	retrying.RetryWaitMin = config.RetryWaitMin
	retrying.RetryWaitMax = config.RetryWaitMax
	retrying.Logger = nil
	// Hand the last response back so error envelopes are still decoded
	retrying.ErrorHandler = retryablehttp.PassthroughErrorHandler

	httpClient := retrying.StandardClient()
	httpClient.Timeout = config.Timeout

	return &Client{
		baseURL:    baseURL,
		apiKey:     config.APIKey,
		httpClient: httpClient,
		transport:  transport,
	}
}

// NewDefaultClient creates a client with default configuration
func NewDefaultClient() *Client {
	return NewClient(DefaultConfig())
}

// Response represents a standard API response
type Response struct {
	OK      bool            `json:"ok"`
	Result  json.RawMessage `json:"result,omitempty"`
	Count   *int            `json:"count,omitempty"`
	Error   string          `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
	Code    int             `json:"code,omitempty"`
}

// APIError is returned when the server answers with ok=false
type APIError struct {
	Code    int
	Type    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %s - %s", e.Type, e.Message)
}

// doRequest performs an HTTP request and decodes the envelope
func (c *Client) doRequest(method, path string, body any) (*Response, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var apiResp Response
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("failed to parse response (status %d): %w", resp.StatusCode, err)
	}

	if !apiResp.OK {
		code := apiResp.Code
		if code == 0 {
			code = resp.StatusCode
		}
		return &apiResp, &APIError{Code: code, Type: apiResp.Error, Message: apiResp.Message}
	}

	return &apiResp, nil
}

// call performs a request and unmarshals the result into target
func (c *Client) call(method, path string, body, target any) error {
	resp, err := c.doRequest(method, path, body)
	if err != nil {
		return err
	}
	if target == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Result, target); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", path, err)
	}
	return nil
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status string    `json:"status"`
	Uptime string    `json:"uptime"`
	Time   time.Time `json:"time"`
}

// Health checks the server health
func (c *Client) Health() (*HealthResponse, error) {
	var health HealthResponse
	if err := c.call("GET", "/_health", nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// Close releases idle connections
func (c *Client) Close() error {
	c.transport.CloseIdleConnections()
	return nil
}

func escape(segment string) string {
	return url.PathEscape(segment)
}
