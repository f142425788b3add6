// Package sdk provides a Go client for the taglayer HTTP API: the
// query endpoint, the semantic-layer summary and the health probe.
//
//	client := sdk.New("http://localhost:8080", sdk.WithAPIKey("secret"))
//	resp, _ := client.Ask(ctx, "show me high risk transactions", sdk.ModeTagged)
//	fmt.Println(resp.Answer)
package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Answering modes accepted by the API.
const (
	ModeRaw              = "raw"
	ModeTagged           = "tagged"
	ModeTaggedSimilarity = "tagged_similarity"
)

const defaultTimeout = 30 * time.Second

// Client talks to a taglayer server.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures the Client.
type Option func(*Client)

// WithAPIKey sets the bearer token sent with every request.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Trace records how an answer was produced.
type Trace struct {
	Intent   string `json:"intent"`
	Mode     string `json:"mode"`
	ToolName string `json:"tool_name"`
	HitCount int    `json:"hit_count"`
	Preview  []any  `json:"preview"`
}

// AskResponse is the answer text plus its trace.
type AskResponse struct {
	Answer string `json:"answer"`
	Trace  Trace  `json:"trace"`
}

// Ask sends a query in the given mode and returns the rendered answer.
func (c *Client) Ask(ctx context.Context, query, mode string) (AskResponse, error) {
	body, err := json.Marshal(map[string]string{"query": query, "mode": mode})
	if err != nil {
		return AskResponse{}, fmt.Errorf("encode request: %w", err)
	}

	var resp AskResponse
	if err := c.do(ctx, http.MethodPost, "/v1/ask", bytes.NewReader(body), &resp); err != nil {
		return AskResponse{}, err
	}
	return resp, nil
}

// Summary fetches the semantic-layer metrics snapshot.
func (c *Client) Summary(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := c.do(ctx, http.MethodGet, "/v1/summary", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Health reports the server health status and per-component checks.
// A degraded server answers 503 with a body; that is still a report,
// not an error.
func (c *Client) Health(ctx context.Context) (HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", http.NoBody)
	if err != nil {
		return HealthResponse{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return HealthResponse{}, fmt.Errorf("GET /health: %w", err)
	}
	defer resp.Body.Close()

	var out HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return HealthResponse{}, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}

// HealthResponse mirrors the /health body.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	hasBody := body != nil
	if !hasBody {
		body = http.NoBody
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
