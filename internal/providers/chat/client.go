// Package chat is a minimal client for OpenAI-compatible chat-completions
// endpoints. The pricing and market adapters both speak this protocol.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"samakicash/internal/infra"
	"samakicash/internal/providers"
)

const defaultTimeout = 30 * time.Second

// Options configures a chat-completions client.
type Options struct {
	Provider     string
	APIKey       string
	BaseURL      string
	Model        string
	Temperature  float64
	JSONResponse bool
	Timeout      time.Duration
	HTTPClient   *http.Client
	Logger       *infra.Logger
}

// Client sends one user message per call and returns the first choice's content.
type Client struct {
	provider     string
	apiKey       string
	baseURL      string
	model        string
	temperature  float64
	jsonResponse bool
	timeout      time.Duration
	httpClient   *http.Client
	logger       *infra.Logger
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NewClient constructs a client. A missing key is allowed; the request is
// still sent and the provider decides.
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = infra.NopLogger()
	}
	return &Client{
		provider:     opts.Provider,
		apiKey:       strings.TrimSpace(opts.APIKey),
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		model:        strings.TrimSpace(opts.Model),
		temperature:  opts.Temperature,
		jsonResponse: opts.JSONResponse,
		timeout:      timeout,
		httpClient:   httpClient,
		logger:       logger,
	}
}

// Provider returns the provider name used in logs and errors.
func (c *Client) Provider() string {
	return c.provider
}

// APIKey returns the configured credential.
func (c *Client) APIKey() string {
	return c.apiKey
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// Complete sends prompt as a single user message within the client's time
// budget. Failures are returned as *providers.Error.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload := chatRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
	}
	if c.jsonResponse {
		payload.ResponseFormat = &responseFormat{Type: "json_object"}
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return "", providers.Unavailable(c.provider, "encode_request", err)
	}
	endpoint := fmt.Sprintf("%s/chat/completions", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return "", providers.Unavailable(c.provider, "build_request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", providers.Transport(c.provider, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return "", providers.Status(c.provider, resp.StatusCode)
	}
	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if providers.IsTimeout(err) {
			return "", providers.Transport(c.provider, err)
		}
		return "", providers.Malformed(c.provider, "decode_response", err)
	}
	if len(out.Choices) == 0 {
		return "", providers.Malformed(c.provider, "empty_choices", errors.New("no choices"))
	}
	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return "", providers.Malformed(c.provider, "empty_response", errors.New("empty response"))
	}
	c.logger.Debug().
		Str("provider", c.provider).
		Str("model", c.model).
		Dur("took", time.Since(start)).
		Msg("chat completion received")
	return text, nil
}
