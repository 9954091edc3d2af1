// Package elevenlabs synthesizes short voice-script snippets. Speech failures
// never block a response: the platform falls back to its own voice when no
// audio comes back.
package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

type synthesisRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

type Getter interface {
	GetParameter(ctx context.Context, name string) (string, error)
}

// HTTPStatusError captures non-2xx upstream responses with status-aware context.
type HTTPStatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("elevenlabs: unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

func (e *HTTPStatusError) HTTPStatusCode() int {
	return e.StatusCode
}

// Client is a focused text-to-speech client for one configured voice.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	getter      Getter
	paramPrefix string
	voiceID     string

	keyOnce sync.Once
	apiKey  string
	keyErr  error
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSpace(baseURL)
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a Client for the given voice. The API key is fetched
// from SSM on the first Synthesize and reused for the process lifetime.
func NewClient(ps Getter, paramPrefix, voiceID string, opts ...Option) (*Client, error) {
	if ps == nil {
		return nil, errors.New("elevenlabs: paramstore getter must not be nil")
	}
	paramPrefix = strings.TrimRight(strings.TrimSpace(paramPrefix), "/")
	if paramPrefix == "" {
		return nil, errors.New("elevenlabs: parameter prefix must not be empty")
	}
	voiceID = strings.TrimSpace(voiceID)
	if voiceID == "" {
		return nil, errors.New("elevenlabs: voice id must not be empty")
	}
	c := &Client{
		baseURL:     "https://api.elevenlabs.io/v1",
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		getter:      ps,
		paramPrefix: paramPrefix,
		voiceID:     voiceID,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) resolveAPIKey(ctx context.Context) (string, error) {
	c.keyOnce.Do(func() {
		c.apiKey, c.keyErr = c.getter.GetParameter(ctx, c.paramPrefix+"/elevenlabs-api-key")
		if c.keyErr == nil && strings.TrimSpace(c.apiKey) == "" {
			c.keyErr = errors.New("elevenlabs: API key parameter is empty")
		}
	})
	return c.apiKey, c.keyErr
}

func synthesizeURL(baseURL, voiceID string) string {
	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		base = "https://api.elevenlabs.io/v1"
	}
	if !strings.HasSuffix(base, "/v1") {
		base += "/v1"
	}
	return base + "/text-to-speech/" + voiceID
}

// Synthesize renders text as audio bytes using the configured voice.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("elevenlabs: text must not be empty")
	}

	apiKey, err := c.resolveAPIKey(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(synthesisRequest{Text: text, ModelID: "eleven_turbo_v2"})
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: marshal request: %w", err)
	}

	url := synthesizeURL(c.baseURL, c.voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", apiKey)

	res, err := c.resolvedHTTPClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: request failed: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, &HTTPStatusError{StatusCode: res.StatusCode, URL: url, Body: string(buf)}
	}

	audio, err := io.ReadAll(io.LimitReader(res.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: read audio: %w", err)
	}
	return audio, nil
}

func (c *Client) resolvedHTTPClient() *http.Client {
	if c.httpClient != nil {
		return c.httpClient
	}
	return &http.Client{Timeout: 15 * time.Second}
}
