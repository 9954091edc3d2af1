package sendgrid

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

// mailRequest is the minimal request shape for the v3 mail send endpoint.
type mailRequest struct {
	Personalizations []personalization `json:"personalizations"`
	From             emailAddress      `json:"from"`
	Subject          string            `json:"subject"`
	Content          []mailContent     `json:"content"`
}

type personalization struct {
	To []emailAddress `json:"to"`
}

type emailAddress struct {
	Email string `json:"email"`
}

type mailContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
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
	return fmt.Sprintf("sendgrid: unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

func (e *HTTPStatusError) HTTPStatusCode() int {
	return e.StatusCode
}

// Client sends plain-text notification email through the SendGrid v3 API.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	getter      Getter
	paramPrefix string
	sender      string

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

// NewClient creates a Client backed by the given paramstore Getter for API
// key retrieval. The key is fetched from SSM on the first Send and reused
// for the lifetime of the process.
func NewClient(ps Getter, paramPrefix, sender string, opts ...Option) (*Client, error) {
	if ps == nil {
		return nil, errors.New("sendgrid: paramstore getter must not be nil")
	}
	paramPrefix = strings.TrimRight(strings.TrimSpace(paramPrefix), "/")
	if paramPrefix == "" {
		return nil, errors.New("sendgrid: parameter prefix must not be empty")
	}
	sender = strings.TrimSpace(sender)
	if sender == "" {
		return nil, errors.New("sendgrid: sender address must not be empty")
	}
	c := &Client{
		baseURL:     "https://api.sendgrid.com/v3",
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		getter:      ps,
		paramPrefix: paramPrefix,
		sender:      sender,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) resolveAPIKey(ctx context.Context) (string, error) {
	c.keyOnce.Do(func() {
		c.apiKey, c.keyErr = c.getter.GetParameter(ctx, c.paramPrefix+"/sendgrid-api-key")
		if c.keyErr == nil && strings.TrimSpace(c.apiKey) == "" {
			c.keyErr = errors.New("sendgrid: API key parameter is empty")
		}
	})
	return c.apiKey, c.keyErr
}

func sendURL(baseURL string) string {
	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		base = "https://api.sendgrid.com/v3"
	}
	if strings.HasSuffix(base, "/v3") {
		return base + "/mail/send"
	}
	return base + "/v3/mail/send"
}

// Send delivers one plain-text email. Callers treat failures as best-effort;
// this method only reports them.
func (c *Client) Send(ctx context.Context, to, subject, body string) error {
	to = strings.TrimSpace(to)
	if to == "" {
		return errors.New("sendgrid: recipient must not be empty")
	}

	apiKey, err := c.resolveAPIKey(ctx)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(mailRequest{
		Personalizations: []personalization{{To: []emailAddress{{Email: to}}}},
		From:             emailAddress{Email: c.sender},
		Subject:          subject,
		Content:          []mailContent{{Type: "text/plain", Value: body}},
	})
	if err != nil {
		return fmt.Errorf("sendgrid: marshal request: %w", err)
	}

	url := sendURL(c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("sendgrid: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	res, err := c.resolvedHTTPClient().Do(req)
	if err != nil {
		return fmt.Errorf("sendgrid: request failed: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return &HTTPStatusError{StatusCode: res.StatusCode, URL: url, Body: string(buf)}
	}
	return nil
}

func (c *Client) resolvedHTTPClient() *http.Client {
	if c.httpClient != nil {
		return c.httpClient
	}
	return &http.Client{Timeout: 10 * time.Second}
}
