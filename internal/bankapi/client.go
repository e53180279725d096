// Package bankapi provides a typed client for the dt banking service REST
// API. A single low-level Client owns the transport; typed sub-clients for
// users, accounts, and audit logs hang off it and interpret responses.
package bankapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dtbank/teller/pkg/logger"
)

const defaultTimeout = 30 * time.Second

// SessionStore is the single-slot cache for the logged-in user. Get returns
// nil when no session is cached; a corrupt cache reads as nil, never as an
// error.
type SessionStore interface {
	Get() *User
	Set(*User) error
	Clear() error
}

// Config holds client configuration.
type Config struct {
	// BaseURL is the base URL of the banking service, e.g. http://localhost:8080.
	BaseURL string
	// Store caches the logged-in user across invocations.
	Store SessionStore
	// HTTPClient is used to execute requests. When nil, a default client
	// with a conservative timeout is used.
	HTTPClient *http.Client
	// Logger receives request/response debug lines. When nil, a default
	// logger is created.
	Logger *logger.Logger
}

// Client is the low-level transport for the banking service API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger

	users    *UsersClient
	accounts *AccountsClient
	audits   *AuditsClient
}

// New creates a banking service client.
func New(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("bankapi: BaseURL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("bankapi: BaseURL must be a valid URL")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("bankapi: BaseURL scheme must be http or https")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("bankapi: Store is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	log := cfg.Logger
	if log == nil {
		log = logger.New("bankapi")
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		log:        log,
	}
	c.users = &UsersClient{client: c, store: cfg.Store}
	c.accounts = &AccountsClient{client: c}
	c.audits = &AuditsClient{client: c}
	return c, nil
}

// Users returns the user operations client.
func (c *Client) Users() *UsersClient { return c.users }

// Accounts returns the account operations client.
func (c *Client) Accounts() *AccountsClient { return c.accounts }

// Audits returns the audit log operations client.
func (c *Client) Audits() *AuditsClient { return c.audits }

// Response is a raw API response. The transport hands back every received
// response regardless of status; callers interpret non-2xx codes.
type Response struct {
	StatusCode int
	Body       []byte
	Header     http.Header
}

// OK reports whether the status code indicates success.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// JSON unmarshals the response body into v.
func (r *Response) JSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return &DecodeError{Err: err}
	}
	return nil
}

// Text returns the response body as trimmed text.
func (r *Response) Text() string {
	return strings.TrimSpace(string(r.Body))
}

// request executes one HTTP exchange. A non-nil body is sent as JSON.
// Transport faults come back as *TransportError; any received response is
// returned whole, whatever its status.
func (c *Client) request(ctx context.Context, method, path string, body any) (*Response, error) {
	op := method + " " + path

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("bankapi: marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("bankapi: create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.New().String())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	c.log.WithFields(logrus.Fields{
		"method":   method,
		"path":     path,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debug("request complete")

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       data,
		Header:     resp.Header,
	}, nil
}

// requestError builds the failure for a non-success response, preferring
// the server-provided body text over the operation fallback message.
func requestError(resp *Response, fallback string) *RequestError {
	msg := resp.Text()
	if msg == "" {
		msg = fallback
	}
	return &RequestError{Status: resp.StatusCode, Message: msg}
}
