package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout bounds every request, including reading the response body.
const DefaultTimeout = 20 * time.Second

// maxBodySize caps how much of a response body is read.
const maxBodySize = 4 << 20

// TokenSource supplies the current bearer token. An empty token means anonymous.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

// Token implements TokenSource.
func (f TokenFunc) Token() string { return f() }

// UnauthorizedHandler is told about every 401/403 response before the caller
// receives the error.
type UnauthorizedHandler interface {
	HandleUnauthorized(err *APIError)
}

// UnauthorizedFunc adapts a function to UnauthorizedHandler.
type UnauthorizedFunc func(err *APIError)

// HandleUnauthorized implements UnauthorizedHandler.
func (f UnauthorizedFunc) HandleUnauthorized(err *APIError) { f(err) }

type noTokens struct{}

func (noTokens) Token() string { return "" }

type ignoreUnauthorized struct{}

func (ignoreUnauthorized) HandleUnauthorized(*APIError) {}

// Options carries the optional parts of a request.
type Options struct {
	// Body is JSON-encoded when non-nil.
	Body any
	// Query parameters; entries with empty values are skipped.
	Query map[string]string
	// Headers are applied last and may override the defaults.
	Headers map[string]string
}

// Payload is a parsed response body. Both fields are nil for a 204, or when
// the body could not be read or parsed.
type Payload struct {
	JSON json.RawMessage
	Text *string
}

// Empty reports whether the response carried no usable body.
func (p Payload) Empty() bool {
	return p.JSON == nil && p.Text == nil
}

// Client is the portfolio API gateway. It is the only component that talks
// to the backend.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger

	mu             sync.RWMutex
	tokens         TokenSource
	onUnauthorized UnauthorizedHandler
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTokenSource sets the initial token source.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		if ts != nil {
			c.tokens = ts
		}
	}
}

// WithUnauthorizedHandler sets the initial unauthorized handler.
func WithUnauthorizedHandler(h UnauthorizedHandler) Option {
	return func(c *Client) {
		if h != nil {
			c.onUnauthorized = h
		}
	}
}

// New creates a new API client. An empty baseURL is allowed; every request
// then fails with a KindConfig error without touching the network.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:        strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		timeout:        DefaultTimeout,
		httpClient:     &http.Client{},
		logger:         slog.New(slog.DiscardHandler),
		tokens:         noTokens{},
		onUnauthorized: ignoreUnauthorized{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the resolved base URL, or "" when unconfigured.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Configure installs the token source and unauthorized handler. It may be
// called any number of times; the latest call wins. Nil values reset to the
// anonymous defaults.
func (c *Client) Configure(tokens TokenSource, onUnauthorized UnauthorizedHandler) {
	if tokens == nil {
		tokens = noTokens{}
	}
	if onUnauthorized == nil {
		onUnauthorized = ignoreUnauthorized{}
	}
	c.mu.Lock()
	c.tokens = tokens
	c.onUnauthorized = onUnauthorized
	c.mu.Unlock()
}

func (c *Client) hooks() (TokenSource, UnauthorizedHandler) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tokens, c.onUnauthorized
}

// Do issues one request. On success the parsed payload is returned and, when
// out is non-nil and the body was JSON, decoded into out. Every failure is an
// *APIError except a body that cannot be encoded or a success body that does
// not match out.
func (c *Client) Do(ctx context.Context, method, path string, opts Options, out any) (Payload, error) {
	if c.baseURL == "" {
		return Payload{}, &APIError{Kind: KindConfig, Message: msgMissingBaseURL}
	}

	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return Payload{}, &APIError{Kind: KindConfig, Message: "Invalid API URL", Detail: err.Error()}
	}
	if len(opts.Query) > 0 {
		q := u.Query()
		for k, v := range opts.Query {
			if v == "" {
				continue
			}
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}

	var reqBody io.Reader
	if opts.Body != nil {
		data, err := json.Marshal(opts.Body)
		if err != nil {
			return Payload{}, fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return Payload{}, fmt.Errorf("create request: %w", err)
	}

	tokens, onUnauthorized := c.hooks()
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if opts.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := tokens.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	log := c.logger.With("req_id", reqID, "method", method, "path", path)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("api_request_failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		return Payload{}, &APIError{Kind: KindNetwork, Message: msgNetwork, Detail: err.Error()}
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	log.Debug("api_request", "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode == http.StatusNoContent {
		return Payload{}, nil
	}

	payload := readPayload(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := httpError(resp.StatusCode, payload)
		if apiErr.Unauthorized() {
			onUnauthorized.HandleUnauthorized(apiErr)
		}
		return payload, apiErr
	}

	if out != nil && payload.JSON != nil {
		if err := json.Unmarshal(payload.JSON, out); err != nil {
			return payload, fmt.Errorf("decode response: %w", err)
		}
	}
	return payload, nil
}

// readPayload parses the body as JSON when the content type says so, else
// as text. Read or parse failures give an empty payload.
func readPayload(resp *http.Response) Payload {
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return Payload{}
	}
	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		if !json.Valid(data) {
			return Payload{}
		}
		return Payload{JSON: json.RawMessage(data)}
	}
	text := string(data)
	return Payload{Text: &text}
}

// httpError builds the error for a non-2xx response. Detail is the body's
// "detail" field when present, otherwise the whole payload.
func httpError(status int, p Payload) *APIError {
	var detail any
	switch {
	case p.JSON != nil:
		var body any
		if err := json.Unmarshal(p.JSON, &body); err == nil {
			detail = body
			if obj, ok := body.(map[string]any); ok {
				if d, ok := obj["detail"]; ok && d != nil {
					detail = d
				}
			}
		}
	case p.Text != nil:
		detail = *p.Text
	}

	msg := msgRequestFailed
	if s, ok := detail.(string); ok {
		msg = s
	}
	return &APIError{Kind: KindHTTP, Status: status, Message: msg, Detail: detail}
}

func (c *Client) get(ctx context.Context, path string, query map[string]string, out any) error {
	_, err := c.Do(ctx, http.MethodGet, path, Options{Query: query}, out)
	return err
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	_, err := c.Do(ctx, http.MethodPost, path, Options{Body: body}, out)
	return err
}

func (c *Client) put(ctx context.Context, path string, body any, out any) error {
	_, err := c.Do(ctx, http.MethodPut, path, Options{Body: body}, out)
	return err
}

func (c *Client) delete(ctx context.Context, path string) error {
	_, err := c.Do(ctx, http.MethodDelete, path, Options{}, nil)
	return err
}
