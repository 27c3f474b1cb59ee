package mailgun

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shineum/mailgun-lite/pkg/metrics"
)

// defaultTimeout bounds each request made by the default HTTP client.
const defaultTimeout = 30 * time.Second

// basicAuthUser is the fixed Basic auth user name of the Mailgun API.
const basicAuthUser = "api"

// Operation names used in errors, logs and metric labels.
const (
	opSend           = "send"
	opValidate       = "validate"
	opCreateTemplate = "create_template"
	opGetTemplates   = "get_templates"
	opDeleteTemplate = "delete_template"
)

// errNoCredentials is returned by every operation of a Client built from
// nil credentials.
var errNoCredentials = fmt.Errorf("%w: credentials are nil", ErrInvalidCredentials)

// HTTPDoer executes HTTP requests. *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client binds Credentials to an HTTP client. It holds no mutable state and
// may be used from multiple goroutines.
type Client struct {
	creds      *Credentials
	httpClient HTTPDoer
	logger     *slog.Logger
	metrics    *metrics.Recorder
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(httpClient HTTPDoer) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics records every call on m.
func WithMetrics(m *metrics.Recorder) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// New creates a Client for creds. A nil creds does not panic; every
// operation of the returned Client then fails with an error wrapping
// ErrInvalidCredentials.
func New(creds *Credentials, opts ...Option) *Client {
	c := &Client{
		creds:      creds,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	var domain string
	if creds != nil {
		domain = creds.Domain()
	}
	c.logger = c.logger.With("component", "mailgun", "domain", domain)
	return c
}

// Credentials returns the credentials the client was created with.
func (c *Client) Credentials() *Credentials {
	return c.creds
}

// newRequest builds a request for the default endpoint of an operation.
func newRequest(ctx context.Context, method, rawURL string) (*http.Request, error) {
	return http.NewRequestWithContext(ctx, method, rawURL, nil)
}

// prepare copies a caller-supplied request so the library can set headers
// and a body without touching the caller's value.
func prepare(ctx context.Context, req *http.Request) *http.Request {
	r := req.Clone(ctx)
	if r.Header == nil {
		r.Header = make(http.Header)
	}
	return r
}

// setForm installs params as an application/x-www-form-urlencoded body.
func setForm(req *http.Request, params map[string]string) {
	body := toValues(params).Encode()
	req.Body = io.NopCloser(strings.NewReader(body))
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(body)), nil
	}
	req.ContentLength = int64(len(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
}

// setQuery merges params into the request URL's query string.
func setQuery(req *http.Request, params map[string]string) {
	q := req.URL.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	req.URL.RawQuery = q.Encode()
}

func toValues(params map[string]string) url.Values {
	values := make(url.Values, len(params))
	for k, v := range params {
		values.Set(k, v)
	}
	return values
}

// do authenticates and sends req, then decodes a 2xx JSON body into out.
func (c *Client) do(op string, req *http.Request, out any) error {
	if c.creds == nil {
		return errNoCredentials
	}
	req.SetBasicAuth(basicAuthUser, c.creds.apiKey)
	req.Header.Set("Accept", "application/json")

	target := req.URL.String()
	timer := c.metrics.NewCallTimer(op)

	c.logger.Debug("sending Mailgun API request",
		"operation", op,
		"method", req.Method,
		"url", target,
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		timer.Error(metrics.KindTransport)
		return &TransportError{Op: op, URL: target, Err: err}
	}
	defer resp.Body.Close()

	timer.Done(resp.StatusCode)
	c.logger.Debug("received Mailgun API response",
		"operation", op,
		"status", resp.StatusCode,
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		timer.Error(metrics.KindStatus)
		return &StatusError{
			Op:         op,
			URL:        target,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		timer.Error(metrics.KindDecode)
		return &DecodeError{Op: op, Err: err}
	}

	return nil
}
