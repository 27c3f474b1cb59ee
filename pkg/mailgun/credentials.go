package mailgun

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// DefaultAPIBase is the US region API root.
	DefaultAPIBase = "https://api.mailgun.net/v3"
	// EUAPIBase is the EU region API root.
	EUAPIBase = "https://api.eu.mailgun.net/v3"

	minAPIKeyLength = 35
)

// ErrInvalidCredentials is wrapped by every credential validation failure.
var ErrInvalidCredentials = errors.New("mailgun: invalid credentials")

// Credentials holds the API root, the private API key and the sending
// domain. It is immutable and safe to share across goroutines.
type Credentials struct {
	apiBase string
	apiKey  string
	domain  string
}

// NewCredentials returns credentials for the default US API root.
func NewCredentials(apiKey, domain string) (*Credentials, error) {
	return NewCredentialsWithBase(DefaultAPIBase, apiKey, domain)
}

// NewCredentialsWithBase returns credentials for a custom API root, such as
// EUAPIBase or a test server.
func NewCredentialsWithBase(apiBase, apiKey, domain string) (*Credentials, error) {
	if !strings.HasPrefix(apiBase, "http://") && !strings.HasPrefix(apiBase, "https://") {
		return nil, fmt.Errorf("%w: api base %q does not start with http:// or https://", ErrInvalidCredentials, apiBase)
	}
	if !strings.Contains(apiBase, ".") {
		return nil, fmt.Errorf("%w: api base %q does not contain a domain separator", ErrInvalidCredentials, apiBase)
	}
	if len(apiKey) < minAPIKeyLength {
		return nil, fmt.Errorf("%w: api key is shorter than %d characters", ErrInvalidCredentials, minAPIKeyLength)
	}
	if !strings.Contains(domain, ".") {
		return nil, fmt.Errorf("%w: domain %q does not contain a domain separator", ErrInvalidCredentials, domain)
	}

	return &Credentials{
		apiBase: strings.TrimRight(apiBase, "/"),
		apiKey:  apiKey,
		domain:  domain,
	}, nil
}

// APIBase returns the API root without a trailing slash.
func (c *Credentials) APIBase() string {
	return c.apiBase
}

// Domain returns the sending domain.
func (c *Credentials) Domain() string {
	return c.domain
}

// String never includes the API key.
func (c *Credentials) String() string {
	return fmt.Sprintf("Credentials{api_base: %s, domain: %s, api_key: [REDACTED]}", c.apiBase, c.domain)
}

func (c *Credentials) domainURL(parts ...string) string {
	return c.apiBase + "/" + c.domain + "/" + strings.Join(parts, "/")
}

func (c *Credentials) rootURL(parts ...string) string {
	return c.apiBase + "/" + strings.Join(parts, "/")
}
