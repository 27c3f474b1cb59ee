package mailgun

import (
	"context"
	"fmt"
	"net/http"
)

const validationEndpoint = "address/private/validate"

// EmailParts is the parsed form of a syntactically valid address.
type EmailParts struct {
	Domain      string  `json:"domain"`
	DisplayName *string `json:"display_name"`
	LocalPart   string  `json:"local_part"`
}

// ValidationResponse is returned by the address validation endpoint.
type ValidationResponse struct {
	Address             string      `json:"address"`
	DidYouMean          *string     `json:"did_you_mean"`
	IsDisposableAddress bool        `json:"is_disposable_address"`
	IsRoleAddress       bool        `json:"is_role_address"`
	IsValid             bool        `json:"is_valid"`
	Parts               *EmailParts `json:"parts"`
	Reason              *string     `json:"reason"`
}

// Validate checks address with the validation service. The endpoint lives
// under the API root, not under the sending domain.
func (c *Client) Validate(ctx context.Context, address string) (*ValidationResponse, error) {
	if c.creds == nil {
		return nil, errNoCredentials
	}
	req, err := newRequest(ctx, http.MethodGet, c.creds.rootURL(validationEndpoint))
	if err != nil {
		return nil, fmt.Errorf("mailgun: create validate request: %w", err)
	}
	return c.ValidateRequest(ctx, req, address)
}

// ValidateRequest is Validate against a caller-built request. The address is
// added to the query string.
func (c *Client) ValidateRequest(ctx context.Context, req *http.Request, address string) (*ValidationResponse, error) {
	r := prepare(ctx, req)
	setQuery(r, map[string]string{"address": address})

	var out ValidationResponse
	if err := c.do(opValidate, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ValidateEmail validates address using a default HTTP client.
func ValidateEmail(ctx context.Context, creds *Credentials, address string) (*ValidationResponse, error) {
	return New(creds).Validate(ctx, address)
}

// ValidateEmailWithClient is ValidateEmail with an externally managed HTTP client.
func ValidateEmailWithClient(ctx context.Context, httpClient HTTPDoer, creds *Credentials, address string) (*ValidationResponse, error) {
	return New(creds, WithHTTPClient(httpClient)).Validate(ctx, address)
}

// ValidateEmailWithRequest is ValidateEmail with an externally built request.
func ValidateEmailWithRequest(ctx context.Context, req *http.Request, creds *Credentials, address string) (*ValidationResponse, error) {
	return New(creds).ValidateRequest(ctx, req, address)
}
