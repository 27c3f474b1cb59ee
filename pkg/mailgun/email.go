package mailgun

import (
	"context"
	"fmt"
	"net/http"
)

const messagesEndpoint = "messages"

// SendResponse is returned by the messages endpoint.
type SendResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// Send posts msg from sender to {api_base}/{domain}/messages.
func (c *Client) Send(ctx context.Context, sender EmailAddress, msg Message) (*SendResponse, error) {
	if c.creds == nil {
		return nil, errNoCredentials
	}
	req, err := newRequest(ctx, http.MethodPost, c.creds.domainURL(messagesEndpoint))
	if err != nil {
		return nil, fmt.Errorf("mailgun: create send request: %w", err)
	}
	return c.SendRequest(ctx, req, sender, msg)
}

// SendRequest is Send against a caller-built request. The request's method
// and URL are kept; auth, headers and the form body are filled in.
func (c *Client) SendRequest(ctx context.Context, req *http.Request, sender EmailAddress, msg Message) (*SendResponse, error) {
	params := msg.Params()
	params["from"] = sender.String()

	r := prepare(ctx, req)
	setForm(r, params)

	var out SendResponse
	if err := c.do(opSend, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendEmail sends a single message using a default HTTP client.
func SendEmail(ctx context.Context, creds *Credentials, sender EmailAddress, msg Message) (*SendResponse, error) {
	return New(creds).Send(ctx, sender, msg)
}

// SendEmailWithClient is SendEmail with an externally managed HTTP client.
func SendEmailWithClient(ctx context.Context, httpClient HTTPDoer, creds *Credentials, sender EmailAddress, msg Message) (*SendResponse, error) {
	return New(creds, WithHTTPClient(httpClient)).Send(ctx, sender, msg)
}

// SendEmailWithRequest is SendEmail with an externally built request, for
// example one aimed at a test endpoint.
func SendEmailWithRequest(ctx context.Context, req *http.Request, creds *Credentials, sender EmailAddress, msg Message) (*SendResponse, error) {
	return New(creds).SendRequest(ctx, req, sender, msg)
}
