// Package mailgun implements a Provider that sends emails through the
// Mailgun messages API.
package mailgun

import (
	"context"
	"fmt"

	"github.com/shineum/mailgun-lite/pkg/mailgun"
)

// Provider delivers messages with a mailgun.Client.
type Provider struct {
	client *mailgun.Client
}

// New creates a Provider backed by client.
func New(client *mailgun.Client) *Provider {
	return &Provider{client: client}
}

// Send posts msg to the messages endpoint and returns the queued ID.
func (p *Provider) Send(ctx context.Context, sender mailgun.EmailAddress, msg mailgun.Message) (string, error) {
	resp, err := p.client.Send(ctx, sender, msg)
	if err != nil {
		return "", fmt.Errorf("mailgun send failed: %w", err)
	}
	return resp.ID, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "mailgun"
}
