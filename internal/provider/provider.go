// Package provider defines the interface for email delivery backends.
package provider

import (
	"context"

	"github.com/shineum/mailgun-lite/pkg/mailgun"
)

// Provider is the interface that email delivery backends must implement.
// Mailgun is the primary backend; SES and stdout share the same message
// model so the CLI can switch between them by configuration.
type Provider interface {
	// Send delivers msg on behalf of sender and returns the backend's
	// message ID.
	Send(ctx context.Context, sender mailgun.EmailAddress, msg mailgun.Message) (string, error)

	// Name returns the human-readable name of this provider.
	Name() string
}
