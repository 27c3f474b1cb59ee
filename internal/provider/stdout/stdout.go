// Package stdout implements a Provider that prints emails to standard output.
package stdout

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/shineum/mailgun-lite/pkg/mailgun"
)

// idDomain is the right-hand side of generated message IDs.
const idDomain = "dry-run.local"

const separator = "========================================\n"

// Provider prints email messages in a human-readable format instead of
// sending them.
type Provider struct {
	// writer is the output destination, defaulting to os.Stdout.
	writer io.Writer
}

// New creates a new stdout Provider that writes to os.Stdout.
func New() *Provider {
	return &Provider{writer: os.Stdout}
}

// NewWithWriter creates a new stdout Provider that writes to the given writer.
// This is useful for testing.
func NewWithWriter(w io.Writer) *Provider {
	return &Provider{writer: w}
}

// Send prints the message along with the form fields Mailgun would
// receive, and returns a generated message ID.
func (p *Provider) Send(_ context.Context, sender mailgun.EmailAddress, msg mailgun.Message) (string, error) {
	id := fmt.Sprintf("<%s@%s>", uuid.NewString(), idDomain)
	params := msg.Params()

	var b strings.Builder

	b.WriteString(separator)
	fmt.Fprintf(&b, "Message-ID: %s\n", id)
	fmt.Fprintf(&b, "From: %s\n", sender)
	writeRecipients(&b, "To", msg.To)
	writeRecipients(&b, "Cc", msg.Cc)
	writeRecipients(&b, "Bcc", msg.Bcc)
	fmt.Fprintf(&b, "Subject: %s\n", msg.Subject)

	var options []string
	for k, v := range params {
		if strings.HasPrefix(k, "o:") || strings.HasPrefix(k, "h:") {
			options = append(options, k+"="+v)
		}
	}
	if len(options) > 0 {
		slices.Sort(options)
		fmt.Fprintf(&b, "Options: %s\n", strings.Join(options, ", "))
	}

	if text, ok := params["text"]; ok {
		b.WriteString("Text:\n")
		b.WriteString(text + "\n")
	}
	if html, ok := params["html"]; ok {
		b.WriteString("HTML:\n")
		b.WriteString(html + "\n")
	}

	b.WriteString(separator)

	if _, err := io.WriteString(p.writer, b.String()); err != nil {
		return "", fmt.Errorf("failed to write message: %w", err)
	}

	return id, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "stdout"
}

func writeRecipients(b *strings.Builder, field string, addrs []mailgun.EmailAddress) {
	if len(addrs) == 0 {
		return
	}
	rendered := make([]string, 0, len(addrs))
	for _, a := range addrs {
		rendered = append(rendered, a.String())
	}
	fmt.Fprintf(b, "%s: %s\n", field, strings.Join(rendered, ", "))
}
