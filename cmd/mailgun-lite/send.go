package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/shineum/mailgun-lite/internal/parser"
	"github.com/shineum/mailgun-lite/pkg/mailgun"
)

type sendFlags struct {
	from      string
	to        []string
	cc        []string
	bcc       []string
	subject   string
	text      string
	html      string
	tag       string
	headers   []string
	testMode  bool
	deliverAt string
	eml       string
}

type sendResult struct {
	Provider string `json:"provider"`
	ID       string `json:"id"`
}

func newSendCmd(a *app) *cobra.Command {
	f := &sendFlags{}

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a message through the configured provider",
		Long: `Send a message through the configured provider.

The message can be given entirely with flags or read from an RFC 5322 file
with --eml. Flags override or extend what the file provides: recipients are
added, and --text and --html each replace only their own part of the body.
Attachments in the file are dropped.`,
		Example: `  mailgun-lite send --from "Ops <ops@mg.example.com>" --to user@example.com \
    --subject "Hello" --text "Hi there" --tag welcome
  mailgun-lite send --eml message.eml --test-mode`,
		Args: cobra.NoArgs,
	}
	cmd.RunE = a.run(func(cmd *cobra.Command, _ []string) error {
		return runSend(cmd, a, f)
	})

	flags := cmd.Flags()
	flags.StringVar(&f.from, "from", "", "sender address (defaults to the provider's configured sender)")
	flags.StringSliceVar(&f.to, "to", nil, "recipient address; repeat or comma-separate")
	flags.StringSliceVar(&f.cc, "cc", nil, "carbon-copy address; repeat or comma-separate")
	flags.StringSliceVar(&f.bcc, "bcc", nil, "blind-carbon-copy address; repeat or comma-separate")
	flags.StringVar(&f.subject, "subject", "", "message subject")
	flags.StringVar(&f.text, "text", "", "plain-text body")
	flags.StringVar(&f.html, "html", "", "HTML body")
	flags.StringVar(&f.tag, "tag", "", "tracking tag")
	flags.StringArrayVar(&f.headers, "header", nil, `custom header as "Name: value"; repeatable`)
	flags.BoolVar(&f.testMode, "test-mode", false, "ask Mailgun to accept the message without delivering it")
	flags.StringVar(&f.deliverAt, "deliver-at", "", "scheduled delivery time in RFC 3339 format")
	flags.StringVar(&f.eml, "eml", "", "read the message from an RFC 5322 file")

	return cmd
}

func runSend(cmd *cobra.Command, a *app, f *sendFlags) error {
	sender, msg, err := buildMessage(cmd, f)
	if err != nil {
		return err
	}

	prov, defaultSender, err := selectProvider(cmd.Context(), a.cfg, cmd.OutOrStdout(), a.client)
	if err != nil {
		return err
	}

	if sender == (mailgun.EmailAddress{}) {
		if defaultSender == "" {
			return fmt.Errorf("no sender: pass --from or configure a sender for the %s provider", prov.Name())
		}
		if sender, err = parser.ParseAddress(defaultSender); err != nil {
			return fmt.Errorf("configured sender: %w", err)
		}
	}

	if len(msg.To) == 0 && len(msg.Cc) == 0 && len(msg.Bcc) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}

	a.logger.Info("sending message",
		"provider", prov.Name(),
		"from", sender.Email(),
		"recipients", len(msg.To)+len(msg.Cc)+len(msg.Bcc),
	)

	id, err := prov.Send(cmd.Context(), sender, msg)
	if err != nil {
		return err
	}

	return printJSON(cmd.OutOrStdout(), sendResult{Provider: prov.Name(), ID: id})
}

// buildMessage assembles the message from --eml and the remaining flags.
// The returned sender is the zero value when neither source names one.
func buildMessage(cmd *cobra.Command, f *sendFlags) (mailgun.EmailAddress, mailgun.Message, error) {
	var (
		sender mailgun.EmailAddress
		msg    mailgun.Message
	)

	if f.eml != "" {
		raw, err := os.ReadFile(f.eml)
		if err != nil {
			return sender, msg, fmt.Errorf("failed to read message file: %w", err)
		}
		parsed, err := parser.Parse(raw)
		if err != nil {
			return sender, msg, err
		}
		sender, msg = parsed.From, parsed.Message
	}

	if f.from != "" {
		addr, err := parser.ParseAddress(f.from)
		if err != nil {
			return sender, msg, fmt.Errorf("--from: %w", err)
		}
		sender = addr
	}

	for _, list := range []struct {
		flag string
		raw  []string
		dst  *[]mailgun.EmailAddress
	}{
		{"--to", f.to, &msg.To},
		{"--cc", f.cc, &msg.Cc},
		{"--bcc", f.bcc, &msg.Bcc},
	} {
		addrs, err := parser.ParseAddressList(list.raw)
		if err != nil {
			return sender, msg, fmt.Errorf("%s: %w", list.flag, err)
		}
		*list.dst = append(*list.dst, addrs...)
	}

	flags := cmd.Flags()
	if flags.Changed("subject") {
		msg.Subject = f.subject
	}

	if flags.Changed("html") || flags.Changed("text") {
		html, text := splitBody(msg.Body)
		if flags.Changed("html") {
			html = f.html
		}
		if flags.Changed("text") {
			text = f.text
		}
		msg.Body = joinBody(html, text)
	}

	if f.testMode {
		msg.Options = append(msg.Options, mailgun.TestMode{})
	}
	if f.deliverAt != "" {
		at, err := time.Parse(time.RFC3339, f.deliverAt)
		if err != nil {
			return sender, msg, fmt.Errorf("--deliver-at: %w", err)
		}
		msg.Options = append(msg.Options, mailgun.DeliveryTime{At: at})
	}
	for _, raw := range f.headers {
		h, err := parser.ParseHeader(raw)
		if err != nil {
			return sender, msg, fmt.Errorf("--header: %w", err)
		}
		msg.Options = append(msg.Options, h)
	}
	if f.tag != "" {
		msg.Options = append(msg.Options, mailgun.Tag(f.tag))
	}

	return sender, msg, nil
}

// splitBody returns the HTML and plain-text parts of b. A nil body has neither.
func splitBody(b mailgun.MessageBody) (html, text string) {
	switch body := b.(type) {
	case mailgun.HTMLAndTextBody:
		return body.HTML, body.Text
	case mailgun.HTMLBody:
		return string(body), ""
	case mailgun.TextBody:
		return "", string(body)
	}
	return "", ""
}

// joinBody picks the narrowest body that carries every non-empty part.
func joinBody(html, text string) mailgun.MessageBody {
	switch {
	case html != "" && text != "":
		return mailgun.HTMLAndTextBody{HTML: html, Text: text}
	case html != "":
		return mailgun.HTMLBody(html)
	default:
		return mailgun.TextBody(text)
	}
}
