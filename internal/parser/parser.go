// Package parser turns command-line text and RFC 5322 message files into
// mailgun message values.
package parser

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"

	"github.com/shineum/mailgun-lite/pkg/mailgun"
)

// Parsed is a message read from an RFC 5322 source.
type Parsed struct {
	// From is the zero value when the source has no From header.
	From    mailgun.EmailAddress
	Message mailgun.Message
}

// ParseAddress parses a single address such as "Jane <jane@example.com>"
// or a bare "jane@example.com".
func ParseAddress(raw string) (mailgun.EmailAddress, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil {
		return mailgun.EmailAddress{}, fmt.Errorf("invalid address %q: %w", raw, err)
	}
	return toEmailAddress(addr), nil
}

// ParseAddressList parses every entry of raw, where each entry may itself
// be a comma-separated list. Empty entries are skipped.
func ParseAddressList(raw []string) ([]mailgun.EmailAddress, error) {
	var result []mailgun.EmailAddress
	for _, entry := range raw {
		if strings.TrimSpace(entry) == "" {
			continue
		}
		addrs, err := mail.ParseAddressList(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid address list %q: %w", entry, err)
		}
		for _, addr := range addrs {
			result = append(result, toEmailAddress(addr))
		}
	}
	return result, nil
}

// ParseHeader splits a "Name: value" pair into a custom header option.
func ParseHeader(raw string) (mailgun.Header, error) {
	name, value, ok := strings.Cut(raw, ":")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return mailgun.Header{}, fmt.Errorf("invalid header %q: want \"Name: value\"", raw)
	}
	return mailgun.Header{Name: name, Value: strings.TrimSpace(value)}, nil
}

// Parse reads a raw RFC 5322 message. Recipients, subject and the first
// text/plain and text/html parts are kept. Attachments and unknown parts
// are logged and dropped since the messages endpoint is sent form-encoded.
func Parse(raw []byte) (*Parsed, error) {
	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}

	result := &Parsed{}

	if from := msg.Header.Get("From"); from != "" {
		addr, err := ParseAddress(from)
		if err != nil {
			return nil, err
		}
		result.From = addr
	}

	dec := new(mime.WordDecoder)
	subject := msg.Header.Get("Subject")
	if decoded, err := dec.DecodeHeader(subject); err == nil {
		subject = decoded
	}
	result.Message.Subject = subject

	for _, field := range []struct {
		header string
		dst    *[]mailgun.EmailAddress
	}{
		{"To", &result.Message.To},
		{"Cc", &result.Message.Cc},
		{"Bcc", &result.Message.Bcc},
	} {
		addrs, err := ParseAddressList([]string{msg.Header.Get(field.header)})
		if err != nil {
			return nil, fmt.Errorf("%s header: %w", field.header, err)
		}
		*field.dst = addrs
	}

	var bodies bodyParts

	contentType := msg.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "text/plain"
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		slog.Warn("failed to parse content type, treating as plain text",
			"content_type", contentType,
			"error", err,
		)
		body, readErr := io.ReadAll(msg.Body)
		if readErr != nil {
			return nil, fmt.Errorf("failed to read message body: %w", readErr)
		}
		bodies.text = string(body)
		result.Message.Body = bodies.messageBody()
		return result, nil
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		boundary := params["boundary"]
		if boundary == "" {
			return nil, fmt.Errorf("multipart message missing boundary")
		}
		if err := parseMultipart(msg.Body, boundary, &bodies); err != nil {
			return nil, fmt.Errorf("failed to parse multipart message: %w", err)
		}
	} else {
		body, err := decodeContent(msg.Header.Get("Content-Transfer-Encoding"), msg.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read message body: %w", err)
		}
		switch mediaType {
		case "text/html":
			bodies.html = string(body)
		case "text/plain":
			bodies.text = string(body)
		default:
			slog.Warn("unrecognized top-level content type",
				"content_type", mediaType,
			)
			bodies.text = string(body)
		}
	}

	result.Message.Body = bodies.messageBody()
	return result, nil
}

type bodyParts struct {
	text, html string
}

func (b bodyParts) messageBody() mailgun.MessageBody {
	switch {
	case b.html != "" && b.text != "":
		return mailgun.HTMLAndTextBody{HTML: b.html, Text: b.text}
	case b.html != "":
		return mailgun.HTMLBody(b.html)
	default:
		return mailgun.TextBody(b.text)
	}
}

// parseMultipart walks a multipart body, descending into nested multiparts.
func parseMultipart(body io.Reader, boundary string, bodies *bodyParts) error {
	reader := multipart.NewReader(body, boundary)

	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read next part: %w", err)
		}

		partContentType := part.Header.Get("Content-Type")
		if partContentType == "" {
			partContentType = "text/plain"
		}

		mediaType, params, err := mime.ParseMediaType(partContentType)
		if err != nil {
			slog.Warn("failed to parse part content type, skipping",
				"content_type", partContentType,
				"error", err,
			)
			continue
		}

		if strings.HasPrefix(mediaType, "multipart/") {
			nestedBoundary := params["boundary"]
			if nestedBoundary == "" {
				slog.Warn("nested multipart missing boundary, skipping")
				continue
			}
			if err := parseMultipart(part, nestedBoundary, bodies); err != nil {
				slog.Warn("failed to parse nested multipart", "error", err)
			}
			continue
		}

		disposition := part.Header.Get("Content-Disposition")
		if strings.HasPrefix(disposition, "attachment") || part.FileName() != "" {
			slog.Warn("dropping attachment",
				"filename", part.FileName(),
				"content_type", mediaType,
			)
			continue
		}

		if mediaType != "text/plain" && mediaType != "text/html" {
			slog.Warn("unrecognized MIME part, skipping",
				"content_type", mediaType,
				"disposition", disposition,
			)
			continue
		}

		content, err := decodeContent(part.Header.Get("Content-Transfer-Encoding"), part)
		if err != nil {
			slog.Warn("failed to read part content",
				"content_type", mediaType,
				"error", err,
			)
			continue
		}

		if mediaType == "text/html" && bodies.html == "" {
			bodies.html = string(content)
		}
		if mediaType == "text/plain" && bodies.text == "" {
			bodies.text = string(content)
		}
	}
}

// decodeContent reads r and undoes a base64 or quoted-printable transfer
// encoding. The multipart reader already strips quoted-printable from parts
// and removes the header, so parts are never decoded twice.
func decodeContent(encoding string, r io.Reader) ([]byte, error) {
	encoding = strings.ToLower(strings.TrimSpace(encoding))
	if encoding == "quoted-printable" {
		return io.ReadAll(quotedprintable.NewReader(r))
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	if encoding != "base64" {
		return raw, nil
	}

	cleaned := strings.NewReplacer("\r", "", "\n", "").Replace(string(raw))
	decoded, err := base64.StdEncoding.DecodeString(cleaned)
	if err != nil {
		decoded, err = base64.RawStdEncoding.DecodeString(cleaned)
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64 content: %w", err)
		}
	}
	return decoded, nil
}

func toEmailAddress(addr *mail.Address) mailgun.EmailAddress {
	if addr.Name == "" {
		return mailgun.Address(addr.Address)
	}
	return mailgun.NameAddress(addr.Name, addr.Address)
}
