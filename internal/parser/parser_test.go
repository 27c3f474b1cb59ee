package parser

import (
	"strings"
	"testing"

	"github.com/shineum/mailgun-lite/pkg/mailgun"
)

func TestParseAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    mailgun.EmailAddress
		wantErr bool
	}{
		{name: "bare address", input: "jane@example.com", want: mailgun.Address("jane@example.com")},
		{name: "named address", input: "Jane Doe <jane@example.com>", want: mailgun.NameAddress("Jane Doe", "jane@example.com")},
		{name: "surrounding space", input: "  jane@example.com ", want: mailgun.Address("jane@example.com")},
		{name: "missing at sign", input: "not-an-address", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseAddress(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got nil", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseAddress(%q): got %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseAddressList(t *testing.T) {
	t.Parallel()

	got, err := ParseAddressList([]string{
		"alice@example.com, Bob <bob@example.com>",
		"",
		"carol@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []mailgun.EmailAddress{
		mailgun.Address("alice@example.com"),
		mailgun.NameAddress("Bob", "bob@example.com"),
		mailgun.Address("carol@example.com"),
	}
	if len(got) != len(want) {
		t.Fatalf("len: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d]: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestParseAddressList_Empty(t *testing.T) {
	t.Parallel()

	got, err := ParseAddressList(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("got %v, want nil", got)
	}
}

func TestParseAddressList_Invalid(t *testing.T) {
	t.Parallel()

	if _, err := ParseAddressList([]string{"good@example.com, bad"}); err == nil {
		t.Error("expected error for malformed list, got nil")
	}
}

func TestParseHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    mailgun.Header
		wantErr bool
	}{
		{input: "X-Campaign: spring", want: mailgun.Header{Name: "X-Campaign", Value: "spring"}},
		{input: "X-Empty:", want: mailgun.Header{Name: "X-Empty", Value: ""}},
		{input: "X-Url: https://example.com/a", want: mailgun.Header{Name: "X-Url", Value: "https://example.com/a"}},
		{input: "no colon", wantErr: true},
		{input: ": value", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseHeader(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseHeader(%q): expected error, got nil", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseHeader(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseHeader(%q): got %+v, want %+v", tt.input, got, tt.want)
		}
	}
}

func TestParsePlainTextEmail(t *testing.T) {
	t.Parallel()

	raw := []byte(strings.Join([]string{
		"From: Sender <sender@example.com>",
		"To: recipient@example.com",
		"Subject: Test Subject",
		"Content-Type: text/plain",
		"",
		"Hello, this is a plain text email.",
	}, "\r\n"))

	parsed, err := Parse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := mailgun.NameAddress("Sender", "sender@example.com"); parsed.From != want {
		t.Errorf("From: got %v, want %v", parsed.From, want)
	}
	msg := parsed.Message
	if len(msg.To) != 1 || msg.To[0] != mailgun.Address("recipient@example.com") {
		t.Errorf("To: got %v, want [recipient@example.com]", msg.To)
	}
	if msg.Subject != "Test Subject" {
		t.Errorf("Subject: got %q, want %q", msg.Subject, "Test Subject")
	}
	if body, ok := msg.Body.(mailgun.TextBody); !ok || body != "Hello, this is a plain text email." {
		t.Errorf("Body: got %#v, want TextBody", msg.Body)
	}
}

func TestParseHTMLOnlyEmail(t *testing.T) {
	t.Parallel()

	raw := []byte(strings.Join([]string{
		"To: recipient@example.com",
		"Subject: =?UTF-8?Q?Caf=C3=A9?=",
		"Content-Type: text/html; charset=UTF-8",
		"",
		"<p>Hi</p>",
	}, "\r\n"))

	parsed, err := Parse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if parsed.From != (mailgun.EmailAddress{}) {
		t.Errorf("From: got %v, want zero value", parsed.From)
	}
	if parsed.Message.Subject != "Café" {
		t.Errorf("Subject: got %q, want %q", parsed.Message.Subject, "Café")
	}
	if body, ok := parsed.Message.Body.(mailgun.HTMLBody); !ok || body != "<p>Hi</p>" {
		t.Errorf("Body: got %#v, want HTMLBody", parsed.Message.Body)
	}
}

func TestParseMultipartTextAndHTML(t *testing.T) {
	t.Parallel()

	raw := []byte(strings.Join([]string{
		"From: sender@example.com",
		"To: alice@example.com, bob@example.com",
		"Cc: carol@example.com",
		"Subject: Multipart Test",
		"Content-Type: multipart/alternative; boundary=boundary123",
		"",
		"--boundary123",
		"Content-Type: text/plain",
		"",
		"Plain text body",
		"--boundary123",
		"Content-Type: text/html",
		"",
		"<html><body><p>HTML body</p></body></html>",
		"--boundary123--",
	}, "\r\n"))

	parsed, err := Parse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msg := parsed.Message
	if len(msg.To) != 2 {
		t.Fatalf("To: got %d recipients, want 2", len(msg.To))
	}
	if msg.To[1] != mailgun.Address("bob@example.com") {
		t.Errorf("To[1]: got %v, want %q", msg.To[1], "bob@example.com")
	}
	if len(msg.Cc) != 1 || msg.Cc[0] != mailgun.Address("carol@example.com") {
		t.Errorf("Cc: got %v, want [carol@example.com]", msg.Cc)
	}
	if len(msg.Bcc) != 0 {
		t.Errorf("Bcc: got %v, want empty", msg.Bcc)
	}

	want := mailgun.HTMLAndTextBody{
		HTML: "<html><body><p>HTML body</p></body></html>",
		Text: "Plain text body",
	}
	if msg.Body != want {
		t.Errorf("Body: got %#v, want %#v", msg.Body, want)
	}
}

func TestParseDropsAttachments(t *testing.T) {
	t.Parallel()

	raw := []byte(strings.Join([]string{
		"From: sender@example.com",
		"To: recipient@example.com",
		"Subject: With Attachment",
		"Content-Type: multipart/mixed; boundary=mixedboundary",
		"",
		"--mixedboundary",
		"Content-Type: text/plain",
		"",
		"Email body text",
		"--mixedboundary",
		"Content-Type: application/pdf; name=\"report.pdf\"",
		"Content-Disposition: attachment; filename=\"report.pdf\"",
		"Content-Transfer-Encoding: base64",
		"",
		"SGVsbG8gV29ybGQ=",
		"--mixedboundary--",
	}, "\r\n"))

	parsed, err := Parse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if body, ok := parsed.Message.Body.(mailgun.TextBody); !ok || body != "Email body text" {
		t.Errorf("Body: got %#v, want TextBody %q", parsed.Message.Body, "Email body text")
	}
}

func TestParseBase64Body(t *testing.T) {
	t.Parallel()

	raw := []byte(strings.Join([]string{
		"To: recipient@example.com",
		"Subject: Encoded",
		"Content-Type: text/plain; charset=UTF-8",
		"Content-Transfer-Encoding: base64",
		"",
		"SGVsbG8g",
		"V29ybGQ=",
	}, "\r\n"))

	parsed, err := Parse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body, ok := parsed.Message.Body.(mailgun.TextBody); !ok || body != "Hello World" {
		t.Errorf("Body: got %#v, want TextBody %q", parsed.Message.Body, "Hello World")
	}
}

func TestParseQuotedPrintableBody(t *testing.T) {
	t.Parallel()

	raw := []byte(strings.Join([]string{
		"To: recipient@example.com",
		"Content-Type: text/html; charset=UTF-8",
		"Content-Transfer-Encoding: quoted-printable",
		"",
		"<p style=3D\"color:red\">Caf=C3=A9</p>",
	}, "\r\n"))

	parsed, err := Parse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := mailgun.HTMLBody(`<p style="color:red">Café</p>`)
	if parsed.Message.Body != want {
		t.Errorf("Body: got %#v, want %#v", parsed.Message.Body, want)
	}
}

func TestParseNestedMultipart(t *testing.T) {
	t.Parallel()

	raw := []byte(strings.Join([]string{
		"From: sender@example.com",
		"To: recipient@example.com",
		"Subject: Nested Multipart",
		"Content-Type: multipart/mixed; boundary=outer",
		"",
		"--outer",
		"Content-Type: multipart/alternative; boundary=inner",
		"",
		"--inner",
		"Content-Type: text/plain",
		"",
		"Plain text part",
		"--inner",
		"Content-Type: text/html",
		"",
		"<p>HTML part</p>",
		"--inner--",
		"--outer",
		"Content-Type: application/octet-stream; name=\"data.bin\"",
		"Content-Disposition: attachment; filename=\"data.bin\"",
		"",
		"binarydata",
		"--outer--",
	}, "\r\n"))

	parsed, err := Parse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := mailgun.HTMLAndTextBody{HTML: "<p>HTML part</p>", Text: "Plain text part"}
	if parsed.Message.Body != want {
		t.Errorf("Body: got %#v, want %#v", parsed.Message.Body, want)
	}
}

func TestParseMultipartMissingBoundary(t *testing.T) {
	t.Parallel()

	raw := []byte(strings.Join([]string{
		"To: recipient@example.com",
		"Content-Type: multipart/mixed",
		"",
		"body",
	}, "\r\n"))

	if _, err := Parse(raw); err == nil {
		t.Error("expected error for missing boundary, got nil")
	}
}

func TestParseInvalidRecipient(t *testing.T) {
	t.Parallel()

	raw := []byte(strings.Join([]string{
		"To: not an address",
		"Subject: Broken",
		"",
		"body",
	}, "\r\n"))

	if _, err := Parse(raw); err == nil {
		t.Error("expected error for malformed To header, got nil")
	}
}

func TestParseMalformedMessage(t *testing.T) {
	t.Parallel()

	if _, err := Parse([]byte("this is not a message")); err == nil {
		t.Error("expected error for malformed message, got nil")
	}
}
