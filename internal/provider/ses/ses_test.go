package ses

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	sesv2 "github.com/aws/aws-sdk-go-v2/service/sesv2"

	"github.com/shineum/mailgun-lite/pkg/mailgun"
)

// mockSESClient implements SendEmailAPI for testing.
type mockSESClient struct {
	sendFn    func(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
	callCount int
	lastInput *sesv2.SendEmailInput
}

func (m *mockSESClient) SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	m.callCount++
	m.lastInput = params
	if m.sendFn != nil {
		return m.sendFn(ctx, params, optFns...)
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("test-message-id")}, nil
}

var testSender = mailgun.NameAddress("Sender", "sender@example.com")

func TestName(t *testing.T) {
	t.Parallel()
	p := NewWithClient(&mockSESClient{})
	if got := p.Name(); got != "ses" {
		t.Errorf("Name(): got %q, want %q", got, "ses")
	}
}

func TestSend_SimpleTextEmail(t *testing.T) {
	t.Parallel()

	mock := &mockSESClient{}
	p := NewWithClient(mock)

	msg := mailgun.Message{
		To:      []mailgun.EmailAddress{mailgun.Address("to@example.com")},
		Subject: "Test Subject",
		Body:    mailgun.TextBody("Hello, World!"),
	}

	id, err := p.Send(context.Background(), testSender, msg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "test-message-id" {
		t.Errorf("message ID: got %q, want %q", id, "test-message-id")
	}
	if mock.callCount != 1 {
		t.Errorf("call count: got %d, want 1", mock.callCount)
	}

	input := mock.lastInput
	if input.Content.Simple == nil {
		t.Fatal("expected simple email content, got nil")
	}
	if got := *input.FromEmailAddress; got != "Sender <sender@example.com>" {
		t.Errorf("FromEmailAddress: got %q, want %q", got, "Sender <sender@example.com>")
	}
	if got := *input.Content.Simple.Subject.Data; got != "Test Subject" {
		t.Errorf("Subject: got %q, want %q", got, "Test Subject")
	}
	if got := *input.Content.Simple.Body.Text.Data; got != "Hello, World!" {
		t.Errorf("TextBody: got %q, want %q", got, "Hello, World!")
	}
	if input.Content.Simple.Body.Html != nil {
		t.Error("expected no HTML body")
	}
}

func TestSend_HTMLAndTextEmail(t *testing.T) {
	t.Parallel()

	mock := &mockSESClient{}
	p := NewWithClient(mock)

	msg := mailgun.Message{
		To:      []mailgun.EmailAddress{mailgun.Address("to@example.com")},
		Subject: "HTML Test",
		Body:    mailgun.HTMLAndTextBody{HTML: "<h1>Hello</h1>", Text: "Plain text fallback"},
	}

	if _, err := p.Send(context.Background(), testSender, msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	body := mock.lastInput.Content.Simple.Body
	if got := *body.Html.Data; got != "<h1>Hello</h1>" {
		t.Errorf("HtmlBody: got %q, want %q", got, "<h1>Hello</h1>")
	}
	if got := *body.Text.Data; got != "Plain text fallback" {
		t.Errorf("TextBody: got %q, want %q", got, "Plain text fallback")
	}
	if got := *body.Html.Charset; got != "UTF-8" {
		t.Errorf("HTML charset: got %q, want %q", got, "UTF-8")
	}
}

func TestSend_HTMLOnlyAndNilBody(t *testing.T) {
	t.Parallel()

	mock := &mockSESClient{}
	p := NewWithClient(mock)

	if _, err := p.Send(context.Background(), testSender, mailgun.Message{Body: mailgun.HTMLBody("<p>x</p>")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.lastInput.Content.Simple.Body.Text != nil {
		t.Error("expected no text body for HTMLBody")
	}

	if _, err := p.Send(context.Background(), testSender, mailgun.Message{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := mock.lastInput.Content.Simple.Body.Text
	if text == nil || *text.Data != "" {
		t.Errorf("nil body: got %v, want empty text body", text)
	}
}

func TestSend_WithRecipients(t *testing.T) {
	t.Parallel()

	mock := &mockSESClient{}
	p := NewWithClient(mock)

	msg := mailgun.Message{
		To:      []mailgun.EmailAddress{mailgun.Address("to1@example.com"), mailgun.NameAddress("Two", "to2@example.com")},
		Cc:      []mailgun.EmailAddress{mailgun.Address("cc@example.com")},
		Bcc:     []mailgun.EmailAddress{mailgun.Address("bcc@example.com")},
		Subject: "Multi-recipient",
		Body:    mailgun.TextBody("Hello"),
	}

	if _, err := p.Send(context.Background(), testSender, msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dest := mock.lastInput.Destination
	if len(dest.ToAddresses) != 2 {
		t.Fatalf("ToAddresses: got %d, want 2", len(dest.ToAddresses))
	}
	if dest.ToAddresses[1] != "Two <to2@example.com>" {
		t.Errorf("ToAddresses[1]: got %q, want %q", dest.ToAddresses[1], "Two <to2@example.com>")
	}
	if len(dest.CcAddresses) != 1 {
		t.Errorf("CcAddresses: got %d, want 1", len(dest.CcAddresses))
	}
	if len(dest.BccAddresses) != 1 {
		t.Errorf("BccAddresses: got %d, want 1", len(dest.BccAddresses))
	}
}

func TestSend_EmptyRecipientListsOmitted(t *testing.T) {
	t.Parallel()

	mock := &mockSESClient{}
	p := NewWithClient(mock)

	msg := mailgun.Message{To: []mailgun.EmailAddress{mailgun.Address("to@example.com")}}
	if _, err := p.Send(context.Background(), testSender, msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dest := mock.lastInput.Destination
	if dest.CcAddresses != nil || dest.BccAddresses != nil {
		t.Errorf("expected nil Cc and Bcc, got %v and %v", dest.CcAddresses, dest.BccAddresses)
	}
}

func TestSend_Options(t *testing.T) {
	t.Parallel()

	mock := &mockSESClient{}
	p := NewWithClient(mock)

	msg := mailgun.Message{
		To:   []mailgun.EmailAddress{mailgun.Address("to@example.com")},
		Body: mailgun.TextBody("Hello"),
		Options: []mailgun.SendOption{
			mailgun.Header{Name: "X-Campaign", Value: "spring"},
			mailgun.Tag("first"),
			mailgun.TestMode{},
			mailgun.DeliveryTime{At: time.Date(2024, 3, 5, 9, 7, 3, 0, time.UTC)},
			mailgun.Tag("second"),
		},
	}

	if _, err := p.Send(context.Background(), testSender, msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	input := mock.lastInput
	headers := input.Content.Simple.Headers
	if len(headers) != 1 {
		t.Fatalf("Headers: got %d, want 1", len(headers))
	}
	if *headers[0].Name != "X-Campaign" || *headers[0].Value != "spring" {
		t.Errorf("Header: got %s=%s, want X-Campaign=spring", *headers[0].Name, *headers[0].Value)
	}

	if len(input.EmailTags) != 1 {
		t.Fatalf("EmailTags: got %d, want 1", len(input.EmailTags))
	}
	if *input.EmailTags[0].Name != "tag" || *input.EmailTags[0].Value != "second" {
		t.Errorf("EmailTag: got %s=%s, want tag=second", *input.EmailTags[0].Name, *input.EmailTags[0].Value)
	}
}

func TestSend_RepeatedHeaderLastWins(t *testing.T) {
	t.Parallel()

	mock := &mockSESClient{}
	p := NewWithClient(mock)

	msg := mailgun.Message{
		To:   []mailgun.EmailAddress{mailgun.Address("to@example.com")},
		Body: mailgun.TextBody("Hello"),
		Options: []mailgun.SendOption{
			mailgun.Header{Name: "X-Campaign", Value: "spring"},
			mailgun.Header{Name: "X-Team", Value: "ops"},
			mailgun.Header{Name: "X-Campaign", Value: "summer"},
		},
	}

	if _, err := p.Send(context.Background(), testSender, msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]string{}
	for k, v := range msg.Params() {
		if name, ok := strings.CutPrefix(k, "h:"); ok {
			want[name] = v
		}
	}

	headers := mock.lastInput.Content.Simple.Headers
	if len(headers) != len(want) {
		t.Fatalf("Headers: got %d, want %d", len(headers), len(want))
	}
	if *headers[0].Name != "X-Campaign" || *headers[0].Value != "summer" {
		t.Errorf("Header[0]: got %s=%s, want X-Campaign=summer", *headers[0].Name, *headers[0].Value)
	}
	for _, h := range headers {
		if want[*h.Name] != *h.Value {
			t.Errorf("Header %s: got %q, want %q as form-encoded", *h.Name, *h.Value, want[*h.Name])
		}
	}
}

func TestSend_ErrorNotRetried(t *testing.T) {
	t.Parallel()

	mock := &mockSESClient{
		sendFn: func(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
			return nil, errors.New("throttled")
		},
	}
	p := NewWithClient(mock)

	_, err := p.Send(context.Background(), testSender, mailgun.Message{Subject: "Fail Test"})
	if err == nil {
		t.Fatal("expected error from SES")
	}
	if !strings.Contains(err.Error(), "throttled") {
		t.Errorf("error message: got %q, want to contain %q", err.Error(), "throttled")
	}
	if mock.callCount != 1 {
		t.Errorf("call count: got %d, want 1", mock.callCount)
	}
}

func TestSend_PassesContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mock := &mockSESClient{
		sendFn: func(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
			return nil, ctx.Err()
		},
	}
	p := NewWithClient(mock)

	_, err := p.Send(ctx, testSender, mailgun.Message{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
