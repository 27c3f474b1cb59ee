// Package ses implements a Provider that sends emails via AWS SES v2.
package ses

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	sesv2 "github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/shineum/mailgun-lite/pkg/mailgun"
)

// tagName is the SES message tag that carries a mailgun.Tag option.
const tagName = "tag"

// SESProviderConfig holds the configuration for creating a SESProvider.
type SESProviderConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// SESProvider sends emails via the AWS SES v2 API.
type SESProvider struct {
	client SendEmailAPI
}

// SendEmailAPI is the interface for the SES v2 SendEmail operation.
// Used for testing with mock implementations.
type SendEmailAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// New creates a new SESProvider with the given configuration. Static
// credentials are used when both keys are set, otherwise the default AWS
// credential chain applies.
func New(ctx context.Context, cfg SESProviderConfig) (*SESProvider, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &SESProvider{client: sesv2.NewFromConfig(awsCfg)}, nil
}

// NewWithClient creates a SESProvider with a custom client, used for testing.
func NewWithClient(client SendEmailAPI) *SESProvider {
	return &SESProvider{client: client}
}

// Send delivers msg as an SES simple message. The call is made once; the
// SDK's own retryer handles throttling.
func (s *SESProvider) Send(ctx context.Context, sender mailgun.EmailAddress, msg mailgun.Message) (string, error) {
	out, err := s.client.SendEmail(ctx, buildInput(sender, msg))
	if err != nil {
		return "", fmt.Errorf("SES API request failed: %w", err)
	}
	return aws.ToString(out.MessageId), nil
}

// Name returns the provider name.
func (s *SESProvider) Name() string {
	return "ses"
}

// buildInput maps a mailgun message onto a SES SendEmailInput.
func buildInput(sender mailgun.EmailAddress, msg mailgun.Message) *sesv2.SendEmailInput {
	simple := &types.Message{
		Subject: utf8Content(msg.Subject),
		Body:    buildBody(msg.Body),
	}

	var tags []types.MessageTag
	for _, opt := range msg.Options {
		switch o := opt.(type) {
		case mailgun.Header:
			simple.Headers = setHeader(simple.Headers, o)
		case mailgun.Tag:
			// Later tags replace earlier ones, matching the form encoding.
			tags = []types.MessageTag{{Name: aws.String(tagName), Value: aws.String(string(o))}}
		case mailgun.TestMode:
			slog.Warn("SES has no test mode, sending normally")
		case mailgun.DeliveryTime:
			slog.Warn("SES does not support scheduled delivery, sending now",
				"delivery_time", o.At,
			)
		}
	}

	return &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(sender.String()),
		Destination: &types.Destination{
			ToAddresses:  addressStrings(msg.To),
			CcAddresses:  addressStrings(msg.Cc),
			BccAddresses: addressStrings(msg.Bcc),
		},
		Content:   &types.EmailContent{Simple: simple},
		EmailTags: tags,
	}
}

// setHeader replaces a header with the same name, or appends h. Names are
// compared exactly, as they are when the message is form-encoded.
func setHeader(headers []types.MessageHeader, h mailgun.Header) []types.MessageHeader {
	for i := range headers {
		if aws.ToString(headers[i].Name) == h.Name {
			headers[i].Value = aws.String(h.Value)
			return headers
		}
	}
	return append(headers, types.MessageHeader{
		Name:  aws.String(h.Name),
		Value: aws.String(h.Value),
	})
}

func buildBody(b mailgun.MessageBody) *types.Body {
	body := &types.Body{}

	switch v := b.(type) {
	case mailgun.HTMLBody:
		body.Html = utf8Content(string(v))
	case mailgun.HTMLAndTextBody:
		body.Html = utf8Content(v.HTML)
		body.Text = utf8Content(v.Text)
	case mailgun.TextBody:
		body.Text = utf8Content(string(v))
	default:
		body.Text = utf8Content("")
	}

	return body
}

func utf8Content(data string) *types.Content {
	return &types.Content{
		Data:    aws.String(data),
		Charset: aws.String("UTF-8"),
	}
}

func addressStrings(addrs []mailgun.EmailAddress) []string {
	if len(addrs) == 0 {
		return nil
	}
	out := make([]string, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, a.String())
	}
	return out
}
