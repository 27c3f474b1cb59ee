package mailgun

import (
	"strings"
	"time"
)

// deliveryTimeLayout is RFC 2822 with an unpadded day of month.
const deliveryTimeLayout = "Mon, 2 Jan 2006 15:04:05 -0700"

// MessageBody selects which content fields a message carries.
// Implementations are HTMLBody, TextBody and HTMLAndTextBody.
type MessageBody interface {
	addTo(params map[string]string)
}

// HTMLBody is an HTML-only body.
type HTMLBody string

// TextBody is a plain-text-only body.
type TextBody string

// HTMLAndTextBody carries both an HTML and a plain-text alternative.
type HTMLAndTextBody struct {
	HTML string
	Text string
}

func (b HTMLBody) addTo(params map[string]string) {
	params["html"] = string(b)
}

func (b TextBody) addTo(params map[string]string) {
	params["text"] = string(b)
}

func (b HTMLAndTextBody) addTo(params map[string]string) {
	params["html"] = b.HTML
	params["text"] = b.Text
}

// SendOption is one of the optional send parameters.
// Implementations are TestMode, DeliveryTime, Header and Tag.
type SendOption interface {
	param() (key, value string)
}

// TestMode asks Mailgun to accept the message without delivering it.
type TestMode struct{}

// DeliveryTime schedules delivery for a later time.
type DeliveryTime struct {
	At time.Time
}

// Header adds a custom MIME header.
type Header struct {
	Name  string
	Value string
}

// Tag attaches a tag to the message for tracking.
type Tag string

func (TestMode) param() (string, string) {
	return "o:testmode", "yes"
}

func (d DeliveryTime) param() (string, string) {
	return "o:deliverytime", d.At.Format(deliveryTimeLayout)
}

func (h Header) param() (string, string) {
	return "h:" + h.Name, h.Value
}

func (t Tag) param() (string, string) {
	return "o:tag", string(t)
}

// Message is an email to send through Mailgun.
type Message struct {
	To      []EmailAddress
	Cc      []EmailAddress
	Bcc     []EmailAddress
	Subject string
	// Body defaults to an empty TextBody when nil.
	Body    MessageBody
	Options []SendOption
}

// Params flattens the message into the form fields of the messages
// endpoint. Empty recipient lists are left out. When two options map to
// the same key the later one wins.
func (m Message) Params() map[string]string {
	params := make(map[string]string)

	addRecipients(params, "to", m.To)
	addRecipients(params, "cc", m.Cc)
	addRecipients(params, "bcc", m.Bcc)

	params["subject"] = m.Subject

	body := m.Body
	if body == nil {
		body = TextBody("")
	}
	body.addTo(params)

	for _, opt := range m.Options {
		if opt == nil {
			continue
		}
		k, v := opt.param()
		params[k] = v
	}

	return params
}

func addRecipients(params map[string]string, field string, addrs []EmailAddress) {
	if len(addrs) == 0 {
		return
	}
	rendered := make([]string, 0, len(addrs))
	for _, a := range addrs {
		rendered = append(rendered, a.String())
	}
	params[field] = strings.Join(rendered, ",")
}
