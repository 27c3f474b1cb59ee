// Package mailgun is a thin client for the Mailgun v3 HTTP API. It covers
// sending messages, validating addresses and managing templates.
//
// Every operation is a single request/response round trip. Nothing is
// retried, queued or cached.
package mailgun

import "fmt"

// EmailAddress is an email address with an optional display name.
type EmailAddress struct {
	name    string
	address string
}

// Address returns an EmailAddress without a display name.
func Address(address string) EmailAddress {
	return EmailAddress{address: address}
}

// NameAddress returns an EmailAddress with a display name.
func NameAddress(name, address string) EmailAddress {
	return EmailAddress{name: name, address: address}
}

// Email returns the bare address.
func (a EmailAddress) Email() string {
	return a.address
}

// Name returns the display name, or "" when there is none.
func (a EmailAddress) Name() string {
	return a.name
}

// String renders the address in wire format: "Name <addr>" or "addr".
// No escaping or validation is applied.
func (a EmailAddress) String() string {
	if a.name == "" {
		return a.address
	}
	return fmt.Sprintf("%s <%s>", a.name, a.address)
}
