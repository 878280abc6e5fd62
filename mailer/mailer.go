// Package mailer defines the outbound mail contract and its implementations.
// The authentication core only supplies a recipient and a verification link;
// whether and how the message is delivered is the mailer's business.
package mailer

import (
	"context"
)

// Message is one outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Mailer delivers messages. Implementations must be safe for concurrent use.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
