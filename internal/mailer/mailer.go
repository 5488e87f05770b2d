// Package mailer delivers transactional emails.
//
// Sender is the transport contract. Dispatcher wraps a Sender with the two
// delivery modes the shop needs: synchronous delivery for callers waiting on
// the outcome, and detached delivery for callers that already responded.
package mailer

import (
	"context"
	"errors"
	"strings"
)

// ErrDeliveryFailed signals that at least one message could not be sent.
var ErrDeliveryFailed = errors.New("email delivery failed")

// Message is one outbound email.
type Message struct {
	To      string
	Cc      []string
	Subject string
	HTML    string
}

// Sender delivers a single message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, msg Message) error

func (f SenderFunc) Send(ctx context.Context, msg Message) error { return f(ctx, msg) }

func recipients(msg Message) string {
	all := append([]string{msg.To}, msg.Cc...)
	return strings.Join(all, ",")
}
