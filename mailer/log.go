package mailer

import (
	"context"
	"log/slog"
)

// Log is a development mailer: it logs the message instead of sending it,
// so the magic link can be copied from the console.
type Log struct{}

func NewLog() *Log {
	return &Log{}
}

func (m *Log) Send(_ context.Context, msg Message) error {
	slog.Info("email sent (dev mode)", "to", msg.To, "subject", msg.Subject, "body", msg.Text)
	return nil
}
