package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

// Resend sends mail through the Resend API.
type Resend struct {
	client *resend.Client
	from   string
}

func NewResend(apiKey, from string) *Resend {
	var client *resend.Client
	if apiKey != "" {
		client = resend.NewClient(apiKey)
	}

	return &Resend{
		client: client,
		from:   from,
	}
}

func (m *Resend) Send(ctx context.Context, msg Message) error {
	if m.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}

	_, err := m.client.Emails.SendWithContext(ctx, params)
	if err == nil {
		slog.Info("email sent", "to", msg.To, "subject", msg.Subject)
	}
	return err
}
