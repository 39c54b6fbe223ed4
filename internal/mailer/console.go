package mailer

import (
	"context"
	"log/slog"
)

// ConsoleSender logs messages instead of sending them. Dev fallback so
// magic links can be copied from the service logs.
type ConsoleSender struct{}

func (s *ConsoleSender) Send(ctx context.Context, to, subject, body string) error {
	slog.Info("email (console mode)",
		"to", to,
		"subject", subject,
		"body", body,
	)
	return nil
}
