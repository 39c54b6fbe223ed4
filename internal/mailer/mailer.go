package mailer

import (
	"context"

	"magiclink-service/internal/config"
)

// Sender delivers a plain-text message. Failures are the caller's to
// log; a failed delivery never rolls back anything already persisted.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// New selects the delivery transport from config: "smtp" delivers
// through the configured relay, anything else logs to the console.
func New(cfg config.EmailConfig) Sender {
	if cfg.Mode == "smtp" {
		return NewSMTPSender(cfg)
	}
	return &ConsoleSender{}
}
