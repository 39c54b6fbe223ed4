package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"

	"magiclink-service/internal/config"
)

// SMTPSender delivers mail through a relay. STARTTLS is only attempted
// when explicitly enabled (local relays like MailHog do not offer it),
// and AUTH only when credentials are configured.
type SMTPSender struct {
	addr   string
	host   string
	sender string
	useTLS bool
	user   string
	pass   string
}

func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{
		addr:   net.JoinHostPort(cfg.SMTPHost, strconv.Itoa(cfg.SMTPPort)),
		host:   cfg.SMTPHost,
		sender: cfg.Sender,
		useTLS: cfg.SMTPTLS,
		user:   cfg.SMTPUser,
		pass:   cfg.SMTPPass,
	}
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	client, err := smtp.Dial(s.addr)
	if err != nil {
		return fmt.Errorf("mailer: dial %s: %w", s.addr, err)
	}
	defer client.Close()

	if err := client.Hello("localhost"); err != nil {
		return fmt.Errorf("mailer: hello: %w", err)
	}

	if s.useTLS {
		if err := client.StartTLS(&tls.Config{ServerName: s.host}); err != nil {
			return fmt.Errorf("mailer: starttls: %w", err)
		}
	}

	if s.user != "" && s.pass != "" {
		auth := smtp.PlainAuth("", s.user, s.pass, s.host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("mailer: auth: %w", err)
		}
	}

	if err := client.Mail(s.sender); err != nil {
		return fmt.Errorf("mailer: mail from: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("mailer: rcpt to: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("mailer: data: %w", err)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		s.sender, to, subject, body)

	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("mailer: write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("mailer: close data: %w", err)
	}

	return client.Quit()
}
