package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/leave-management/internal"
	"gopkg.in/gomail.v2"
)

type Email struct {
	To      string
	Subject string
	Body    string
}

type Sender interface {
	Send(ctx context.Context, email Email) error
}

// SMTPSender delivers mail through an SMTP relay.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(cfg internal.NotificationConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   cfg.From,
	}
}

func (s *SMTPSender) Send(ctx context.Context, email Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", email.To)
	msg.SetHeader("Subject", email.Subject)
	msg.SetBody("text/plain", email.Body)

	if err := s.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp delivery to %s failed: %w", email.To, err)
	}
	return nil
}

// LogSender only logs, for environments without an SMTP relay.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, email Email) error {
	s.logger.Info("email notification", "to", email.To, "subject", email.Subject)
	return nil
}

// NewSender picks SMTP when a host is configured.
func NewSender(cfg internal.NotificationConfig, logger *slog.Logger) Sender {
	if cfg.Enabled && cfg.SMTPHost != "" {
		return NewSMTPSender(cfg)
	}
	return NewLogSender(logger)
}
