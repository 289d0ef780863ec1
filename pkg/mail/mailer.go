// Package mail delivers transactional e-mail over SMTP.
package mail

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	gomail "github.com/wneessen/go-mail"
)

// Message is a single outbound e-mail.
type Message struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender relays through the configured SMTP server.
type SMTPSender struct {
	cfg config.MailConfig
}

// NewSender returns an SMTP sender when a host is configured. Without one,
// dev environments get a logging sender and every other environment gets nil,
// since logged mail bodies carry live reset tokens.
func NewSender(cfg config.MailConfig, app config.AppConfig, logg *logger.Logger) Sender {
	if cfg.Enabled() {
		return &SMTPSender{cfg: cfg}
	}
	if app.IsDev() {
		return &LogSender{logg: logg}
	}
	return nil
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m, err := buildMessage(s.cfg.From, msg)
	if err != nil {
		return err
	}

	opts := []gomail.Option{
		gomail.WithPort(s.cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if s.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthLogin),
			gomail.WithUsername(s.cfg.Username),
			gomail.WithPassword(s.cfg.Password),
		)
	}

	client, err := gomail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func buildMessage(from string, msg Message) (*gomail.Msg, error) {
	if strings.TrimSpace(msg.To) == "" {
		return nil, fmt.Errorf("recipient is required")
	}
	m := gomail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("from address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("to address: %w", err)
	}
	m.Subject(msg.Subject)
	switch {
	case msg.HTMLBody != "":
		m.SetBodyString(gomail.TypeTextHTML, msg.HTMLBody)
		if msg.TextBody != "" {
			m.AddAlternativeString(gomail.TypeTextPlain, msg.TextBody)
		}
	default:
		m.SetBodyString(gomail.TypeTextPlain, msg.TextBody)
	}
	return m, nil
}

// LogSender writes messages to the structured log instead of sending them.
type LogSender struct {
	logg *logger.Logger
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	if s.logg == nil {
		return nil
	}
	ctx = s.logg.WithFields(ctx, map[string]any{
		"mail_to":      msg.To,
		"mail_subject": msg.Subject,
		"mail_body":    msg.TextBody,
	})
	s.logg.Info(ctx, "mail.log_sender.delivered")
	return nil
}
