package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"

	u "museshop/internal/utils"
)

// SMTPSender sends messages through an SMTP relay.
type SMTPSender struct {
	cfg u.MailConfig
}

// NewSMTPSender validates cfg and returns a sender. A client is dialed per
// message; the shop sends a handful of emails per request.
func NewSMTPSender(cfg u.MailConfig) (*SMTPSender, error) {
	if cfg.SMTPHost == "" {
		return nil, fmt.Errorf("smtp host is empty")
	}
	if cfg.FromAddress == "" {
		return nil, fmt.Errorf("from address is empty")
	}
	return &SMTPSender{cfg: cfg}, nil
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m, err := s.build(msg)
	if err != nil {
		return err
	}

	opts := []mail.Option{
		mail.WithPort(s.cfg.SMTPPort),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(s.timeout()),
	}
	if s.cfg.SMTPUser != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.SMTPUser),
			mail.WithPassword(s.cfg.SMTPPassword),
		)
	}
	client, err := mail.NewClient(s.cfg.SMTPHost, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (s *SMTPSender) build(msg Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.FromFormat(s.cfg.FromName, s.cfg.FromAddress); err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}
	if len(msg.Cc) > 0 {
		if err := m.Cc(msg.Cc...); err != nil {
			return nil, fmt.Errorf("cc: %w", err)
		}
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextHTML, msg.HTML)
	return m, nil
}

func (s *SMTPSender) timeout() time.Duration {
	if s.cfg.SendTimeout > 0 {
		return s.cfg.SendTimeout
	}
	return 30 * time.Second
}

// LogSender writes messages to the log instead of sending them. It is used
// when no SMTP host is configured.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, msg Message) error {
	u.Info("Email not sent (no SMTP configured)", "to", msg.To, "cc", msg.Cc, "subject", msg.Subject)
	u.Debug("Email body", "to", msg.To, "html", msg.HTML)
	return nil
}

// NewSender picks the SMTP sender when a host is configured and the log
// sender otherwise.
func NewSender(cfg u.MailConfig) (Sender, error) {
	if cfg.SMTPHost == "" {
		return LogSender{}, nil
	}
	return NewSMTPSender(cfg)
}
