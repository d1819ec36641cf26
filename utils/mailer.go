package utils

import (
	"fmt"

	"levelup/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGrid accepts at most this many personalizations per message
const maxPersonalizations = 1000

// Mailer delivers an HTML message to a list of recipients
type Mailer interface {
	Send(to []string, subject, htmlBody string) error
}

// DefaultMailer is used by the email triggers below
var DefaultMailer Mailer = LogMailer{}

// NewMailer returns a SendGrid mailer, or a LogMailer when no API key is
// configured.
func NewMailer(cfg *config.Config) Mailer {
	if cfg.SendGridAPIKey == "" || cfg.MailSender == "" {
		Log.Warn().Msg("SENDGRID_API_KEY or MAIL_SENDER not set, emails will only be logged")
		return LogMailer{}
	}
	return &SendGridMailer{
		client: sendgrid.NewSendClient(cfg.SendGridAPIKey),
		from:   mail.NewEmail(cfg.MailSenderName, cfg.MailSender),
	}
}

type SendGridMailer struct {
	client *sendgrid.Client
	from   *mail.Email
}

func (m *SendGridMailer) Send(to []string, subject, htmlBody string) error {
	for start := 0; start < len(to); start += maxPersonalizations {
		end := start + maxPersonalizations
		if end > len(to) {
			end = len(to)
		}

		msg := mail.NewV3Mail()
		msg.SetFrom(m.from)
		msg.Subject = subject
		msg.AddContent(mail.NewContent("text/html", htmlBody))
		// one personalization per recipient keeps addresses private
		for _, addr := range to[start:end] {
			p := mail.NewPersonalization()
			p.AddTos(mail.NewEmail("", addr))
			msg.AddPersonalizations(p)
		}

		resp, err := m.client.Send(msg)
		if err != nil {
			return fmt.Errorf("sendgrid: %w", err)
		}
		if resp.StatusCode >= 400 {
			return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
		}
	}

	Log.Info().Int("recipients", len(to)).Str("subject", subject).Msg("email sent")
	return nil
}

// LogMailer only records the message, for development and tests
type LogMailer struct{}

func (LogMailer) Send(to []string, subject, htmlBody string) error {
	Log.Info().Strs("to", to).Str("subject", subject).Msg("email not sent, no provider configured")
	return nil
}
