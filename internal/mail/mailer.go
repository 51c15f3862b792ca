// AngelaMos | 2026
// mailer.go

package mail

import (
	"context"
	"fmt"
	"log/slog"

	gomail "github.com/wneessen/go-mail"

	"github.com/angelamos/trailhead/internal/config"
)

const resetBodyTemplate = `Hi %s,

Forgot your password? Submit a PATCH request with your new password and
passwordConfirm to:

%s

The link is valid for 10 minutes. If you didn't forget your password,
please ignore this email.`

// SMTPMailer delivers transactional mail over SMTP.
type SMTPMailer struct {
	client *gomail.Client
	from   string
}

func NewSMTPMailer(cfg config.MailConfig) (*SMTPMailer, error) {
	client, err := gomail.NewClient(
		cfg.Host,
		gomail.WithPort(cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.Username),
		gomail.WithPassword(cfg.Password),
	)
	if err != nil {
		return nil, fmt.Errorf("create mail client: %w", err)
	}

	return &SMTPMailer{client: client, from: cfg.From}, nil
}

func (m *SMTPMailer) SendPasswordReset(
	ctx context.Context,
	to, name, resetURL string,
) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("set from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set to address: %w", err)
	}
	msg.Subject("Your password reset token (valid for 10 minutes)")
	msg.SetBodyString(
		gomail.TypeTextPlain,
		fmt.Sprintf(resetBodyTemplate, name, resetURL),
	)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

// LogMailer writes mail to the log instead of the wire. Used in
// development where no SMTP relay exists.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendPasswordReset(
	_ context.Context,
	to, name, resetURL string,
) error {
	m.logger.Info("password reset email (log delivery)",
		"to", to,
		"name", name,
		"reset_url", resetURL,
	)
	return nil
}
