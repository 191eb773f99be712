package mailer

import (
	"context"
	"fmt"

	"storefront/internal/config"

	"gopkg.in/gomail.v2"
)

// Message is a rendered outbound mail.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer is the outbound-mail capability consumed by the password-reset flow.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTP returns a Mailer delivering through the configured SMTP server.
func NewSMTP(cfg *config.Config) Mailer {
	return &smtpMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		from:   cfg.MailFrom,
	}
}

func (m *smtpMailer) Send(_ context.Context, msg Message) error {
	mail := gomail.NewMessage()
	mail.SetHeader("From", m.from)
	mail.SetHeader("To", msg.To)
	mail.SetHeader("Subject", msg.Subject)
	mail.SetBody("text/html", msg.Body)

	return m.dialer.DialAndSend(mail)
}

// PasswordResetMessage renders the reset mail carrying the single-use token.
func PasswordResetMessage(to, token string) Message {
	body := fmt.Sprintf(
		`<p>A password reset was requested for this address.</p>
<p>Use the token below to set a new password. It expires in 24 hours and is valid only until another reset is requested.</p>
<pre>%s</pre>
<p>If you didn't request this, you can ignore this email.</p>`, token)

	return Message{
		To:      to,
		Subject: "Password reset request",
		Body:    body,
	}
}
