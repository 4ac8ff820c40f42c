package mail

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/kaban-x/kaban-backend/internal/config"
	"github.com/kaban-x/kaban-backend/pkg/logger"
	"go.uber.org/zap"
)

// Mailer delivers account notifications. Delivery failures are reported to
// the caller, which logs them without failing the triggering request.
type Mailer interface {
	SendActivationEmail(ctx context.Context, email, username, token string) error
	SendPasswordResetEmail(ctx context.Context, email, username, token string) error
}

type smtpMailer struct {
	cfg         config.SMTPConfig
	frontendURL string
}

func NewSMTPMailer(cfg config.SMTPConfig, frontendURL string) Mailer {
	return &smtpMailer{
		cfg:         cfg,
		frontendURL: frontendURL,
	}
}

func (m *smtpMailer) SendActivationEmail(ctx context.Context, email, username, token string) error {
	link := fmt.Sprintf("%s/auth/activate?token=%s", m.frontendURL, token)
	subject := "Confirm your Kaban X registration"
	html := fmt.Sprintf(
		`<p>Hello, %s!</p>`+
			`<p>Thanks for registering with Kaban X.</p>`+
			`<p>To activate your account, follow this link:</p>`+
			`<p><a href="%s">%s</a></p>`+
			`<p>The link is valid for 24 hours.</p>`+
			`<p>If you did not register with Kaban X, just ignore this message.</p>`,
		username, link, link,
	)

	return m.send(ctx, email, subject, html)
}

func (m *smtpMailer) SendPasswordResetEmail(ctx context.Context, email, username, token string) error {
	link := fmt.Sprintf("%s/auth/reset-password?token=%s", m.frontendURL, token)
	subject := "Reset your Kaban X password"
	html := fmt.Sprintf(
		`<p>Hello, %s!</p>`+
			`<p>A password change was requested for your Kaban X account.</p>`+
			`<p>To set a new password, follow this link:</p>`+
			`<p><a href="%s">%s</a></p>`+
			`<p>The link is valid for 1 hour.</p>`+
			`<p>If you did not request a password change, just ignore this message.</p>`,
		username, link, link,
	)

	return m.send(ctx, email, subject, html)
}

func (m *smtpMailer) send(ctx context.Context, to, subject, html string) error {
	l := logger.FromContext(ctx)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	msg := "From: " + m.cfg.FromEmail + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n" +
		"\r\n" +
		html

	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	}

	l.Debug("sending email", zap.String("to", to), zap.String("smtp_addr", addr))

	if err := smtp.SendMail(addr, auth, m.cfg.FromEmail, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}
