// Package notify sends plain-text email notifications over SMTP.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/wneessen/go-mail"

	"github.com/career-roadmap/ai-gateway/internal/config"
	"github.com/career-roadmap/ai-gateway/internal/logx"
)

const DefaultSubject = "Career Roadmap Update"

type Mailer struct {
	cfg config.SMTPConfig
}

func NewMailer(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) Enabled() bool {
	return m.cfg.Enabled()
}

// Send reports whether the message was handed to the SMTP server. It never returns
// an error: a disabled mailer or a failed send both yield false.
func (m *Mailer) Send(ctx context.Context, to, subject, body string) bool {
	log := logx.Ctx(ctx)
	if !m.Enabled() {
		log.Warn().Msg("SMTP credentials not set, email not sent")
		return false
	}
	if strings.TrimSpace(subject) == "" {
		subject = DefaultSubject
	}

	msg, err := m.buildMessage(to, subject, body)
	if err != nil {
		log.Warn().Err(err).Msg("failed to build email")
		return false
	}

	client, err := m.newClient()
	if err != nil {
		log.Error().Err(err).Msg("failed to create SMTP client")
		return false
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		log.Error().Err(err).Str("host", m.cfg.Host).Msg("failed to send email")
		return false
	}
	log.Info().Msg("email sent")
	return true
}

func (m *Mailer) buildMessage(to, subject, body string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.User); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", m.cfg.User, err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)
	return msg, nil
}

func (m *Mailer) newClient() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.User),
		mail.WithPassword(m.cfg.Password),
	}
	if m.cfg.Port == 465 {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}
	return mail.NewClient(m.cfg.Host, opts...)
}
