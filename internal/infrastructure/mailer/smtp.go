// Package mailer delivers transactional email over SMTP. It backs the
// provisioning Notifier port; delivery failure is surfaced to the
// caller, which treats it as fatal for the operation in flight.
package mailer

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/halahlab/backend/internal/config"
	"github.com/halahlab/backend/usecase"
)

type SMTPMailer struct {
	addr   string
	from   string
	auth   smtp.Auth
	logger *zap.Logger
}

// New builds an SMTP-backed notifier from configuration. Plain auth is
// used only when credentials are configured.
func New(cfg config.SMTPConfig, logger *zap.Logger) *SMTPMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPMailer{
		addr:   net.JoinHostPort(cfg.Host, cfg.Port),
		from:   cfg.From,
		auth:   auth,
		logger: logger,
	}
}

// Send delivers a single HTML email. The context deadline is honoured
// only up to connection establishment; net/smtp does not support
// per-command deadlines.
func (m *SMTPMailer) Send(ctx context.Context, n usecase.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n.To == "" {
		return fmt.Errorf("mailer: recipient is required")
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.from)
	fmt.Fprintf(&msg, "To: %s\r\n", n.To)
	fmt.Fprintf(&msg, "Subject: %s\r\n", n.Subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(n.HTML)

	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{n.To}, []byte(msg.String())); err != nil {
		m.logger.Error("smtp delivery failed", zap.String("to", n.To), zap.Error(err))
		return fmt.Errorf("mailer: send to %s: %w", n.To, err)
	}
	return nil
}

var _ usecase.Notifier = (*SMTPMailer)(nil)
