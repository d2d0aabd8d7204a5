// Package email delivers the daily digest over SMTP.
package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"StockNews/internal/config"
	"StockNews/internal/ports"
)

// Notifier sends a plain-text digest to the configured receivers. Rendering
// stays deliberately minimal; the stats CSV is the full report.
type Notifier struct {
	host      string
	port      int
	sender    string
	password  string
	receivers []string
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier wires SMTP credentials from configuration.
func NewNotifier(cfg config.EmailConfig) *Notifier {
	return &Notifier{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		sender:    cfg.Sender,
		password:  cfg.Password,
		receivers: cfg.Receivers,
	}
}

// PublishDigest sends one message with the given subject and body.
func (n *Notifier) PublishDigest(ctx context.Context, subject, body string) error {
	if n.sender == "" || n.password == "" || len(n.receivers) == 0 {
		return fmt.Errorf("email notifier misconfigured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var msg strings.Builder
	msg.WriteString("From: " + n.sender + "\r\n")
	msg.WriteString("To: " + strings.Join(n.receivers, ", ") + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", n.host, n.port)
	auth := smtp.PlainAuth("", n.sender, n.password, n.host)

	if err := smtp.SendMail(addr, auth, n.sender, n.receivers, []byte(msg.String())); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
