package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"NewsIntake/internal/config"
	"NewsIntake/internal/domain"
	"NewsIntake/internal/ports"
)

// EmailChannel mails the editor a review link for each completed import.
type EmailChannel struct {
	cfg  config.EmailConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

var _ ports.NotifyChannel = (*EmailChannel)(nil)

// NewEmailChannel wires SMTP delivery from configuration.
func NewEmailChannel(cfg config.EmailConfig) *EmailChannel {
	return &EmailChannel{cfg: cfg, send: smtp.SendMail}
}

// Name identifies the channel in logs and metrics.
func (e *EmailChannel) Name() string { return "email" }

// Send mails a small HTML notification to the configured editor address.
func (e *EmailChannel) Send(_ context.Context, event domain.Event) error {
	if e.cfg.Host == "" || e.cfg.To == "" {
		return fmt.Errorf("email channel misconfigured")
	}

	subject := fmt.Sprintf("[Intake] New Import: %s", event.Title)
	html := fmt.Sprintf(
		"<h2>New Import</h2><p><strong>Submission:</strong> %s</p><p><strong>Title:</strong> %s</p><br/><p><a href=%q>Open Editor</a></p>",
		event.ExternalID, event.Title, event.EditURL)

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", e.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", e.cfg.To)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(html)

	var auth smtp.Auth
	if e.cfg.Username != "" {
		auth = smtp.PlainAuth("", e.cfg.Username, e.cfg.Password, e.cfg.Host)
	}

	addr := fmt.Sprintf("%s:%d", e.cfg.Host, e.cfg.Port)
	if err := e.send(addr, auth, e.cfg.From, []string{e.cfg.To}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	return nil
}
