package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"mime/multipart"
	"net"
	"net/mail"
	"net/smtp"
	"net/textproto"
	"time"

	"event-manager-api/core/config"
	"event-manager-api/core/utils"
)

type SMTPTransport struct {
	cfg config.MailConfig
}

func NewSMTPTransport(cfg config.MailConfig) *SMTPTransport {
	return &SMTPTransport{cfg: cfg}
}

// Send delivers over SMTP with STARTTLS. The context deadline bounds the
// whole conversation.
func (t *SMTPTransport) Send(ctx context.Context, msg Message) (string, error) {
	to, err := recipient(msg)
	if err != nil {
		return "", err
	}
	rcpt, _ := mail.ParseAddress(msg.To)

	messageID := fmt.Sprintf("<%s@%s>", utils.GenerateID(), t.cfg.SMTPHost)
	body, err := buildMIME(t.cfg.From, to, messageID, msg)
	if err != nil {
		return "", err
	}

	addr := net.JoinHostPort(t.cfg.SMTPHost, fmt.Sprint(t.cfg.SMTPPort))
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return "", fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, t.cfg.SMTPHost)
	if err != nil {
		_ = conn.Close()
		return "", fmt.Errorf("failed to open SMTP session: %w", err)
	}
	defer func() { _ = client.Close() }()

	if err := client.StartTLS(&tls.Config{ServerName: t.cfg.SMTPHost, MinVersion: tls.VersionTLS12}); err != nil {
		return "", fmt.Errorf("failed to start TLS: %w", err)
	}
	if t.cfg.SMTPUser != "" {
		auth := smtp.PlainAuth("", t.cfg.SMTPUser, t.cfg.SMTPPassword, t.cfg.SMTPHost)
		if err := client.Auth(auth); err != nil {
			return "", fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	from, err := mail.ParseAddress(t.cfg.From)
	if err != nil {
		return "", fmt.Errorf("invalid sender: %w", err)
	}
	if err := client.Mail(from.Address); err != nil {
		return "", fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(rcpt.Address); err != nil {
		return "", fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return "", fmt.Errorf("failed to open data writer: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return "", fmt.Errorf("failed to write email body: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := client.Quit(); err != nil {
		return "", fmt.Errorf("failed to quit SMTP connection: %w", err)
	}
	return messageID, nil
}

// buildMIME renders a multipart/alternative message with text and HTML parts.
func buildMIME(from, to, messageID string, msg Message) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMessage-ID: %s\r\nDate: %s\r\nMIME-Version: 1.0\r\nContent-Type: multipart/alternative; boundary=%q\r\n\r\n",
		from, to, mime.QEncoding.Encode("utf-8", msg.Subject), messageID,
		time.Now().Format(time.RFC1123Z), mw.Boundary(),
	)

	parts := []struct {
		contentType string
		body        string
	}{
		{"text/plain; charset=UTF-8", msg.Text},
		{"text/html; charset=UTF-8", msg.HTML},
	}
	for _, p := range parts {
		if p.body == "" {
			continue
		}
		pw, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {p.contentType}})
		if err != nil {
			return nil, err
		}
		if _, err := pw.Write([]byte(p.body)); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	return append([]byte(header), buf.Bytes()...), nil
}
