package mail

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"event-manager-api/core/config"
)

type Message struct {
	To      string
	ToName  string
	Subject string
	HTML    string
	Text    string
}

// Transport delivers one message and returns the provider's message id.
type Transport interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// NewTransport picks the provider named by cfg.Provider.
func NewTransport(cfg config.MailConfig) (Transport, error) {
	switch strings.ToLower(cfg.Provider) {
	case "resend":
		if cfg.ResendAPIKey == "" {
			return nil, fmt.Errorf("mail.resend_api_key is required for the resend provider")
		}
		return NewResendTransport(cfg.ResendAPIKey, cfg.From), nil
	case "smtp":
		if cfg.SMTPHost == "" {
			return nil, fmt.Errorf("mail.smtp_host is required for the smtp provider")
		}
		return NewSMTPTransport(cfg), nil
	case "", "log":
		return NewLogTransport(), nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.Provider)
	}
}

// recipient formats "Name <addr>" and rejects anything that could smuggle headers.
func recipient(msg Message) (string, error) {
	if strings.ContainsAny(msg.To, "\r\n") || strings.ContainsAny(msg.ToName, "\r\n") {
		return "", fmt.Errorf("invalid recipient %q", msg.To)
	}
	addr, err := mail.ParseAddress(msg.To)
	if err != nil {
		return "", fmt.Errorf("invalid recipient %q: %w", msg.To, err)
	}
	addr.Name = msg.ToName
	return addr.String(), nil
}
