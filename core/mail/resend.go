package mail

import (
	"context"
	"errors"
	"fmt"

	"event-manager-api/core/logger"

	"github.com/resend/resend-go/v2"
)

type ResendTransport struct {
	client *resend.Client
	from   string
}

func NewResendTransport(apiKey, from string) *ResendTransport {
	return &ResendTransport{client: resend.NewClient(apiKey), from: from}
}

func (t *ResendTransport) Send(ctx context.Context, msg Message) (string, error) {
	to, err := recipient(msg)
	if err != nil {
		return "", err
	}

	sent, err := t.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    t.from,
		To:      []string{to},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	})
	if err != nil {
		var rateLimitErr *resend.RateLimitError
		if errors.As(err, &rateLimitErr) {
			logger.Warn("ResendTransport:Send:RateLimited",
				"limit", rateLimitErr.Limit,
				"remaining", rateLimitErr.Remaining,
				"reset", rateLimitErr.Reset,
			)
			return "", fmt.Errorf("resend rate limit exceeded: %w", err)
		}
		return "", fmt.Errorf("resend API error: %w", err)
	}

	return sent.Id, nil
}
