package mail

import (
	"context"

	"event-manager-api/core/logger"
	"event-manager-api/core/utils"
)

// LogTransport logs instead of sending. Used in development.
type LogTransport struct{}

func NewLogTransport() *LogTransport {
	return &LogTransport{}
}

func (t *LogTransport) Send(ctx context.Context, msg Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, err := recipient(msg); err != nil {
		return "", err
	}

	id := utils.GenerateID()
	logger.Info("LogTransport:Send",
		"message_id", id,
		"to", msg.To,
		"subject", msg.Subject,
		"text", msg.Text,
	)
	return id, nil
}
