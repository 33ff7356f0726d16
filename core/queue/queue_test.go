package queue

import (
	"testing"

	"event-manager-api/core/config"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type invitePayload struct {
	EventID string `json:"event_id"`
	UserID  string `json:"user_id"`
}

func TestTaskPayloadRoundTrip(t *testing.T) {
	task, err := NewTask("notification:event_invite", invitePayload{EventID: "e1", UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, "notification:event_invite", task.Type())

	var got invitePayload
	require.NoError(t, DecodePayload(task.Payload(), &got))
	assert.Equal(t, invitePayload{EventID: "e1", UserID: "u1"}, got)
}

func TestDecodePayloadSkipsRetryOnGarbage(t *testing.T) {
	var got invitePayload
	err := DecodePayload([]byte("{"), &got)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestRedisOpt(t *testing.T) {
	opt := RedisOpt(config.RedisConfig{Addr: "redis:6379", Password: "pw", DB: 2})
	assert.Equal(t, "redis:6379", opt.Addr)
	assert.Equal(t, "pw", opt.Password)
	assert.Equal(t, 2, opt.DB)
}
