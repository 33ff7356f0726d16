package constants

import "time"

const (
	ContextTokenData = "token_data"
	ContextRequestID = "request_id"

	HeaderRequestID = "X-Request-ID"
)

const (
	DefaultRequestTimeout = 10 * time.Second

	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Login throttling.
const (
	MaxLoginAttempts = 5
	BlockDuration    = 15 * time.Minute
)

const (
	RedisKeyTokenBlacklist = "auth:blacklist:"
	RedisKeyLoginAttempts  = "auth:login_attempts:"
	RedisKeyLoginBlocked   = "auth:login_blocked:"
)

const (
	ScopeAccess = "access"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

const (
	NotificationTypeEventInvite = "event_invite"
	NotificationChannelEmail    = "email"
	TaskTypeEventInvite         = "notification:event_invite"
	QueueNotifications          = "notifications"
)
