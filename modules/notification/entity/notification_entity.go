package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"event-manager-api/core/entity"

	"github.com/google/uuid"
)

const (
	DeliveryStatusSent   = "sent"
	DeliveryStatusFailed = "failed"
)

type Notification struct {
	UserID  uuid.UUID `db:"user_id" json:"user_id"`
	Title   string    `db:"title" json:"title"`
	Message string    `db:"message" json:"message"`
	Type    string    `db:"type" json:"type"`
	Data    JSONB     `db:"data" json:"data"`
	IsRead  bool      `db:"is_read" json:"is_read"`
	entity.BaseEntity
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	if a == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(a)
}

func (a *JSONB) Scan(value any) error {
	if value == nil {
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, a)
}

type PaginatedNotificationEntity = entity.Pagination[Notification]

// Delivery is the final outcome of sending one invitation to one recipient.
type Delivery struct {
	ID        uuid.UUID `db:"id"`
	EventID   uuid.UUID `db:"event_id"`
	UserID    uuid.UUID `db:"user_id"`
	Channel   string    `db:"channel"`
	Status    string    `db:"status"`
	Attempts  int       `db:"attempts"`
	MessageID string    `db:"message_id"`
	LastError string    `db:"last_error"`
	CreatedAt time.Time `db:"created_at"`
}
