package dto

import (
	"time"

	"github.com/google/uuid"
)

type NotificationResponse struct {
	ID        uuid.UUID      `json:"id"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Type      string         `json:"type"`
	Data      map[string]any `json:"data"`
	IsRead    bool           `json:"is_read"`
	CreatedAt time.Time      `json:"created_at"`
}

type MarkAsReadRequest struct {
	IDs []uuid.UUID `json:"ids" validate:"required,min=1"`
}

type UnreadCountResponse struct {
	Count int `json:"count"`
}

type CreateNotificationRequest struct {
	UserID  uuid.UUID
	Title   string
	Message string
	Type    string
	Data    map[string]any
}

// EventInvite is the event as it stood when the invitation was issued.
// Delivery renders from this copy, never from the live row.
type EventInvite struct {
	EventID        uuid.UUID `json:"event_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Date           string    `json:"date"`
	Time           string    `json:"time"`
	Location       string    `json:"location"`
	OrganizerName  string    `json:"organizer_name"`
	OrganizerEmail string    `json:"organizer_email"`
}

// InviteTask is the asynq payload for one recipient.
type InviteTask struct {
	Invite      EventInvite `json:"invite"`
	RecipientID uuid.UUID   `json:"recipient_id"`
}
