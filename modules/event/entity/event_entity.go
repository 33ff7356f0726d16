package entity

import (
	"event-manager-api/core/entity"

	"github.com/google/uuid"
)

const (
	StatusInvited  = "invited"
	StatusAccepted = "accepted"
	StatusDeclined = "declined"
	StatusMaybe    = "maybe"
)

// Event dates and times are carried as "2006-01-02" and "15:04" strings.
type Event struct {
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Date        string    `db:"date"`
	Time        string    `db:"time"`
	Location    string    `db:"location"`
	OrganizerID uuid.UUID `db:"organizer_id"`
	entity.BaseEntity
}

type EventSummary struct {
	Event
	OrganizerName  string `db:"organizer_name"`
	OrganizerEmail string `db:"organizer_email"`
	AttendeeCount  int    `db:"attendee_count"`
}

type EventDetail struct {
	EventSummary
	Attendees []Attendee
}

type Attendee struct {
	UserID         uuid.UUID `db:"user_id"`
	Name           string    `db:"name"`
	Email          string    `db:"email"`
	ProfilePicture string    `db:"profile_picture"`
	Status         string    `db:"status"`
}

// EventPatch holds the fields an update may change. Nil means unchanged.
type EventPatch struct {
	Title       *string
	Description *string
	Date        *string
	Time        *string
	Location    *string
}
