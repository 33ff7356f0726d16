package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type CreateEventRequest struct {
	Title       string      `json:"title" validate:"required,max=200"`
	Description string      `json:"description" validate:"max=5000"`
	Date        string      `json:"date" validate:"required,date"`
	Time        string      `json:"time" validate:"required,clock"`
	Location    string      `json:"location" validate:"required,max=500"`
	AttendeeIDs []uuid.UUID `json:"attendee_ids"`
}

// UpdateEventRequest is a partial update. AttendeeIDs replaces the attendee
// set only when present in the body.
type UpdateEventRequest struct {
	Title       *string      `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string      `json:"description" validate:"omitempty,max=5000"`
	Date        *string      `json:"date" validate:"omitempty,date"`
	Time        *string      `json:"time" validate:"omitempty,clock"`
	Location    *string      `json:"location" validate:"omitempty,min=1,max=500"`
	AttendeeIDs *[]uuid.UUID `json:"attendee_ids"`
}

type SetAttendeesRequest struct {
	AttendeeIDs []uuid.UUID `json:"attendee_ids"`
}

// The UnmarshalJSON methods below also accept attendeeIds, the key older
// clients send. attendee_ids wins when a body carries both.

func (r *CreateEventRequest) UnmarshalJSON(data []byte) error {
	type plain CreateEventRequest
	var body struct {
		plain
		CamelAttendeeIDs []uuid.UUID `json:"attendeeIds"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return err
	}
	*r = CreateEventRequest(body.plain)
	if r.AttendeeIDs == nil {
		r.AttendeeIDs = body.CamelAttendeeIDs
	}
	return nil
}

func (r *UpdateEventRequest) UnmarshalJSON(data []byte) error {
	type plain UpdateEventRequest
	var body struct {
		plain
		CamelAttendeeIDs *[]uuid.UUID `json:"attendeeIds"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return err
	}
	*r = UpdateEventRequest(body.plain)
	if r.AttendeeIDs == nil {
		r.AttendeeIDs = body.CamelAttendeeIDs
	}
	return nil
}

func (r *SetAttendeesRequest) UnmarshalJSON(data []byte) error {
	type plain SetAttendeesRequest
	var body struct {
		plain
		CamelAttendeeIDs []uuid.UUID `json:"attendeeIds"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return err
	}
	*r = SetAttendeesRequest(body.plain)
	if r.AttendeeIDs == nil {
		r.AttendeeIDs = body.CamelAttendeeIDs
	}
	return nil
}

type RSVPRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted declined maybe"`
}

type EventResponse struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Date           string    `json:"date"`
	Time           string    `json:"time"`
	Location       string    `json:"location"`
	OrganizerID    uuid.UUID `json:"organizer_id"`
	OrganizerName  string    `json:"organizer_name,omitempty"`
	OrganizerEmail string    `json:"organizer_email,omitempty"`
	AttendeeCount  int       `json:"attendee_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type EventDetailResponse struct {
	EventResponse
	Attendees []AttendeeResponse `json:"attendees"`
}

type AttendeeResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	ProfilePicture string    `json:"profile_picture"`
	Status         string    `json:"status"`
}
