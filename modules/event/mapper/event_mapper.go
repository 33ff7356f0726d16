package mapper

import (
	"event-manager-api/modules/event/dto"
	"event-manager-api/modules/event/entity"
)

func ToEventResponse(e *entity.EventSummary) *dto.EventResponse {
	return &dto.EventResponse{
		ID:             e.ID,
		Title:          e.Title,
		Description:    e.Description,
		Date:           e.Date,
		Time:           e.Time,
		Location:       e.Location,
		OrganizerID:    e.OrganizerID,
		OrganizerName:  e.OrganizerName,
		OrganizerEmail: e.OrganizerEmail,
		AttendeeCount:  e.AttendeeCount,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func ToEventResponses(events []entity.EventSummary) []dto.EventResponse {
	out := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		out = append(out, *ToEventResponse(&events[i]))
	}
	return out
}

func ToAttendeeResponses(attendees []entity.Attendee) []dto.AttendeeResponse {
	out := make([]dto.AttendeeResponse, 0, len(attendees))
	for _, a := range attendees {
		out = append(out, dto.AttendeeResponse{
			ID:             a.UserID,
			Name:           a.Name,
			Email:          a.Email,
			ProfilePicture: a.ProfilePicture,
			Status:         a.Status,
		})
	}
	return out
}

func ToEventDetailResponse(d *entity.EventDetail) *dto.EventDetailResponse {
	return &dto.EventDetailResponse{
		EventResponse: *ToEventResponse(&d.EventSummary),
		Attendees:     ToAttendeeResponses(d.Attendees),
	}
}
