package service

import (
	"context"
	stderrors "errors"

	"event-manager-api/core/constants"
	"event-manager-api/core/errors"
	"event-manager-api/core/logger"
	"event-manager-api/modules/event/dto"
	"event-manager-api/modules/event/entity"
	"event-manager-api/modules/event/mapper"
	"event-manager-api/modules/event/repository"
	notificationDto "event-manager-api/modules/notification/dto"

	"github.com/google/uuid"
)

// Dispatcher delivers invitations after the attendee rows are committed.
// Dispatch must return without waiting for delivery.
type Dispatcher interface {
	Dispatch(invite notificationDto.EventInvite, recipientIDs []uuid.UUID)
}

type EventServiceInterface interface {
	CreateEvent(ctx context.Context, organizerID uuid.UUID, req *dto.CreateEventRequest) (*dto.EventDetailResponse, *errors.AppError)
	SetAttendees(ctx context.Context, eventID, callerID uuid.UUID, userIDs []uuid.UUID) ([]dto.AttendeeResponse, *errors.AppError)
	GetEventWithAttendees(ctx context.Context, eventID uuid.UUID) (*dto.EventDetailResponse, *errors.AppError)
	ListEventsForUser(ctx context.Context, userID uuid.UUID) ([]dto.EventResponse, *errors.AppError)
	UpdateEvent(ctx context.Context, eventID, callerID uuid.UUID, req *dto.UpdateEventRequest) (*dto.EventDetailResponse, *errors.AppError)
	DeleteEvent(ctx context.Context, eventID, callerID uuid.UUID) *errors.AppError
	RespondToInvitation(ctx context.Context, eventID, userID uuid.UUID, status string) *errors.AppError
}

type EventService struct {
	repo       repository.EventRepositoryInterface
	dispatcher Dispatcher
}

func NewEventService(repo repository.EventRepositoryInterface, dispatcher Dispatcher) *EventService {
	return &EventService{repo: repo, dispatcher: dispatcher}
}

func (s *EventService) CreateEvent(ctx context.Context, organizerID uuid.UUID, req *dto.CreateEventRequest) (*dto.EventDetailResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	event := &entity.Event{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Time:        req.Time,
		Location:    req.Location,
		OrganizerID: organizerID,
	}

	created, added, err := s.repo.CreateEventWithAttendees(ctx, event, req.AttendeeIDs)
	if err != nil {
		return nil, s.mapError("CreateEvent", err, errors.ErrCreateFailed, "failed to create event")
	}

	return s.afterWrite(created, added), nil
}

func (s *EventService) SetAttendees(ctx context.Context, eventID, callerID uuid.UUID, userIDs []uuid.UUID) ([]dto.AttendeeResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	detail, added, err := s.repo.ReplaceAttendees(ctx, eventID, callerID, userIDs)
	if err != nil {
		return nil, s.mapError("SetAttendees", err, errors.ErrUpdateFailed, "failed to update attendees")
	}

	return s.afterWrite(detail, added).Attendees, nil
}

func (s *EventService) GetEventWithAttendees(ctx context.Context, eventID uuid.UUID) (*dto.EventDetailResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	detail, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, s.mapError("GetEventWithAttendees", err, errors.ErrGetFailed, "failed to get event")
	}
	return mapper.ToEventDetailResponse(detail), nil
}

func (s *EventService) ListEventsForUser(ctx context.Context, userID uuid.UUID) ([]dto.EventResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	events, err := s.repo.ListEventsForUser(ctx, userID)
	if err != nil {
		return nil, s.mapError("ListEventsForUser", err, errors.ErrGetFailed, "failed to list events")
	}
	return mapper.ToEventResponses(events), nil
}

func (s *EventService) UpdateEvent(ctx context.Context, eventID, callerID uuid.UUID, req *dto.UpdateEventRequest) (*dto.EventDetailResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	patch := entity.EventPatch{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Time:        req.Time,
		Location:    req.Location,
	}

	updated, added, err := s.repo.UpdateEvent(ctx, eventID, callerID, patch, req.AttendeeIDs)
	if err != nil {
		return nil, s.mapError("UpdateEvent", err, errors.ErrUpdateFailed, "failed to update event")
	}

	return s.afterWrite(updated, added), nil
}

func (s *EventService) DeleteEvent(ctx context.Context, eventID, callerID uuid.UUID) *errors.AppError {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if err := s.repo.DeleteEvent(ctx, eventID, callerID); err != nil {
		return s.mapError("DeleteEvent", err, errors.ErrDeleteFailed, "failed to delete event")
	}
	return nil
}

func (s *EventService) RespondToInvitation(ctx context.Context, eventID, userID uuid.UUID, status string) *errors.AppError {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	switch status {
	case entity.StatusAccepted, entity.StatusDeclined, entity.StatusMaybe:
	default:
		return errors.NewAppError(errors.ErrInvalidInput, "status must be accepted, declined or maybe", nil)
	}

	if err := s.repo.UpdateAttendeeStatus(ctx, eventID, userID, status); err != nil {
		return s.mapError("RespondToInvitation", err, errors.ErrUpdateFailed, "failed to update invitation")
	}
	return nil
}

// afterWrite hands the newly added attendees of a committed write to the
// dispatcher. detail is the event as the write's own transaction saw it.
func (s *EventService) afterWrite(detail *entity.EventDetail, added []uuid.UUID) *dto.EventDetailResponse {
	if len(added) > 0 && s.dispatcher != nil {
		s.dispatcher.Dispatch(toInvite(detail), added)
	}
	return mapper.ToEventDetailResponse(detail)
}

func toInvite(d *entity.EventDetail) notificationDto.EventInvite {
	return notificationDto.EventInvite{
		EventID:        d.ID,
		Title:          d.Title,
		Description:    d.Description,
		Date:           d.Date,
		Time:           d.Time,
		Location:       d.Location,
		OrganizerName:  d.OrganizerName,
		OrganizerEmail: d.OrganizerEmail,
	}
}

func (s *EventService) mapError(op string, err error, fallback errors.ErrorCode, message string) *errors.AppError {
	var unknown *repository.UnknownUsersError
	switch {
	case stderrors.Is(err, repository.ErrEventNotFound):
		return errors.NewAppError(errors.ErrNotFound, "event not found", nil)
	case stderrors.Is(err, repository.ErrNotOrganizer):
		return errors.NewAppError(errors.ErrForbidden, "only the organizer can modify this event", nil)
	case stderrors.As(err, &unknown):
		return errors.NewAppError(errors.ErrNotFound, "one or more attendees do not exist", unknown)
	case stderrors.Is(err, repository.ErrUnknownUsers):
		return errors.NewAppError(errors.ErrNotFound, "one or more attendees do not exist", err)
	case stderrors.Is(err, repository.ErrNotAttendee):
		return errors.NewAppError(errors.ErrNotFound, "you are not invited to this event", nil)
	}

	logger.Error("EventService:"+op, "error", err)
	return errors.NewAppError(fallback, message, err)
}
