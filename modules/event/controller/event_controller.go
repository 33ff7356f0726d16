package controller

import (
	"event-manager-api/core/controller"
	"event-manager-api/core/errors"
	"event-manager-api/core/middleware"
	"event-manager-api/core/utils"
	"event-manager-api/core/validator"
	"event-manager-api/modules/event/dto"
	"event-manager-api/modules/event/service"

	"github.com/labstack/echo/v4"
)

type EventController struct {
	EventService service.EventServiceInterface
	controller.BaseController
}

func NewEventController(eventService service.EventServiceInterface) *EventController {
	return &EventController{
		EventService:   eventService,
		BaseController: controller.NewBaseController(),
	}
}

func (controller *EventController) ListEvents(c echo.Context) error {
	claims, ok := middleware.TokenClaims(c)
	if !ok {
		return controller.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	events, err := controller.EventService.ListEventsForUser(c.Request().Context(), claims.UserID)
	if err != nil {
		return controller.ErrorResponse(c, err)
	}

	return controller.SuccessResponse(c, events, "Get events success")
}

func (controller *EventController) GetEvent(c echo.Context) error {
	if _, ok := middleware.TokenClaims(c); !ok {
		return controller.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	eventID, err := utils.ToUUID(c.Param("id"))
	if err != nil {
		return controller.NotFound(errors.ErrNotFound, "event not found", nil)
	}

	event, appErr := controller.EventService.GetEventWithAttendees(c.Request().Context(), eventID)
	if appErr != nil {
		return controller.ErrorResponse(c, appErr)
	}

	return controller.SuccessResponse(c, event, "Get event success")
}

func (controller *EventController) CreateEvent(c echo.Context) error {
	claims, ok := middleware.TokenClaims(c)
	if !ok {
		return controller.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	requestData := new(dto.CreateEventRequest)
	if err := c.Bind(requestData); err != nil {
		return controller.BadRequest(errors.ErrInvalidRequestData, "Invalid request data", nil)
	}

	validationResult := validator.Validate(requestData)
	if validationResult.HasError() {
		return controller.BadRequest(errors.ErrInvalidInput, "Title, date, time, and location are required", validationResult)
	}

	event, err := controller.EventService.CreateEvent(c.Request().Context(), claims.UserID, requestData)
	if err != nil {
		// Unknown attendee ids are a problem with the request body here.
		if err.Code == errors.ErrNotFound {
			return controller.BadRequest(errors.ErrInvalidInput, err.Message, nil)
		}
		return controller.ErrorResponse(c, err)
	}

	return controller.CreatedResponse(c, event, "Create event success")
}

func (controller *EventController) UpdateEvent(c echo.Context) error {
	claims, ok := middleware.TokenClaims(c)
	if !ok {
		return controller.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	eventID, err := utils.ToUUID(c.Param("id"))
	if err != nil {
		return controller.NotFound(errors.ErrNotFound, "event not found", nil)
	}

	requestData := new(dto.UpdateEventRequest)
	if err := c.Bind(requestData); err != nil {
		return controller.BadRequest(errors.ErrInvalidRequestData, "Invalid request data", nil)
	}

	validationResult := validator.Validate(requestData)
	if validationResult.HasError() {
		return controller.BadRequest(errors.ErrInvalidInput, "Invalid request data", validationResult)
	}

	event, appErr := controller.EventService.UpdateEvent(c.Request().Context(), eventID, claims.UserID, requestData)
	if appErr != nil {
		return controller.ErrorResponse(c, appErr)
	}

	return controller.SuccessResponse(c, event, "Update event success")
}

func (controller *EventController) SetAttendees(c echo.Context) error {
	claims, ok := middleware.TokenClaims(c)
	if !ok {
		return controller.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	eventID, err := utils.ToUUID(c.Param("id"))
	if err != nil {
		return controller.NotFound(errors.ErrNotFound, "event not found", nil)
	}

	requestData := new(dto.SetAttendeesRequest)
	if err := c.Bind(requestData); err != nil {
		return controller.BadRequest(errors.ErrInvalidRequestData, "Invalid request data", nil)
	}

	attendees, appErr := controller.EventService.SetAttendees(c.Request().Context(), eventID, claims.UserID, requestData.AttendeeIDs)
	if appErr != nil {
		return controller.ErrorResponse(c, appErr)
	}

	return controller.SuccessResponse(c, attendees, "Update attendees success")
}

func (controller *EventController) RespondToInvitation(c echo.Context) error {
	claims, ok := middleware.TokenClaims(c)
	if !ok {
		return controller.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	eventID, err := utils.ToUUID(c.Param("id"))
	if err != nil {
		return controller.NotFound(errors.ErrNotFound, "event not found", nil)
	}

	requestData := new(dto.RSVPRequest)
	if err := c.Bind(requestData); err != nil {
		return controller.BadRequest(errors.ErrInvalidRequestData, "Invalid request data", nil)
	}

	validationResult := validator.Validate(requestData)
	if validationResult.HasError() {
		return controller.BadRequest(errors.ErrInvalidInput, "Invalid request data", validationResult)
	}

	if appErr := controller.EventService.RespondToInvitation(c.Request().Context(), eventID, claims.UserID, requestData.Status); appErr != nil {
		return controller.ErrorResponse(c, appErr)
	}

	return controller.SuccessResponse(c, map[string]string{"status": requestData.Status}, "Response recorded")
}

func (controller *EventController) DeleteEvent(c echo.Context) error {
	claims, ok := middleware.TokenClaims(c)
	if !ok {
		return controller.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	eventID, err := utils.ToUUID(c.Param("id"))
	if err != nil {
		return controller.NotFound(errors.ErrNotFound, "event not found", nil)
	}

	if appErr := controller.EventService.DeleteEvent(c.Request().Context(), eventID, claims.UserID); appErr != nil {
		return controller.ErrorResponse(c, appErr)
	}

	return controller.SuccessResponse(c, nil, "Event deleted successfully")
}
