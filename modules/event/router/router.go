package router

import (
	"event-manager-api/core/middleware"
	"event-manager-api/modules/event/controller"

	"github.com/labstack/echo/v4"
)

type EventRouter struct {
	EventController *controller.EventController
}

func NewEventRouter(eventController *controller.EventController) *EventRouter {
	return &EventRouter{EventController: eventController}
}

func (r *EventRouter) Setup(api *echo.Group, mw *middleware.Middleware) {
	events := api.Group("/events", mw.AuthMiddleware())

	events.GET("", r.EventController.ListEvents)
	events.GET("/:id", r.EventController.GetEvent)
	events.POST("", r.EventController.CreateEvent)
	events.PUT("/:id", r.EventController.UpdateEvent)
	events.PUT("/:id/attendees", r.EventController.SetAttendees)
	events.PUT("/:id/rsvp", r.EventController.RespondToInvitation)
	events.DELETE("/:id", r.EventController.DeleteEvent)
}
