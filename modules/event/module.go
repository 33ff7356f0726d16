package event

import (
	"event-manager-api/core/database"
	"event-manager-api/core/middleware"
	"event-manager-api/modules/event/controller"
	"event-manager-api/modules/event/repository"
	"event-manager-api/modules/event/router"
	"event-manager-api/modules/event/service"

	"github.com/labstack/echo/v4"
)

// Init registers the /events routes. Newly invited attendees are handed to dispatcher.
func Init(api *echo.Group, db database.Database, mw *middleware.Middleware, dispatcher service.Dispatcher) *service.EventService {
	repo := repository.NewEventRepository(db)
	eventService := service.NewEventService(repo, dispatcher)
	eventController := controller.NewEventController(eventService)

	router.NewEventRouter(eventController).Setup(api, mw)

	return eventService
}
