package notification

import (
	"event-manager-api/core/config"
	"event-manager-api/core/database"
	"event-manager-api/core/mail"
	"event-manager-api/core/middleware"
	"event-manager-api/modules/notification/controller"
	"event-manager-api/modules/notification/repository"
	"event-manager-api/modules/notification/router"
	"event-manager-api/modules/notification/service"

	"github.com/labstack/echo/v4"
)

// Init registers the /notifications routes and builds the invitation
// dispatcher on the same store. The dispatcher runs inline until UseQueue is called.
func Init(api *echo.Group, db database.Database, mw *middleware.Middleware, users service.Recipients, transport mail.Transport, cfg config.NotificationConfig) (*service.NotificationService, *service.Dispatcher) {
	repo := repository.NewNotificationRepository(db)
	svc := service.NewNotificationService(repo)
	ctrl := controller.NewNotificationController(svc)

	router.NewNotificationRouter(ctrl).Register(api, mw)

	dispatcher := service.NewDispatcher(users, transport, repo, svc, service.OptionsFromConfig(cfg))
	return svc, dispatcher
}
