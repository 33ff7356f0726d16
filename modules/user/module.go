package user

import (
	"event-manager-api/core/database"
	"event-manager-api/core/middleware"
	"event-manager-api/core/storage"
	"event-manager-api/core/utils"
	"event-manager-api/modules/user/controller"
	"event-manager-api/modules/user/repository"
	"event-manager-api/modules/user/router"
	"event-manager-api/modules/user/service"

	"github.com/labstack/echo/v4"
)

// Init registers the /users routes and returns the identity store for the
// auth and event modules.
func Init(api *echo.Group, db database.Database, mw *middleware.Middleware, hasher *utils.PasswordHasher, uploader storage.Uploader) *service.UserService {
	repo := repository.NewUserRepository(db)
	userService := service.NewUserService(repo, hasher, uploader)
	userController := controller.NewUserController(userService)

	router.NewUserRouter(userController).Setup(api, mw, userService.PictureUploadEnabled())

	return userService
}
