package router

import (
	"event-manager-api/core/middleware"
	"event-manager-api/modules/user/controller"

	"github.com/labstack/echo/v4"
)

type UserRouter struct {
	UserController *controller.UserController
}

func NewUserRouter(userController *controller.UserController) *UserRouter {
	return &UserRouter{UserController: userController}
}

func (r *UserRouter) Setup(api *echo.Group, mw *middleware.Middleware, pictureUpload bool) {
	users := api.Group("/users", mw.AuthMiddleware())

	users.GET("", r.UserController.ListUsers)
	users.GET("/profile", r.UserController.GetProfile)
	users.PUT("/profile", r.UserController.UpdateProfile)
	if pictureUpload {
		users.PUT("/profile/picture", r.UserController.UploadProfilePicture)
	}
}
