package router

import (
	"event-manager-api/core/middleware"
	"event-manager-api/modules/auth/controller"

	"github.com/labstack/echo/v4"
)

type AuthRouter struct {
	AuthController *controller.AuthController
}

func NewAuthRouter(authController *controller.AuthController) *AuthRouter {
	return &AuthRouter{AuthController: authController}
}

// Setup registers /auth routes. limiter guards the unauthenticated endpoints.
func (r *AuthRouter) Setup(api *echo.Group, mw *middleware.Middleware, limiter echo.MiddlewareFunc) {
	auth := api.Group("/auth")

	auth.POST("/register", r.AuthController.Register, limiter)
	auth.POST("/login", r.AuthController.Login, limiter)
	auth.POST("/logout", r.AuthController.Logout, mw.AuthMiddleware())
}
