package auth

import (
	"event-manager-api/core/cache"
	"event-manager-api/core/middleware"
	"event-manager-api/core/utils"
	"event-manager-api/modules/auth/controller"
	"event-manager-api/modules/auth/router"
	"event-manager-api/modules/auth/service"

	"github.com/labstack/echo/v4"
)

func Init(api *echo.Group, identity service.Identity, tokens *utils.TokenManager, c cache.Cache, mw *middleware.Middleware, limiter echo.MiddlewareFunc) *service.AuthService {
	authService := service.NewAuthService(identity, tokens, c)
	authController := controller.NewAuthController(authService)

	router.NewAuthRouter(authController).Setup(api, mw, limiter)

	return authService
}
