package middleware

import (
	stderrors "errors"
	"net/http"
	"time"

	"event-manager-api/core/cache"
	"event-manager-api/core/constants"
	"event-manager-api/core/controller"
	"event-manager-api/core/errors"
	"event-manager-api/core/logger"
	"event-manager-api/core/utils"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

type Middleware struct {
	tokens *utils.TokenManager
	cache  cache.Cache
}

func NewMiddleware(tokens *utils.TokenManager, c cache.Cache) *Middleware {
	if c == nil {
		c = cache.NewNoop()
	}
	return &Middleware{tokens: tokens, cache: c}
}

// AuthMiddleware rejects requests without a valid, non-revoked bearer token
// and stores the parsed claims under constants.ContextTokenData.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := utils.GetTokenFromHeader(c)
			if err != nil {
				if stderrors.Is(err, utils.ErrMissingToken) {
					return controller.NewErrorResponse(http.StatusUnauthorized, errors.ErrMissingAuthorizationHeader, "Missing authorization header")
				}
				return controller.NewErrorResponse(http.StatusUnauthorized, errors.ErrInvalidTokenFormat, "Invalid authorization header")
			}

			claims, err := m.tokens.ValidateAndParseToken(token)
			if err != nil {
				if stderrors.Is(err, utils.ErrExpiredToken) {
					return controller.NewErrorResponse(http.StatusUnauthorized, errors.ErrTokenExpired, "Token expired")
				}
				return controller.NewErrorResponse(http.StatusUnauthorized, errors.ErrUnauthorized, "Invalid token")
			}

			blacklisted, err := m.cache.IsTokenBlacklisted(c.Request().Context(), token)
			if err != nil {
				logger.Error("Middleware:AuthMiddleware:IsTokenBlacklisted", "error", err)
				return controller.NewErrorResponse(http.StatusInternalServerError, errors.ErrInternalServer, "Failed to verify token")
			}
			if blacklisted {
				return controller.NewErrorResponse(http.StatusUnauthorized, errors.ErrUnauthorized, "Token has been revoked")
			}

			c.Set(constants.ContextTokenData, claims)
			return next(c)
		}
	}
}

// RequestID propagates or assigns an X-Request-ID.
func RequestID() echo.MiddlewareFunc {
	return echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: utils.GenerateID,
		RequestIDHandler: func(c echo.Context, id string) {
			c.Set(constants.ContextRequestID, id)
		},
	})
}

func RequestLogger() echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			args := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency.Round(time.Microsecond),
				"request_id", v.RequestID,
				"remote_ip", v.RemoteIP,
			}
			switch {
			case v.Status >= http.StatusInternalServerError:
				logger.Error("HTTP:Request", append(args, "error", v.Error)...)
			case v.Status >= http.StatusBadRequest:
				logger.Warn("HTTP:Request", args...)
			default:
				logger.Info("HTTP:Request", args...)
			}
			return nil
		},
	})
}

// Recover is the per-request error boundary: a panicking handler yields a
// 500 for that request only.
func Recover() echo.MiddlewareFunc {
	return echomw.RecoverWithConfig(echomw.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("HTTP:Recover", "error", err, "path", c.Path(), "stack", string(stack))
			return controller.NewErrorResponse(http.StatusInternalServerError, errors.ErrInternalServer, "internal server error")
		},
	})
}

// TokenClaims returns the claims stored by AuthMiddleware.
func TokenClaims(c echo.Context) (*utils.TokenClaims, bool) {
	claims, ok := c.Get(constants.ContextTokenData).(*utils.TokenClaims)
	return claims, ok && claims != nil
}
