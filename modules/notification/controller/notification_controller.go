package controller

import (
	"event-manager-api/core/controller"
	"event-manager-api/core/errors"
	"event-manager-api/core/middleware"
	"event-manager-api/core/params"
	"event-manager-api/core/validator"
	"event-manager-api/modules/notification/dto"
	"event-manager-api/modules/notification/mapper"
	"event-manager-api/modules/notification/service"

	"github.com/labstack/echo/v4"
)

type NotificationController struct {
	service service.NotificationServiceInterface
	controller.BaseController
}

func NewNotificationController(service service.NotificationServiceInterface) *NotificationController {
	return &NotificationController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// GetMyNotifications lists the caller's notifications, newest first.
func (c *NotificationController) GetMyNotifications(ctx echo.Context) error {
	claims, ok := middleware.TokenClaims(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	queryParams := params.NewQueryParams(ctx)
	result, err := c.service.GetMyNotifications(ctx.Request().Context(), claims.UserID, *queryParams)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	return c.SuccessResponse(ctx, mapper.ToPaginatedResponse(result), "Notifications retrieved successfully")
}

func (c *NotificationController) MarkAsRead(ctx echo.Context) error {
	claims, ok := middleware.TokenClaims(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	req := new(dto.MarkAsReadRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	validationResult := validator.Validate(req)
	if validationResult.HasError() {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request data", validationResult)
	}

	if err := c.service.MarkAsRead(ctx.Request().Context(), claims.UserID, req.IDs); err != nil {
		return c.ErrorResponse(ctx, err)
	}

	return c.SuccessResponse(ctx, nil, "Marked as read successfully")
}

func (c *NotificationController) MarkAllAsRead(ctx echo.Context) error {
	claims, ok := middleware.TokenClaims(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	if err := c.service.MarkAllAsRead(ctx.Request().Context(), claims.UserID); err != nil {
		return c.ErrorResponse(ctx, err)
	}

	return c.SuccessResponse(ctx, nil, "Marked all as read successfully")
}

func (c *NotificationController) CountUnread(ctx echo.Context) error {
	claims, ok := middleware.TokenClaims(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	count, err := c.service.CountUnread(ctx.Request().Context(), claims.UserID)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	return c.SuccessResponse(ctx, dto.UnreadCountResponse{Count: count}, "Unread count retrieved")
}
