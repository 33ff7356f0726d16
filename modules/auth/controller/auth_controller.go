package controller

import (
	"event-manager-api/core/controller"
	"event-manager-api/core/errors"
	"event-manager-api/core/utils"
	"event-manager-api/core/validator"
	"event-manager-api/modules/auth/dto"
	"event-manager-api/modules/auth/service"

	"github.com/labstack/echo/v4"
)

type AuthController struct {
	AuthService service.AuthServiceInterface
	controller.BaseController
}

func NewAuthController(authService service.AuthServiceInterface) *AuthController {
	return &AuthController{
		AuthService:    authService,
		BaseController: controller.NewBaseController(),
	}
}

func (controller *AuthController) Register(c echo.Context) error {
	ctx := c.Request().Context()

	requestData := new(dto.RegisterRequest)
	if err := c.Bind(requestData); err != nil {
		return controller.BadRequest(errors.ErrInvalidRequestData, "Invalid request data", nil)
	}

	validationResult := validator.Validate(requestData)
	if validationResult.HasError() {
		return controller.BadRequest(errors.ErrInvalidInput, "Invalid request data", validationResult)
	}

	registerResponse, err := controller.AuthService.Register(ctx, requestData)
	if err != nil {
		if err.Code == errors.ErrAlreadyExists {
			return controller.BadRequest(err.Code, err.Message, nil)
		}
		return controller.ErrorResponse(c, err)
	}

	return controller.CreatedResponse(c, registerResponse, "Register success")
}

func (controller *AuthController) Login(c echo.Context) error {
	ctx := c.Request().Context()

	requestData := new(dto.LoginRequest)
	if err := c.Bind(requestData); err != nil {
		return controller.BadRequest(errors.ErrInvalidRequestData, "Invalid request data", nil)
	}

	validationResult := validator.Validate(requestData)
	if validationResult.HasError() {
		return controller.BadRequest(errors.ErrInvalidInput, "Invalid request data", validationResult)
	}

	loginResponse, err := controller.AuthService.Login(ctx, requestData)
	if err != nil {
		return controller.ErrorResponse(c, err)
	}

	return controller.SuccessResponse(c, loginResponse, "Login success")
}

func (controller *AuthController) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	token, err := utils.GetTokenFromHeader(c)
	if err != nil {
		return controller.Unauthorized(errors.ErrMissingAuthorizationHeader, "Missing token", nil)
	}

	if errLogout := controller.AuthService.Logout(ctx, token); errLogout != nil {
		return controller.ErrorResponse(c, errLogout)
	}

	return controller.SuccessResponse(c, nil, "Logout success")
}
