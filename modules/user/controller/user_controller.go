package controller

import (
	"io"
	"net/http"

	"event-manager-api/core/controller"
	"event-manager-api/core/errors"
	"event-manager-api/core/middleware"
	"event-manager-api/core/validator"
	"event-manager-api/modules/user/dto"
	"event-manager-api/modules/user/service"

	"github.com/labstack/echo/v4"
)

const maxPictureBytes = 5 << 20

type UserController struct {
	UserService service.UserServiceInterface
	controller.BaseController
}

func NewUserController(userService service.UserServiceInterface) *UserController {
	return &UserController{
		UserService:    userService,
		BaseController: controller.NewBaseController(),
	}
}

func (controller *UserController) ListUsers(c echo.Context) error {
	claims, ok := middleware.TokenClaims(c)
	if !ok {
		return controller.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	users, err := controller.UserService.ListOtherUsers(c.Request().Context(), claims.UserID)
	if err != nil {
		return controller.ErrorResponse(c, err)
	}

	return controller.SuccessResponse(c, users, "Get users success")
}

func (controller *UserController) GetProfile(c echo.Context) error {
	claims, ok := middleware.TokenClaims(c)
	if !ok {
		return controller.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	profile, err := controller.UserService.GetProfile(c.Request().Context(), claims.UserID)
	if err != nil {
		return controller.ErrorResponse(c, err)
	}

	return controller.SuccessResponse(c, profile, "Get profile success")
}

func (controller *UserController) UpdateProfile(c echo.Context) error {
	claims, ok := middleware.TokenClaims(c)
	if !ok {
		return controller.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	requestData := new(dto.UpdateProfileRequest)
	if err := c.Bind(requestData); err != nil {
		return controller.BadRequest(errors.ErrInvalidRequestData, "Invalid request data", nil)
	}

	validationResult := validator.Validate(requestData)
	if validationResult.HasError() {
		return controller.BadRequest(errors.ErrInvalidInput, "Invalid request data", validationResult)
	}

	profile, err := controller.UserService.UpdateProfile(c.Request().Context(), claims.UserID, requestData)
	if err != nil {
		// An email collision is reported as a bad request on this route.
		if err.Code == errors.ErrAlreadyExists {
			return controller.BadRequest(err.Code, err.Message, nil)
		}
		return controller.ErrorResponse(c, err)
	}

	return controller.SuccessResponse(c, profile, "Update profile success")
}

func (controller *UserController) UploadProfilePicture(c echo.Context) error {
	claims, ok := middleware.TokenClaims(c)
	if !ok {
		return controller.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return controller.BadRequest(errors.ErrInvalidRequestData, "Missing file", nil)
	}
	if file.Size > maxPictureBytes {
		return controller.BadRequest(errors.ErrInvalidInput, "File too large", nil)
	}

	src, err := file.Open()
	if err != nil {
		return controller.BadRequest(errors.ErrInvalidRequestData, "Unreadable file", nil)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxPictureBytes+1))
	if err != nil || len(data) > maxPictureBytes {
		return controller.BadRequest(errors.ErrInvalidRequestData, "Unreadable file", nil)
	}

	contentType := file.Header.Get(echo.HeaderContentType)
	if contentType == "" || contentType == echo.MIMEOctetStream {
		contentType = http.DetectContentType(data)
	}

	profile, appErr := controller.UserService.UploadProfilePicture(c.Request().Context(), claims.UserID, file.Filename, contentType, data)
	if appErr != nil {
		return controller.ErrorResponse(c, appErr)
	}

	return controller.SuccessResponse(c, profile, "Upload profile picture success")
}
