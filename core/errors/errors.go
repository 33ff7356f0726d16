package errors

import "fmt"

type ErrorCode string

const (
	// Client errors
	ErrInvalidInput               ErrorCode = "INVALID_INPUT"
	ErrInvalidRequestData         ErrorCode = "INVALID_REQUEST_DATA"
	ErrInvalidCredentials         ErrorCode = "INVALID_CREDENTIALS"
	ErrUnauthorized               ErrorCode = "UNAUTHORIZED"
	ErrTokenExpired               ErrorCode = "TOKEN_EXPIRED"
	ErrInvalidTokenFormat         ErrorCode = "INVALID_TOKEN_FORMAT"
	ErrMissingAuthorizationHeader ErrorCode = "MISSING_AUTHORIZATION_HEADER"
	ErrForbidden                  ErrorCode = "FORBIDDEN"
	ErrNotFound                   ErrorCode = "NOT_FOUND"
	ErrAlreadyExists              ErrorCode = "ALREADY_EXISTS"
	ErrTooManyRequests            ErrorCode = "TOO_MANY_REQUESTS"

	// Server errors
	ErrInternalServer ErrorCode = "INTERNAL_SERVER_ERROR"
	ErrCreateFailed   ErrorCode = "CREATE_FAILED"
	ErrGetFailed      ErrorCode = "GET_FAILED"
	ErrUpdateFailed   ErrorCode = "UPDATE_FAILED"
	ErrDeleteFailed   ErrorCode = "DELETE_FAILED"
)

// AppError is the error type services hand back to controllers.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}
