package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode identifies a class of application error.
type ErrorCode string

const (
	ErrInvalidInput     ErrorCode = "INVALID_INPUT"
	ErrMissingParameter ErrorCode = "MISSING_PARAMETER"
	ErrConflict         ErrorCode = "CONFLICT"
	ErrPaymentFailed    ErrorCode = "PAYMENT_FAILED"
	ErrNotFound         ErrorCode = "NOT_FOUND"
	ErrUnauthorized     ErrorCode = "UNAUTHORIZED"
	ErrInternal         ErrorCode = "INTERNAL"
)

// AppError carries an error class plus a client-safe message. The wrapped
// error is for logs only and never serialized.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error class to a response status.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case ErrInvalidInput, ErrMissingParameter, ErrPaymentFailed:
		return http.StatusBadRequest
	case ErrConflict:
		return http.StatusConflict
	case ErrNotFound:
		return http.StatusNotFound
	case ErrUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func InvalidInput(message string, err error) *AppError {
	return &AppError{Code: ErrInvalidInput, Message: message, Err: err}
}

func MissingParameter(param string) *AppError {
	return &AppError{Code: ErrMissingParameter, Message: fmt.Sprintf("%s is required", param)}
}

func Conflict(message string) *AppError {
	return &AppError{Code: ErrConflict, Message: message}
}

// PaymentFailed passes the gateway detail through when present.
func PaymentFailed(detail string, err error) *AppError {
	if detail == "" {
		detail = "payment failed, try again"
	}
	return &AppError{Code: ErrPaymentFailed, Message: detail, Err: err}
}

func NotFound(resource string) *AppError {
	return &AppError{Code: ErrNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

func Unauthorized(err error) *AppError {
	return &AppError{Code: ErrUnauthorized, Message: "unauthorized", Err: err}
}

func Internal(err error) *AppError {
	return &AppError{Code: ErrInternal, Message: "internal server error", Err: err}
}

// AsAppError unwraps err to an *AppError, or wraps it as Internal.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// IsCode reports whether err is an AppError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}
