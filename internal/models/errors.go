package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// FailResponse is the standardized failure payload returned by every
// endpoint: {"status": "fail", "message": ...}.
type FailResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// AppError is a domain failure carrying one of the error-taxonomy codes.
type AppError struct {
	Code    string
	Message string
	Err     error
}

const (
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeInvalidArgument = "INVALID_ARGUMENT"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeStoreFailure    = "STORE_FAILURE"
)

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined error constructors
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: resource + " not found",
	}
}

func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
	}
}

func NewInvalidArgumentError(message string) *AppError {
	return &AppError{
		Code:    CodeInvalidArgument,
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: message,
	}
}

func NewStoreError(err error) *AppError {
	return &AppError{
		Code:    CodeStoreFailure,
		Message: "Store operation failed",
		Err:     err,
	}
}

// IsCode reports whether err is an AppError with the given code.
func IsCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// httpStatus maps taxonomy codes to HTTP status codes.
func httpStatus(code string) int {
	switch code {
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeConflict:
		return fiber.StatusConflict
	case CodeInvalidArgument:
		return fiber.StatusBadRequest
	case CodeUnauthorized:
		return fiber.StatusUnauthorized
	case CodeForbidden:
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondWithError writes the standardized fail response. AppErrors pick
// their HTTP status from the taxonomy code; anything else is treated as
// a store failure.
func RespondWithError(c *fiber.Ctx, err error) error {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = NewStoreError(err)
	}
	return c.Status(httpStatus(appErr.Code)).JSON(FailResponse{
		Status:  "fail",
		Message: appErr.Message,
		Code:    appErr.Code,
	})
}
