package httperror

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error is returned from handlers and rendered by the HTTP error writer as {code, message, details}.
type Error struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *Error) Error() string {
	if e.Details != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(status int, code, message string, details any) *Error {
	return &Error{
		Status:  status,
		Code:    code,
		Message: message,
		Details: details,
	}
}

func BadRequest(code, message string, details any) *Error {
	return New(fiber.StatusBadRequest, code, message, details)
}

func Unauthorized(code, message string, details any) *Error {
	return New(fiber.StatusUnauthorized, code, message, details)
}

func Forbidden(code, message string, details any) *Error {
	return New(fiber.StatusForbidden, code, message, details)
}

func NotFound(code, message string, details any) *Error {
	return New(fiber.StatusNotFound, code, message, details)
}

func Conflict(code, message string, details any) *Error {
	return New(fiber.StatusConflict, code, message, details)
}

func InternalServerError(code, message string, details any) *Error {
	return New(fiber.StatusInternalServerError, code, message, details)
}

// NoContent signals a successful call with an empty 204 response.
func NoContent(code, message string, details any) *Error {
	return New(fiber.StatusNoContent, code, message, details)
}
