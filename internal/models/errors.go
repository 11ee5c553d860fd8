package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes carried by AppError.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL_ERROR"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
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

func newAppError(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// NewNotFoundError reports a missing resource, e.g. "post with ID 7 not found".
func NewNotFoundError(resource string, id any) *AppError {
	return newAppError(CodeNotFound, fmt.Sprintf("%s with ID %v not found", resource, id))
}

func NewValidationError(message string) *AppError {
	return newAppError(CodeValidation, message)
}

func NewUnauthorizedError(message string) *AppError {
	return newAppError(CodeUnauthorized, message)
}

func NewForbiddenError(message string) *AppError {
	return newAppError(CodeForbidden, message)
}

func NewConflictError(message string) *AppError {
	return newAppError(CodeConflict, message)
}

// NewInternalError hides err from clients; it is still logged and unwrapped.
func NewInternalError(err error) *AppError {
	return &AppError{Code: CodeInternal, Message: "Internal server error", Err: err}
}

var statusByCode = map[string]int{
	CodeValidation:   fiber.StatusBadRequest,
	CodeNotFound:     fiber.StatusNotFound,
	CodeUnauthorized: fiber.StatusUnauthorized,
	CodeForbidden:    fiber.StatusForbidden,
	CodeConflict:     fiber.StatusConflict,
}

// StatusFor maps an error to the HTTP status its AppError code implies.
// Anything else is a 500.
func StatusFor(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if status, ok := statusByCode[appErr.Code]; ok {
			return status
		}
	}
	return fiber.StatusInternalServerError
}

// RespondWithError writes a standardized error response. Internal errors
// never expose the wrapped cause to the client.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	var appErr *AppError
	switch {
	case errors.As(err, &appErr):
		response = ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		}
	case status >= fiber.StatusInternalServerError:
		response = ErrorResponse{
			Error: "Internal server error",
			Code:  CodeInternal,
		}
	default:
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}
