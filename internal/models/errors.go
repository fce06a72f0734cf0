package models

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
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

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

// NewValidationError reports a local pre-flight failure. It never reaches
// the network.
func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Message: message,
	}
}

// NewAuthError carries the backend's message for a rejected credential,
// expired OTP or unconfirmed email.
func NewAuthError(message string) *AppError {
	return &AppError{
		Code:    "AUTH_ERROR",
		Message: message,
	}
}

// NewDecodeError reports a malformed wire record. The affected record is
// skipped rather than aborting the whole batch.
func NewDecodeError(entity string) *AppError {
	return &AppError{
		Code:    "DECODE_ERROR",
		Message: fmt.Sprintf("malformed %s record", entity),
	}
}

// NewNetworkError wraps a transport failure. No automatic retry.
func NewNetworkError(err error) *AppError {
	return &AppError{
		Code:    "NETWORK_ERROR",
		Message: "Network request failed",
		Err:     err,
	}
}

// StatusForError maps an application error to an HTTP status code.
func StatusForError(err error) int {
	if appErr, ok := err.(*AppError); ok {
		switch appErr.Code {
		case "VALIDATION_ERROR", "DECODE_ERROR":
			return fiber.StatusBadRequest
		case "AUTH_ERROR":
			return fiber.StatusUnauthorized
		case "NOT_FOUND":
			return fiber.StatusNotFound
		case "NETWORK_ERROR":
			return fiber.StatusBadGateway
		}
	}
	return fiber.StatusInternalServerError
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	if appErr, ok := err.(*AppError); ok {
		response = ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		}
		if appErr.Err != nil {
			response.Details = appErr.Err.Error()
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}
