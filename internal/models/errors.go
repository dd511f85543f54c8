package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Error codes exposed to API clients.
const (
	CodeValidationError      = "VALIDATION_ERROR"
	CodeInvalidStatus        = "INVALID_STATUS"
	CodeUserNotFound         = "USER_NOT_FOUND"
	CodeRequestNotFound      = "REQUEST_NOT_FOUND"
	CodeFriendshipNotFound   = "FRIENDSHIP_NOT_FOUND"
	CodeProfileNotFound      = "PROFILE_NOT_FOUND"
	CodeNoSubscription       = "NO_SUBSCRIPTION"
	CodeForbidden            = "FORBIDDEN"
	CodeRequestExists        = "REQUEST_EXISTS"
	CodeAlreadyFriends       = "ALREADY_FRIENDS"
	CodeSubscriptionExists   = "SUBSCRIPTION_EXISTS"
	CodeSubscriptionRequired = "SUBSCRIPTION_REQUIRED"
	CodeVoiceLocked          = "VOICE_LOCKED"
	CodeVideoLocked          = "VIDEO_LOCKED"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeInternalError        = "INTERNAL_SERVER_ERROR"
)

// errorStatuses maps error codes to HTTP statuses.
var errorStatuses = map[string]int{
	CodeValidationError:      fiber.StatusBadRequest,
	CodeInvalidStatus:        fiber.StatusBadRequest,
	CodeUserNotFound:         fiber.StatusNotFound,
	CodeRequestNotFound:      fiber.StatusNotFound,
	CodeFriendshipNotFound:   fiber.StatusNotFound,
	CodeProfileNotFound:      fiber.StatusNotFound,
	CodeNoSubscription:       fiber.StatusNotFound,
	CodeForbidden:            fiber.StatusForbidden,
	CodeSubscriptionRequired: fiber.StatusForbidden,
	CodeVoiceLocked:          fiber.StatusForbidden,
	CodeVideoLocked:          fiber.StatusForbidden,
	CodeUnauthorized:         fiber.StatusUnauthorized,
	CodeRequestExists:        fiber.StatusConflict,
	CodeAlreadyFriends:       fiber.StatusConflict,
	CodeSubscriptionExists:   fiber.StatusConflict,
	CodeInternalError:        fiber.StatusInternalServerError,
}

// ErrorBody is the error payload of a failed API response.
type ErrorBody struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
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

func NewValidationError(message string) *AppError {
	return &AppError{Code: CodeValidationError, Message: message}
}

func NewInvalidStatusError(message string) *AppError {
	return &AppError{Code: CodeInvalidStatus, Message: message}
}

// NewNotFoundError builds a not-found error with the resource-specific code.
func NewNotFoundError(code, resource string, id interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Code: CodeForbidden, Message: message}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: CodeUnauthorized, Message: message}
}

// NewConflictError builds a 409-class error with the given conflict code.
func NewConflictError(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// NewLockedError builds a locked-channel error. The message must name the
// remediable condition so clients can render the correct upsell.
func NewLockedError(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternalError,
		Message: "Internal server error",
		Err:     err,
	}
}

// StatusForError returns the HTTP status for an application error, defaulting
// to 500 for unknown codes and non-AppError values.
func StatusForError(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if status, ok := errorStatuses[appErr.Code]; ok {
			return status
		}
	}
	return fiber.StatusInternalServerError
}

// RespondWithError creates a standardized error response. Non-AppError values
// render as a generic internal error; their detail stays in the logs, never in
// the body.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	body := ErrorBody{
		Code:      CodeInternalError,
		Message:   "Internal server error",
		Timestamp: time.Now().UTC(),
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		body.Code = appErr.Code
		body.Message = appErr.Message
	}

	return c.Status(status).JSON(ErrorResponse{Error: body})
}
