// Package errors provides custom error types for the DRE budget API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Session errors.
var (
	ErrUnauthorized    = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidToken    = &AppError{Code: "INVALID_TOKEN", Message: "Invalid or expired session token", StatusCode: http.StatusUnauthorized}
	ErrSessionNotFound = &AppError{Code: "SESSION_NOT_FOUND", Message: "Session not found or expired", StatusCode: http.StatusNotFound}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Budget item errors.
var (
	ErrItemNotFound    = &AppError{Code: "ITEM_NOT_FOUND", Message: "Budget item not found", StatusCode: http.StatusNotFound}
	ErrItemNotEditable = &AppError{Code: "ITEM_NOT_EDITABLE", Message: "Values of an item with sub-items are calculated from them", StatusCode: http.StatusConflict}
	ErrInvalidMove     = &AppError{Code: "INVALID_MOVE", Message: "An item cannot be moved under itself or one of its descendants", StatusCode: http.StatusConflict}
	ErrInvalidMonth    = &AppError{Code: "INVALID_MONTH", Message: "Unknown month", StatusCode: http.StatusBadRequest}
)

// Subtotal errors.
var (
	ErrSubtotalNotFound = &AppError{Code: "SUBTOTAL_NOT_FOUND", Message: "Subtotal not found", StatusCode: http.StatusNotFound}
	ErrInvalidSubtotal  = &AppError{Code: "INVALID_SUBTOTAL", Message: "A subtotal needs a name and at least one item", StatusCode: http.StatusBadRequest}
)
