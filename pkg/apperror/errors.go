package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code     int          `json:"code"`
	Type     string       `json:"type,omitempty"`
	Message  string       `json:"message"`
	Errors   []FieldError `json:"errors,omitempty"`
	// Upstream is the HTTP status the pharmacy backend replied with, if any
	Upstream int `json:"-"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Is matches errors of the same class. Two AppErrors are the same class when
// they share a non-empty Type, regardless of message.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	if e.Type == "" || t.Type == "" {
		return e == t
	}
	return e.Type == t.Type
}

// Withf returns a copy of the error with a formatted message.
func (e *AppError) Withf(format string, args ...interface{}) *AppError {
	return &AppError{
		Code:     e.Code,
		Type:     e.Type,
		Message:  fmt.Sprintf(format, args...),
		Errors:   e.Errors,
		Upstream: e.Upstream,
	}
}

// Error classes
const (
	TypePriceBelowCost    = "price_below_cost"
	TypeInsufficientStock = "insufficient_stock"
	TypeNoSelection       = "no_selection"
	TypeInvalidQuantity   = "invalid_quantity"
	TypeEmptyBill         = "empty_bill"
	TypeBillBusy          = "bill_busy"
	TypeInvalidSlot       = "invalid_slot"
	TypeNetwork           = "network_error"
	TypeServer            = "server_error"
	TypeNotFound          = "not_found"
	TypeConflict          = "conflict"
)

// Common errors
var (
	ErrNotFound       = &AppError{Code: http.StatusNotFound, Type: TypeNotFound, Message: "Resource not found"}
	ErrUnauthorized   = &AppError{Code: http.StatusUnauthorized, Message: "Unauthorized"}
	ErrForbidden      = &AppError{Code: http.StatusForbidden, Message: "Forbidden"}
	ErrBadRequest     = &AppError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrInternalServer = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}
	ErrConflict       = &AppError{Code: http.StatusConflict, Type: TypeConflict, Message: "Resource already exists"}
	ErrInvalidToken   = &AppError{Code: http.StatusUnauthorized, Message: "Invalid token"}
)

// Billing validation errors
var (
	ErrPriceBelowCost    = &AppError{Code: http.StatusUnprocessableEntity, Type: TypePriceBelowCost, Message: "Selling price cannot be lower than the purchase price"}
	ErrInsufficientStock = &AppError{Code: http.StatusUnprocessableEntity, Type: TypeInsufficientStock, Message: "Quantity exceeds available stock"}
	ErrNoSelection       = &AppError{Code: http.StatusUnprocessableEntity, Type: TypeNoSelection, Message: "Select a medicine first"}
	ErrInvalidQuantity   = &AppError{Code: http.StatusUnprocessableEntity, Type: TypeInvalidQuantity, Message: "Quantity must be at least 1"}
	ErrEmptyBill         = &AppError{Code: http.StatusUnprocessableEntity, Type: TypeEmptyBill, Message: "Add at least one medicine to the bill"}
	ErrBillBusy          = &AppError{Code: http.StatusConflict, Type: TypeBillBusy, Message: "Bill is being submitted"}
	ErrInvalidSlot       = &AppError{Code: http.StatusBadRequest, Type: TypeInvalidSlot, Message: "Bill slot out of range"}
)

// Backend errors
var (
	ErrNetwork = &AppError{Code: http.StatusBadGateway, Type: TypeNetwork, Message: "Could not reach the pharmacy server"}
	ErrServer  = &AppError{Code: http.StatusBadGateway, Type: TypeServer, Message: "Pharmacy server error"}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Type:    TypeNotFound,
		Message: resource + " not found",
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Type:    TypeConflict,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// NewServerError wraps a non-2xx backend reply. The backend message is kept verbatim.
func NewServerError(status int, message string) *AppError {
	if message == "" {
		message = fmt.Sprintf("Pharmacy server returned status %d", status)
	}
	return &AppError{
		Code:     http.StatusBadGateway,
		Type:     TypeServer,
		Message:  message,
		Upstream: status,
	}
}

// IsTransient reports whether a backend failure is worth retrying:
// transport errors and 429/502/503/504 replies.
func IsTransient(err error) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	switch appErr.Type {
	case TypeNetwork:
		return true
	case TypeServer:
		switch appErr.Upstream {
		case http.StatusTooManyRequests, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
	}
	return false
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
	}
}
