package apperror

import (
	"errors"
	"net/http"
)

// AppError is an error the HTTP layer can render: Code is the status,
// Message is safe to show a user.
type AppError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`

	// never rendered
	cause error
}

// FieldError names the request field a validation failure is about
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.cause
}

var (
	ErrInvalidCredentials = New(http.StatusUnauthorized, "Invalid email or password")
	ErrInvalidToken       = New(http.StatusUnauthorized, "Invalid token")
	ErrAccountDisabled    = New(http.StatusForbidden, "Account is disabled")

	// Stock and cart rules
	ErrInsufficientStock = New(http.StatusBadRequest, "Cannot remove more than available")
	ErrOutOfStock        = New(http.StatusConflict, "Item is out of stock")
	ErrExceedsStock      = New(http.StatusConflict, "Requested quantity exceeds available stock")
	ErrEmptyCart         = New(http.StatusUnprocessableEntity, "Cart is empty")
)

func New(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// NewValidationError is a 422 listing every failing field
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewFieldError is a 422 for a single field
func NewFieldError(field, message string) *AppError {
	return NewValidationError([]FieldError{{Field: field, Message: message}})
}

// NewNotFoundError renders as "<resource> not found"
func NewNotFoundError(resource string) *AppError {
	return New(http.StatusNotFound, resource+" not found")
}

func NewConflictError(message string) *AppError {
	return New(http.StatusConflict, message)
}

func NewBadRequestError(message string) *AppError {
	return New(http.StatusBadRequest, message)
}

// Wrap turns a store failure into a 500 with a user-facing message.
// err stays reachable through errors.Is and errors.As.
func Wrap(err error, message string) *AppError {
	return &AppError{Code: http.StatusInternalServerError, Message: message, cause: err}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError finds the AppError in err's chain. Anything else becomes a
// generic 500 so internals never reach the client.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "Internal server error")
}
