package errors

import (
	"errors"
	"fmt"
	"net/http"

	"sales-service/domain/sale"
	"sales-service/domain/shared"
	"sales-service/pkg/query"
)

// ErrorCode identifies an error class on the API surface.
type ErrorCode string

const (
	// Generic codes.
	CodeInternal       ErrorCode = "INTERNAL_ERROR"
	CodeBadRequest     ErrorCode = "BAD_REQUEST"
	CodeNotFound       ErrorCode = "NOT_FOUND"
	CodeConflict       ErrorCode = "CONFLICT"
	CodeTooManyRequest ErrorCode = "TOO_MANY_REQUESTS"
	CodeValidation     ErrorCode = "VALIDATION_ERROR"

	// Business codes.
	CodeSaleNotFound     ErrorCode = "SALE_NOT_FOUND"
	CodeItemNotFound     ErrorCode = "ITEM_NOT_FOUND"
	CodeInvalidSaleState ErrorCode = "INVALID_SALE_STATE"
	CodeConcurrentModify ErrorCode = "CONCURRENT_MODIFICATION"
)

// AppError is the error shape the API layer renders.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatusCode maps the error code to a transport status.
func (e *AppError) HTTPStatusCode() int {
	switch e.Code {
	case CodeBadRequest, CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound, CodeSaleNotFound, CodeItemNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeConcurrentModify:
		return http.StatusConflict
	case CodeTooManyRequest:
		return http.StatusTooManyRequests
	case CodeInvalidSaleState:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// New creates an AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap attaches a cause to a new AppError.
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func BadRequest(message string) *AppError      { return New(CodeBadRequest, message) }
func NotFound(message string) *AppError        { return New(CodeNotFound, message) }
func Internal(message string) *AppError        { return New(CodeInternal, message) }
func Conflict(message string) *AppError        { return New(CodeConflict, message) }
func TooManyRequests(message string) *AppError { return New(CodeTooManyRequest, message) }
func Validation(message string) *AppError      { return New(CodeValidation, message) }

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// AsAppError converts any error into an AppError, wrapping unknown errors
// as internal.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, CodeInternal, "internal server error")
}

// FromDomainError maps domain sentinels to application errors. Sentinel
// identity decides the code; the original message is preserved so field and
// value details survive to the response.
func FromDomainError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	msg := err.Error()
	switch {
	case errors.Is(err, sale.ErrSaleNotFound):
		return Wrap(err, CodeSaleNotFound, msg)
	case errors.Is(err, sale.ErrItemNotFound):
		return Wrap(err, CodeItemNotFound, msg)
	case errors.Is(err, sale.ErrConcurrentModification):
		return Wrap(err, CodeConcurrentModify, msg)
	case errors.Is(err, sale.ErrSaleAlreadyCancelled),
		errors.Is(err, sale.ErrSaleCancelled),
		errors.Is(err, sale.ErrSaleNotActive),
		errors.Is(err, sale.ErrItemAlreadyCancelled),
		errors.Is(err, sale.ErrItemCancelled):
		return Wrap(err, CodeInvalidSaleState, msg)
	case errors.Is(err, sale.ErrDuplicateItem),
		errors.Is(err, sale.ErrDuplicateSaleNumber),
		errors.Is(err, sale.ErrItemSaleMismatch):
		return Wrap(err, CodeConflict, msg)
	case errors.Is(err, sale.ErrInvalidQuantity),
		errors.Is(err, sale.ErrInvalidUnitPrice),
		errors.Is(err, sale.ErrNoItems),
		errors.Is(err, shared.ErrInvalidInput),
		errors.Is(err, shared.ErrInvariantViolation):
		return Wrap(err, CodeValidation, msg)
	case errors.Is(err, query.ErrUnknownField),
		errors.Is(err, query.ErrInvalidValue),
		errors.Is(err, query.ErrUnsupportedOperation),
		errors.Is(err, query.ErrBlankField),
		errors.Is(err, query.ErrBlankSort),
		errors.Is(err, query.ErrInvalidSortDirection):
		return Wrap(err, CodeBadRequest, msg)
	case errors.Is(err, shared.ErrNotFound):
		return Wrap(err, CodeNotFound, msg)
	case errors.Is(err, shared.ErrConflict):
		return Wrap(err, CodeConflict, msg)
	}
	return Wrap(err, CodeInternal, "internal server error")
}
