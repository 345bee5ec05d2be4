/*
Package shared holds the building blocks common to every subdomain.

Error design:
1. Sentinel errors classify failures for errors.Is() checks.
2. DomainError captures the stack at creation time but formats it lazily.
3. Domain errors carry no transport concepts (no HTTP status codes).
*/
package shared

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

var (
	// ErrNotFound marks lookup failures, distinct from validation failures.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks concurrent modification or uniqueness conflicts.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput marks failed input validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvariantViolation marks a rejected aggregate state transition.
	ErrInvariantViolation = errors.New("invariant violation")
)

// DomainError is a structured error carrying business context and the stack
// of the point where it was created.
type DomainError struct {
	// Err is the underlying sentinel, for errors.Is().
	Err error

	// Entity names the entity the error belongs to (e.g. "sale").
	Entity string

	// Message is the human-readable description.
	Message string

	// Field optionally names the offending field for validation errors.
	Field string

	stack []uintptr
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Stack formats the captured stack on demand, one frame per element.
func (e *DomainError) Stack() []string {
	return FormatStack(e.stack)
}

// CaptureStack captures the current call stack.
// skip is usually 3: runtime.Callers, CaptureStack, and the constructor.
func CaptureStack(skip int) []uintptr {
	var pcs [32]uintptr
	n := runtime.Callers(skip, pcs[:])
	return pcs[:n]
}

// FormatStack renders stack frames, filtering runtime internals. At most 10
// frames are returned.
func FormatStack(stack []uintptr) []string {
	if len(stack) == 0 {
		return nil
	}

	frames := runtime.CallersFrames(stack)
	var result []string
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			result = append(result, fmt.Sprintf("%s:%d %s", frame.File, frame.Line, frame.Function))
		}
		if !more || len(result) > 10 {
			break
		}
	}
	return result
}

// NewNotFoundError creates a "not found" domain error with stack.
func NewNotFoundError(entity string) error {
	return &DomainError{
		Err:     ErrNotFound,
		Entity:  entity,
		Message: entity + " not found",
		stack:   CaptureStack(3),
	}
}

// NewConflictError creates a "conflict" domain error with stack.
func NewConflictError(entity, message string) error {
	return &DomainError{
		Err:     ErrConflict,
		Entity:  entity,
		Message: message,
		stack:   CaptureStack(3),
	}
}

// NewValidationError creates a "validation failed" domain error with stack.
func NewValidationError(entity, field, reason string) error {
	return &DomainError{
		Err:     ErrInvalidInput,
		Entity:  entity,
		Field:   field,
		Message: reason,
		stack:   CaptureStack(3),
	}
}

// Stacker is implemented by errors that carry a creation-point stack.
// The API layer uses it to log where an error originated.
type Stacker interface {
	Stack() []string
}
