// Package apperr defines the typed error taxonomy of spec.md §7. Every error
// that crosses a service-layer boundary is one of these kinds, mirroring the
// teacher's EntityNotFoundError/ValidationError/EntityConflictError family but
// mapped onto the stock ledger's own vocabulary (InsufficientStock,
// ConcurrentModification, ...) instead of generic CRUD errors.
package apperr

import (
	"errors"
	"fmt"
)

// Kind identifies one row of the spec.md §7 error taxonomy table.
type Kind string

const (
	KindInvalidQuantity       Kind = "InvalidQuantity"
	KindInsufficientStock     Kind = "InsufficientStock"
	KindInvariantViolation    Kind = "InvariantViolation"
	KindProductStockNotFound  Kind = "ProductStockNotFound"
	KindConcurrentModification Kind = "ConcurrentModification"
	KindTimeout               Kind = "Timeout"
	KindRepositoryError       Kind = "RepositoryError"
	KindBusError              Kind = "BusError"
	KindSchemaValidation      Kind = "SchemaValidation"
)

// Error is the concrete error type carried across the command/query/outbox
// boundary. EntityType and EntityID let callers build structured error
// responses without parsing the Message string.
type Error struct {
	Kind       Kind
	EntityType string
	EntityID   string
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}

	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Err.Error())
	}

	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is allows errors.Is(err, apperr.New(KindX, "")) style matching on Kind alone.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}

	return false
}

// Retryable reports whether the command service / outbox publisher may retry
// the operation that produced this error. Precondition violations are never
// retried (spec §4.2, §7); version conflicts and infrastructure errors are.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindConcurrentModification, KindRepositoryError, KindBusError, KindTimeout:
		return true
	default:
		return false
	}
}

// New builds an *Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error of the given kind wrapping an underlying error.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the Kind of err, or "" if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return ""
}

// IsNotFound reports whether err is a ProductStockNotFound error.
func IsNotFound(err error) bool {
	return KindOf(err) == KindProductStockNotFound
}

// IsConcurrentModification reports whether err is a version-conflict error
// after the retry budget was exhausted.
func IsConcurrentModification(err error) bool {
	return KindOf(err) == KindConcurrentModification
}
