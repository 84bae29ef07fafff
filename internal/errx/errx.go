// Package errx holds the error taxonomy shared by the dispatcher, the store and the
// HTTP layer. Every Error carries a safe public message; the wrapped cause is only
// ever logged.
package errx

import (
	"errors"
	"fmt"
	"net/http"
)

// SystemErrorMessage is returned to clients for errors outside the taxonomy.
const SystemErrorMessage = "internal server error"

type Kind string

const (
	KindValidation        Kind = "validation"
	KindUnsupportedEngine Kind = "unsupported_engine"
	KindProvider          Kind = "provider"
	KindStorage           Kind = "storage"
)

// Error wraps an underlying error with a kind and a message that is safe to show.
type Error struct {
	Kind    Kind
	Engine  string
	Message string
	Err     error

	// Retryable marks transient provider failures (timeouts, 408, 429, 5xx).
	Retryable bool
	// Upstream is the provider's HTTP status, if one was received.
	Upstream int
}

func (e *Error) Error() string {
	msg := e.Public()
	if e.Err == nil {
		return msg
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status maps the kind to an HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation, KindUnsupportedEngine:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Public returns the client-facing message. It never includes the wrapped error.
func (e *Error) Public() string {
	switch e.Kind {
	case KindProvider:
		return fmt.Sprintf("%s: %s", e.Engine, e.Message)
	case KindUnsupportedEngine:
		return fmt.Sprintf("unsupported engine %q", e.Engine)
	default:
		return e.Message
	}
}

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func UnsupportedEngine(engine string) *Error {
	return &Error{Kind: KindUnsupportedEngine, Engine: engine}
}

// Provider builds a non-retryable provider failure.
func Provider(engine, message string, err error) *Error {
	return &Error{Kind: KindProvider, Engine: engine, Message: message, Err: err}
}

// Transient builds a provider failure the dispatcher may retry.
func Transient(engine, message string, err error) *Error {
	return &Error{Kind: KindProvider, Engine: engine, Message: message, Err: err, Retryable: true}
}

// NotConfigured reports a known engine whose credentials are missing.
func NotConfigured(engine string) *Error {
	return Provider(engine, "engine not configured", nil)
}

// Storage wraps a persistence failure. op names the failed operation for the logs.
func Storage(op string, err error) *Error {
	return &Error{Kind: KindStorage, Message: "storage unavailable", Err: fmt.Errorf("%s: %w", op, err)}
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsKind reports whether err's chain holds an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == kind
}

// IsRetryable reports whether err is a transient provider failure.
func IsRetryable(err error) bool {
	e, ok := As(err)
	return ok && e.Retryable
}
