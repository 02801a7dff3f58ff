package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies domain errors so handlers never hand-map HTTP statuses.
type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation
	KindState
	KindAuthorization
	KindNotFound
)

// Error is the typed error every service method returns.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation marks malformed or inconsistent input.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Validationf is Validation with formatting.
func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// State marks an illegal transition for the resource's current status.
func State(message string) *Error {
	return &Error{Kind: KindState, Message: message}
}

// Authorization marks access to a resource not owned by the caller.
func Authorization(message string) *Error {
	return &Error{Kind: KindAuthorization, Message: message}
}

// NotFound marks a missing resource.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Wrap attaches an underlying cause to an unexpected error. The message is
// what the client may see; the cause stays server-side.
func Wrap(message string, err error) *Error {
	return &Error{Kind: KindUnexpected, Message: message, Err: err}
}

// KindOf extracts the kind from any error chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
