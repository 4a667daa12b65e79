// Package apperr classifies application-level failures into the small set
// of abstract kinds the HTTP adapter maps onto status codes. Domain and
// application code returns a *apperr.Error (or a wrapped one) instead of
// letting raw store/cache errors leak to the transport boundary.
package apperr

import "errors"

// Kind is one of the abstract error kinds used across the auth core.
type Kind string

const (
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindBadRequest   Kind = "bad_request"
	KindNotFound     Kind = "not_found"
	KindSmsCooldown  Kind = "sms_cooldown"
	KindUserExists   Kind = "user_exists"
	KindInternal     Kind = "internal"
)

// Error pairs an abstract Kind with a caller-facing message and an optional
// wrapped cause, so that application code can log the cause while the HTTP
// adapter only ever renders the stable message.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// New constructs an *Error with no wrapped cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap constructs an *Error carrying a wrapped cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// As is a thin wrapper over errors.As for the common case of recovering the
// *Error from an arbitrarily wrapped chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the Kind of err if it is (or wraps) an *Error, and
// KindInternal otherwise — an unclassified error is always treated as an
// internal failure, never silently surfaced as something more specific.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindInternal
}
