// Package serrors attaches a category to an error. The category survives any
// amount of fmt.Errorf wrapping, so the HTTP layer can pick a status and a
// response code from it without knowing which package failed.
package serrors

import (
	"errors"
	"fmt"
)

// Kind is an error category. Only values made by NewKind satisfy it.
type Kind interface {
	error
	isKind()
}

type kind string

func (k kind) Error() string { return string(k) }
func (kind) isKind()         {}

// NewKind registers a category under name. The name doubles as the
// machine readable response code.
func NewKind(name string) Kind { return kind(name) }

// Categories shared across the service. Packages may declare their own with
// NewKind when none of these fit.
var (
	ErrNotFound     = NewKind("NOT_FOUND")    // the requested resource does not exist
	ErrUnauthorized = NewKind("UNAUTHORIZED") // caller is not authenticated
	ErrForbidden    = NewKind("FORBIDDEN")    // caller may not do this
	ErrBadRequest   = NewKind("BAD_REQUEST")  // input failed validation
	ErrConflict     = NewKind("CONFLICT")     // resource state disagrees with the request
	ErrInternal     = NewKind("INTERNAL")     // bug or broken invariant
	ErrTimeout      = NewKind("TIMEOUT")      // deadline passed
	ErrUnavailable  = NewKind("UNAVAILABLE")  // a dependency is down
	ErrRateLimited  = NewKind("RATE_LIMITED") // caller exceeded its quota
)

// Error pairs a Kind with an optional message and an optional cause.
// errors.Is and errors.As see both the kind and the cause.
type Error struct {
	kind  Kind
	cause error
	msg   string
}

// With returns an error of kind k described by a formatted message.
func With(k Kind, msgFmt string, args ...any) *Error {
	return &Error{kind: k, msg: fmt.Sprintf(msgFmt, args...)}
}

// Wrap is With plus a cause, which is appended to the message on Error().
func Wrap(k Kind, cause error, msgFmt string, args ...any) *Error {
	return &Error{kind: k, cause: cause, msg: fmt.Sprintf(msgFmt, args...)}
}

// KindOnly returns a bare error of kind k; its text is the kind name.
func KindOnly(k Kind) *Error { return &Error{kind: k} }

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}

	var parts []string
	if e.msg != "" {
		parts = append(parts, e.msg)
	}
	if e.cause != nil {
		parts = append(parts, e.cause.Error())
	}

	switch {
	case len(parts) == 2:
		return parts[0] + ": " + parts[1]
	case len(parts) == 1:
		return parts[0]
	case e.kind != nil:
		return e.kind.Error()
	default:
		return "unknown error"
	}
}

// Unwrap exposes the kind first, then the cause.
func (e *Error) Unwrap() []error {
	if e == nil {
		return nil
	}

	errs := make([]error, 0, 2)
	if e.kind != nil {
		errs = append(errs, e.kind)
	}
	if e.cause != nil {
		errs = append(errs, e.cause)
	}

	return errs
}

func (e *Error) Kind() Kind      { return e.kind }
func (e *Error) Message() string { return e.msg }
func (e *Error) Cause() error    { return e.cause }

// KindOf reports the outermost Kind in err's chain, or nil.
func KindOf(err error) Kind {
	var k Kind
	if errors.As(err, &k) {
		return k
	}

	return nil
}

// MessageOf reports the message of the outermost *Error in err's chain. Without
// one it falls back to the kind name, and to "" for uncategorized errors.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.msg != "" {
		return e.msg
	}
	if k := KindOf(err); k != nil {
		return k.Error()
	}

	return ""
}
