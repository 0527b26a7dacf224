// Package apperr defines the error kinds the service layer surfaces to
// callers. Handlers map kinds to HTTP status codes; services wrap storage
// errors into a kind and never retry.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindPermissionDenied
	KindNotFound
	KindConflict
	KindInvalidCredentials
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindPermissionDenied:
		return "permission_denied"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInvalidCredentials:
		return "invalid_credentials"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is makes two errors of the same kind match under errors.Is, so callers
// can compare against the package sentinels below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrValidation         = &Error{Kind: KindValidation, Msg: "validation failed"}
	ErrPermissionDenied   = &Error{Kind: KindPermissionDenied, Msg: "permission denied"}
	ErrNotFound           = &Error{Kind: KindNotFound, Msg: "not found"}
	ErrConflict           = &Error{Kind: KindConflict, Msg: "conflict"}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials, Msg: "invalid credentials"}
)

func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func PermissionDenied(format string, args ...any) error {
	return &Error{Kind: KindPermissionDenied, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

func InvalidCredentials(format string, args ...any) error {
	return &Error{Kind: KindInvalidCredentials, Msg: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind from an error chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
