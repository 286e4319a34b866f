// Package apperr defines the error taxonomy shared by all core services.
// Services return classified errors; the API layer maps each kind to an
// HTTP status without inspecting error strings.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for transport mapping.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindInvalidParam
	KindForbidden
	KindConflict
)

// Error is a classified application error. Err, when set, carries the
// underlying cause for unwrapping.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// NotFound reports that the named resource does not exist.
func NotFound(resource string) error {
	return &Error{Kind: KindNotFound, Msg: resource + " not found"}
}

// NotFoundf is NotFound with a formatted resource name.
func NotFoundf(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...) + " not found"}
}

// InvalidParam reports a request the caller can fix.
func InvalidParam(format string, args ...interface{}) error {
	return &Error{Kind: KindInvalidParam, Msg: fmt.Sprintf(format, args...)}
}

// Forbidden reports that the caller lacks the required permission.
func Forbidden(msg string) error {
	return &Error{Kind: KindForbidden, Msg: msg}
}

// Conflict reports a state collision, such as a duplicate resource.
func Conflict(msg string) error {
	return &Error{Kind: KindConflict, Msg: msg}
}

// KindOf returns the Kind of err, or 0 when err is not a classified error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}
