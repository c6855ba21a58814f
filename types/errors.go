package types

import (
	"errors"
	"fmt"
)

// ErrorKind classifies engine errors without prescribing concrete types for
// every failure mode.
type ErrorKind string

const (
	KindHardwareFailure       ErrorKind = "hardware_failure"
	KindInsufficientResources ErrorKind = "insufficient_resources"
	KindPermissionDenied      ErrorKind = "permission_denied"
	KindTestTimeout           ErrorKind = "test_timeout"
	KindSystemUnstable        ErrorKind = "system_unstable"
	KindIOError               ErrorKind = "io_error"
	KindConfigError           ErrorKind = "config_error"
	KindTestExecutionError    ErrorKind = "test_execution_error"
	KindUnexpectedError       ErrorKind = "unexpected_error"
)

// Error is the engine's error type. It carries a kind for policy decisions
// and optionally wraps an underlying cause.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is or wraps an engine Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var engineErr *Error
	return errors.As(err, &engineErr) && engineErr.Kind == kind
}

func NewHardwareFailure(msg string) *Error {
	return &Error{Kind: KindHardwareFailure, Msg: msg}
}

func NewInsufficientResources(msg string) *Error {
	return &Error{Kind: KindInsufficientResources, Msg: msg}
}

func NewPermissionDenied(msg string) *Error {
	return &Error{Kind: KindPermissionDenied, Msg: msg}
}

func NewTestTimeout(msg string) *Error {
	return &Error{Kind: KindTestTimeout, Msg: msg}
}

func NewSystemUnstable(msg string) *Error {
	return &Error{Kind: KindSystemUnstable, Msg: msg}
}

// NewIOError wraps an underlying I/O failure.
func NewIOError(msg string, err error) *Error {
	return &Error{Kind: KindIOError, Msg: msg, Err: err}
}

func NewConfigError(msg string) *Error {
	return &Error{Kind: KindConfigError, Msg: msg}
}

func NewConfigErrorf(format string, args ...any) *Error {
	return &Error{Kind: KindConfigError, Msg: fmt.Sprintf(format, args...)}
}

func NewTestExecutionError(msg string) *Error {
	return &Error{Kind: KindTestExecutionError, Msg: msg}
}

func NewUnexpectedError(msg string, err error) *Error {
	return &Error{Kind: KindUnexpectedError, Msg: msg, Err: err}
}
