// Package apperr provides the typed error taxonomy components wrap
// their failures into at the transport boundary, where a Code is
// translated to an HTTP status.
package apperr

import "fmt"

// Code classifies an Error by the subsystem it came from.
type Code int

const (
	CodeFrame Code = iota
	CodeParse
	CodeAuth
	CodeCatalog
	CodeConfig
	CodeIO
)

func (c Code) String() string {
	switch c {
	case CodeFrame:
		return "frame"
	case CodeParse:
		return "parse"
	case CodeAuth:
		return "auth"
	case CodeCatalog:
		return "catalog"
	case CodeConfig:
		return "config"
	case CodeIO:
		return "io"
	default:
		return "unknown"
	}
}

// Error is the typed error components and the transport layer exchange
// instead of raw errors, so the transport can translate Code to an HTTP
// status without inspecting message text.
type Error struct {
	Code       Code
	Message    string
	Underlying error
}

func (e *Error) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Underlying
}

// New returns a bare apperr.Error with no underlying cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches code and message to an existing error, preserving it as
// Underlying for errors.Is/errors.As.
func Wrap(code Code, message string, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Underlying: err}
}

// Is reports whether err is an *Error of the given code.
func Is(err error, code Code) bool {
	e, ok := err.(*Error)
	return ok && e.Code == code
}
