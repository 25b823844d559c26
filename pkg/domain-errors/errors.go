// Package domainerrors carries the error taxonomy shared by services and transports.
//
// Services return *Error values with a Code; transports map codes to status codes
// without inspecting messages. Lower layers return plain or sentinel errors that
// services translate with Wrap.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies an error for the caller.
type Code string

const (
	// Caller input problems.
	CodeBadRequest   Code = "bad_request"
	CodeValidation   Code = "validation_error"
	CodeInvalidInput Code = "invalid_input"

	// Constructor invariants; services convert these into CodeValidation.
	CodeInvariantViolation Code = "invariant_violation"

	// Persisted bytes that do not decode, or an encoding that overflows its bound.
	CodeCorruptState Code = "corrupt_state"

	// Permission problems: missing roles, caller not owner or authorized.
	CodeUnauthorized Code = "unauthorized"
	CodeForbidden    Code = "forbidden"

	// State conflicts: duplicate registration, already queued or rendered.
	CodeConflict Code = "conflict"
	CodeNotFound Code = "not_found"

	CodeTimeout  Code = "timeout"
	CodeInternal Code = "internal_error"
)

// Error is a coded domain error. Err is optional and kept for errors.Is/As chains.
type Error struct {
	Code    Code
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

// Is matches another *Error with the same code and message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// New builds a coded error.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches a code and message to err.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, Err: err}
}

// CodeOf returns the code of the outermost *Error in the chain, or CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// HasCode reports whether any *Error in the chain carries code.
func HasCode(err error, code Code) bool {
	for err != nil {
		if de, ok := err.(*Error); ok && de.Code == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// Is reports whether the outermost *Error in the chain carries code.
func Is(err error, code Code) bool {
	var de *Error
	return errors.As(err, &de) && de.Code == code
}
