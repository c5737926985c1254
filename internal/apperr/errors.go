// Package apperr defines the stable error codes surfaced to protocol clients.
package apperr

import (
	"errors"
	"fmt"
)

// Code is a machine-branchable error code carried in protocol responses.
type Code string

const (
	CodeInvalidInput  Code = "INVALID_INPUT"
	CodePathNotFound  Code = "PATH_NOT_FOUND"
	CodeNotConfigured Code = "NOT_CONFIGURED"
	CodeNotFound      Code = "NOT_FOUND"
	CodeUnknownType   Code = "UNKNOWN_TYPE"
	CodeInternal      Code = "INTERNAL_ERROR"
)

// Error couples a stable code with a human-readable message.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string { return e.Message }

// New builds an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the code carried by err. Errors without an explicit code
// are uncaught failures and map to INTERNAL_ERROR.
func CodeOf(err error) Code {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeInternal
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}
