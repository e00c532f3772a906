package status

import (
	"errors"
	"strings"
)

// Error is the error type returned by client operations. It carries the
// operation name, the device involved when known, and the status code,
// matching the context the error sink receives.
type Error struct {
	// Op is the name of the operation that failed, such as "WriteRegister".
	Op string

	// Device identifies the board as "ip:port", or is empty when the
	// failure happened before a device was involved.
	Device string

	// Code classifies the failure.
	Code Code

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Device != "" {
		b.WriteByte(' ')
		b.WriteString(e.Device)
	}
	b.WriteString(": ")
	b.WriteString(e.Code.Message())
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf extracts the status code from an error chain. It returns
// Success for a nil error and InternalError for errors that carry no
// code.
func CodeOf(err error) Code {
	if err == nil {
		return Success
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return InternalError
}

// Compile-time interface satisfaction check.
var _ error = (*Error)(nil)
