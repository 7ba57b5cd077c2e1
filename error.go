package distill

import (
	"context"
	"errors"
	"fmt"
)

// Application error codes.
//
// These are meant to be mapped onto transport-level codes by callers
// and to let internal components branch on failure class without
// string matching.
const (
	ECONTEXTLOST = "context_lost"  // execution context torn down mid-call
	EEMPTY       = "empty_content" // settled DOM produced no content
	EINTERNAL    = "internal"      // unexpected internal failure
	EINVALID     = "invalid"       // validation failed on caller input
	ENOTFOUND    = "not_found"     // entity does not exist
	ETIMEOUT     = "timeout"       // deadline elapsed before completion
)

// Error represents an application-specific error. Application errors
// carry a machine-readable code and a human-readable message suitable
// for end users; they never wrap stack traces or driver internals.
type Error struct {
	// Code is one of the constants above.
	Code string

	// Message is a human-readable description of the failure.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("distill error: code=%s message=%s", e.Code, e.Message)
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors return EINTERNAL, except context deadline
// and cancellation errors which classify as ETIMEOUT.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	}
	if errors.As(err, &e) {
		return e.Code
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ETIMEOUT
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors return a generic message.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	}
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Errorf is a helper for constructing an Error with formatting.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}
