// Package apperrors defines the client-visible error taxonomy from
// spec.md §7 as a single typed error with a stable Code, so handlers
// can map it to an HTTP status with errors.As instead of string
// matching, in the spirit of the teacher's typed
// session/types/errors.go errors.
package apperrors

import "fmt"

// Code is one of the client-visible error kinds.
type Code string

const (
	CodeValidation   Code = "validation"
	CodeNotFound     Code = "not-found"
	CodeUnauthorized Code = "unauthorized"
	CodeForbidden    Code = "forbidden"
	CodeConflict     Code = "conflict"
	CodeCapacity     Code = "capacity"
	CodeRateLimited  Code = "rate-limited"
	CodeState        Code = "state"
	CodeInternal     Code = "internal"
)

// httpStatus maps each Code to the status spec.md §7 assigns it by
// default; individual handlers may still special-case a route (e.g.
// the 302 redirects used by lobby page routes).
var httpStatus = map[Code]int{
	CodeValidation:   400,
	CodeNotFound:     404,
	CodeUnauthorized: 401,
	CodeForbidden:    403,
	CodeConflict:     400,
	CodeCapacity:     503,
	CodeRateLimited:  429,
	CodeState:        400,
	CodeInternal:     500,
}

// Error is the single concrete error type carried through the stack.
// Internal-detail is never put in Message for CodeInternal; callers
// construct those with Internal(), which keeps the real error out of
// the client-visible message.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Status returns the HTTP status this error's Code maps to.
func (e *Error) Status() int {
	if s, ok := httpStatus[e.Code]; ok {
		return s
	}
	return 500
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Validation(message string) *Error   { return New(CodeValidation, message) }
func NotFound(message string) *Error     { return New(CodeNotFound, message) }
func Unauthorized(message string) *Error { return New(CodeUnauthorized, message) }
func Forbidden(message string) *Error    { return New(CodeForbidden, message) }
func Conflict(message string) *Error     { return New(CodeConflict, message) }
func Capacity(message string) *Error     { return New(CodeCapacity, message) }
func RateLimited(message string) *Error  { return New(CodeRateLimited, message) }
func State(message string) *Error        { return New(CodeState, message) }

// Internal wraps an unexpected error. The cause is logged by the
// caller but never serialized to the client.
func Internal(cause error) *Error {
	return &Error{Code: CodeInternal, Message: "internal error", cause: cause}
}
