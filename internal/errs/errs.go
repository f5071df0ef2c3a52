// Package errs defines the coded application errors surfaced by the API.
package errs

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeUnknown            Code = "UNKNOWN"
	CodeUnauthenticated    Code = "UNAUTHENTICATED"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeNotFound           Code = "NOT_FOUND"
	CodeAlreadyExists      Code = "ALREADY_EXISTS"
	CodeInternal           Code = "INTERNAL"
)

// AppError carries a stable code alongside a caller-facing message. The
// wrapped cause never reaches the client.
type AppError struct {
	Code    Code
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

// Extensions exposes the code in the "extensions" block of a GraphQL error
// response.
func (e *AppError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": string(e.Code)}
}

func New(code Code, message string) error {
	return &AppError{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) error {
	return &AppError{Code: code, Message: message, Cause: cause}
}

func NotFound(msg string) error {
	return New(CodeNotFound, msg)
}

func AlreadyExists(msg string) error {
	return New(CodeAlreadyExists, msg)
}

func Internal(msg string) error {
	return New(CodeInternal, msg)
}

var (
	// ErrUnauthenticated is returned by every auth-gated operation invoked
	// without an identity on the context.
	ErrUnauthenticated = New(CodeUnauthenticated, "you need to be logged in")

	// ErrInvalidCredentials covers both unknown email and wrong password so
	// login failures never reveal which part was wrong.
	ErrInvalidCredentials = New(CodeInvalidCredentials, "incorrect credentials")
)

// CodeOf returns the application code of err, or CodeUnknown for errors
// that did not originate in this package.
func CodeOf(err error) Code {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeUnknown
}
