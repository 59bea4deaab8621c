package output

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ecommerce-fullstack-globalprint/trabalho-frontend-backend-prof-mariane/internal/api"
)

// Error is a structured error with code, message, and optional hint.
type Error struct {
	Code       string
	Message    string
	Hint       string
	HTTPStatus int
	Retryable  bool
	Fields     map[string][]string
	Cause      error
}

func (e *Error) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Hint)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error.
func (e *Error) ExitCode() int {
	return ExitCodeFor(e.Code)
}

// Error constructors for common cases.

func ErrUsage(msg string) *Error {
	return &Error{Code: CodeUsage, Message: msg}
}

func ErrUsageHint(msg, hint string) *Error {
	return &Error{Code: CodeUsage, Message: msg, Hint: hint}
}

func ErrNotFound(resource, identifier string) *Error {
	return &Error{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found: %s", resource, identifier),
		HTTPStatus: http.StatusNotFound,
	}
}

func ErrAuth(msg string) *Error {
	return &Error{
		Code:       CodeAuth,
		Message:    msg,
		Hint:       "Run: globalprint auth login",
		HTTPStatus: http.StatusUnauthorized,
	}
}

func ErrForbidden(msg string) *Error {
	return &Error{
		Code:       CodeForbidden,
		Message:    msg,
		HTTPStatus: http.StatusForbidden,
	}
}

func ErrRateLimit(retryAfter int) *Error {
	hint := "Try again later"
	if retryAfter > 0 {
		hint = fmt.Sprintf("Try again in %d seconds", retryAfter)
	}
	return &Error{
		Code:       CodeRateLimit,
		Message:    "Rate limited",
		Hint:       hint,
		HTTPStatus: http.StatusTooManyRequests,
		Retryable:  true,
	}
}

func ErrNetwork(cause error) *Error {
	return &Error{
		Code:      CodeNetwork,
		Message:   "Network error",
		Hint:      cause.Error(),
		Retryable: true,
		Cause:     cause,
	}
}

func ErrAPI(status int, msg string) *Error {
	return &Error{
		Code:       CodeAPI,
		Message:    msg,
		HTTPStatus: status,
	}
}

// ErrValidation reports rejected fields. The hint lists them one per line.
func ErrValidation(msg string, fields map[string][]string) *Error {
	e := &Error{
		Code:       CodeValidation,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Fields:     fields,
	}
	if len(fields) > 0 {
		e.Hint = strings.Join((&api.Error{Errors: fields}).FieldErrors(), "\n")
	}
	return e
}

// AsError attempts to convert an error to an *Error.
// Normalized API failures are classified by status.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return fromAPI(apiErr)
	}

	return &Error{
		Code:    CodeAPI,
		Message: err.Error(),
		Cause:   err,
	}
}

func fromAPI(e *api.Error) *Error {
	msg := e.Message
	if e.Detail != "" {
		msg = e.Detail
	}

	var out *Error
	switch {
	case e.NoResponse():
		out = &Error{
			Code:      CodeNetwork,
			Message:   e.Message,
			Hint:      e.Detail,
			Retryable: true,
		}
	case e.Status == http.StatusUnauthorized:
		out = ErrAuth(msg)
	case e.Status == http.StatusForbidden:
		out = ErrForbidden(msg)
	case e.Status == http.StatusNotFound:
		out = &Error{Code: CodeNotFound, Message: msg, HTTPStatus: e.Status}
	case e.Status == http.StatusTooManyRequests:
		out = ErrRateLimit(0)
		out.Message = msg
	case e.Status == http.StatusBadRequest || len(e.Errors) > 0:
		out = ErrValidation(msg, e.Errors)
		out.HTTPStatus = e.Status
	default:
		out = ErrAPI(e.Status, msg)
		out.Retryable = e.Status >= http.StatusInternalServerError
	}
	out.Cause = e
	return out
}
