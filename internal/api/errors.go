package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

const (
	// DefaultErrorMessage is used when the server does not send a message.
	DefaultErrorMessage = "unexpected error"

	// ConnectionErrorMessage is used when no response was received.
	ConnectionErrorMessage = "could not connect to the server"
)

var (
	// ErrNoRefreshToken means a 401 could not be recovered because no
	// refresh token is stored.
	ErrNoRefreshToken = errors.New("no refresh token available")

	// ErrUnsupportedMethod is returned for HTTP methods a resource cannot issue.
	ErrUnsupportedMethod = errors.New("unsupported method")
)

// Error is the normalized failure returned by every client call.
type Error struct {
	Message string              `json:"message"`
	Status  int                 `json:"status"`
	Detail  string              `json:"detail,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
	Code    string              `json:"code,omitempty"`

	// Cause is the transport error or sentinel behind this failure.
	Cause error `json:"-"`

	noResponse bool
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if fields := e.FieldErrors(); len(fields) > 0 {
		msg += " (" + strings.Join(fields, "; ") + ")"
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NoResponse reports whether the request failed before any response arrived.
func (e *Error) NoResponse() bool {
	return e.noResponse
}

// FieldErrors renders field errors as "field: msg, msg" sorted by field.
func (e *Error) FieldErrors() []string {
	if len(e.Errors) == 0 {
		return nil
	}
	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, f+": "+strings.Join(e.Errors[f], ", "))
	}
	return out
}

// NormalizeResponse builds an Error from a non-2xx response.
//
// Recognized body keys, in priority order: detail, message, errors, code.
// A body consisting only of field -> messages pairs (the usual validation
// shape) is treated as errors. Non-JSON bodies keep the defaults.
func NormalizeResponse(status int, body []byte) *Error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	e := &Error{Message: DefaultErrorMessage, Status: status}

	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return e
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return e
	}

	known := false
	if raw, ok := fields["detail"]; ok {
		known = true
		e.Detail = stringish(raw)
	}
	if raw, ok := fields["message"]; ok {
		known = true
		if msg := stringish(raw); msg != "" {
			e.Message = msg
		}
	}
	if raw, ok := fields["errors"]; ok {
		known = true
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(raw, &nested); err == nil {
			e.Errors = fieldMessages(nested)
		}
	}
	if raw, ok := fields["code"]; ok {
		known = true
		e.Code = stringish(raw)
	}

	if !known {
		e.Errors = fieldMessages(fields)
	}
	return e
}

// NormalizeTransport builds an Error for a request that got no response.
func NormalizeTransport(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{
		Message:    ConnectionErrorMessage,
		Status:     http.StatusInternalServerError,
		Detail:     transportDetail(err),
		Cause:      err,
		noResponse: true,
	}
}

// NewValidationError reports client-side validation failures per field.
func NewValidationError(fields map[string][]string) *Error {
	return &Error{
		Message: "invalid request",
		Status:  http.StatusBadRequest,
		Errors:  fields,
		Code:    "invalid",
	}
}

func unsupportedMethod(method string) *Error {
	return &Error{
		Message: fmt.Sprintf("unsupported method %q", method),
		Status:  http.StatusBadRequest,
		Code:    "unsupported_method",
		Cause:   ErrUnsupportedMethod,
	}
}

func noRefreshToken() *Error {
	return &Error{
		Message: ErrNoRefreshToken.Error(),
		Status:  http.StatusUnauthorized,
		Code:    "no_refresh_token",
		Cause:   ErrNoRefreshToken,
	}
}

func transportDetail(err error) string {
	if err == nil {
		return ""
	}
	type timeout interface{ Timeout() bool }
	var t timeout
	if errors.As(err, &t) && t.Timeout() {
		return "request timed out"
	}
	return err.Error()
}

// stringish returns a JSON string's value, or the raw JSON for other types.
func stringish(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	if string(raw) == "null" {
		return ""
	}
	return string(raw)
}

// fieldMessages converts {"field": ["msg"]} or {"field": "msg"} pairs.
// Entries of any other shape are skipped.
func fieldMessages(in map[string]json.RawMessage) map[string][]string {
	out := make(map[string][]string)
	for field, raw := range in {
		var list []string
		if err := json.Unmarshal(raw, &list); err == nil {
			if len(list) > 0 {
				out[field] = list
			}
			continue
		}
		var single string
		if err := json.Unmarshal(raw, &single); err == nil && single != "" {
			out[field] = []string{single}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
