package core

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific input field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is detected client-side and blocks the request.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err != nil {
		return err.Err.Error()
	}
	if len(err.Fields) == 0 {
		return "invalid input"
	}
	msgs := make([]string, 0, len(err.Fields))
	for _, fld := range err.Fields {
		msgs = append(msgs, fld.Field+": "+fld.Error)
	}
	return strings.Join(msgs, "; ")
}

// RequestError is a non-2xx response carrying a server supplied message.
type RequestError struct {
	Status  int
	Message string
}

func NewRequestError(status int, msg string) error {
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &RequestError{Status: status, Message: msg}
}

func (err RequestError) Error() string {
	return fmt.Sprintf("request failed (%d): %s", err.Status, err.Message)
}

// TransportError is a network or payload failure: the server's answer, if any, could not be used.
type TransportError struct {
	Op  string
	Err error
}

func (err TransportError) Error() string {
	if err.Err == nil {
		return err.Op
	}
	return err.Op + ": " + err.Err.Error()
}

// Unwrap lets errors.Is/As reach the underlying network error.
// No Cause: errors.Cause stops here.
func (err TransportError) Unwrap() error { return err.Err }

func IsValidation(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

func IsRequest(err error) bool {
	var rErr *RequestError
	return errors.As(err, &rErr)
}

func IsTransport(err error) bool {
	var tErr *TransportError
	return errors.As(err, &tErr)
}

// IsNotFound reports whether err is a 404 answer from the API.
func IsNotFound(err error) bool {
	var rErr *RequestError
	return errors.As(err, &rErr) && rErr.Status == http.StatusNotFound
}

// FieldMessages returns the field errors of a ValidationError keyed by field name.
func FieldMessages(err error) map[string]string {
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		return nil
	}
	msgs := make(map[string]string, len(vErr.Fields))
	for _, fld := range vErr.Fields {
		msgs[fld.Field] = fld.Error
	}
	return msgs
}
