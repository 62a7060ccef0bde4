// Package apierr normalizes failed backend responses into a single
// canonical error shape. Four independent services report failures with
// slightly different JSON bodies; callers only ever see an *Error.
package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Classification buckets a failure for callers that branch on error kind
// rather than on raw HTTP status codes.
type Classification string

const (
	ClassValidation      Classification = "validation"
	ClassUnauthenticated Classification = "unauthenticated"
	ClassForbidden       Classification = "forbidden"
	ClassNotFound        Classification = "not_found"
	ClassServer          Classification = "server"
	ClassNetwork         Classification = "network"
	ClassUnknown         Classification = "unknown"
)

// Fallback messages shown when the backend does not supply its own.
const (
	msgNetwork         = "Network error: Unable to connect to server, please check network connection"
	msgValidation      = "Request parameter error, please check input"
	msgFieldValidation = "Request parameter validation failed"
	msgUnauthenticated = "Login expired, please login again"
	msgForbidden       = "No permission to perform this operation"
	msgNotFound        = "Resource not found"
	msgServer          = "Server error, please try again later"
)

// FieldError is one structured validation violation reported by a backend.
type FieldError struct {
	Field   string
	Message string
}

// Error is the canonical failure shape surfaced by every backend client.
type Error struct {
	Message        string
	Classification Classification
	// HTTPStatus is 0 when no response was received.
	HTTPStatus  int
	FieldErrors []FieldError

	cause error
}

func (e *Error) Error() string { return e.Message }

// Unwrap exposes the underlying transport error, if any.
func (e *Error) Unwrap() error { return e.cause }

// As extracts an *Error from an error chain.
func As(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// payload covers the error body shapes produced by all four backends.
type payload struct {
	Message string      `json:"message"`
	Error   string      `json:"error"`
	Errors  []violation `json:"errors"`
}

// violation matches both plain field errors and Bean-Validation style
// entries (propertyPath/defaultMessage).
type violation struct {
	Field          string `json:"field"`
	PropertyPath   string `json:"propertyPath"`
	Message        string `json:"message"`
	DefaultMessage string `json:"defaultMessage"`
}

// FromTransport normalizes a failure where no response was received at all.
func FromTransport(err error) *Error {
	return &Error{
		Message:        msgNetwork,
		Classification: ClassNetwork,
		cause:          err,
	}
}

// FromRequest normalizes a failure that happened before the request was
// sent (body marshalling, URL construction) or while decoding a success
// body. There is a response object conceptually, but no usable status rule.
func FromRequest(err error) *Error {
	return &Error{
		Message:        err.Error(),
		Classification: ClassUnknown,
		cause:          err,
	}
}

// FromResponse normalizes a received error response. The rules form an
// ordered priority list; the first match wins.
func FromResponse(status int, body []byte) *Error {
	var p payload
	_ = json.Unmarshal(body, &p) // non-JSON bodies fall through to defaults

	switch {
	case status == http.StatusBadRequest && len(p.Errors) > 0:
		return validationError(status, p)

	case status == http.StatusBadRequest:
		return &Error{
			Message:        firstNonEmpty(p.Message, p.Error, msgValidation),
			Classification: ClassValidation,
			HTTPStatus:     status,
		}

	case status == http.StatusUnauthorized:
		return &Error{
			Message:        firstNonEmpty(p.Message, msgUnauthenticated),
			Classification: ClassUnauthenticated,
			HTTPStatus:     status,
		}

	case status == http.StatusForbidden:
		return &Error{
			Message:        firstNonEmpty(p.Message, msgForbidden),
			Classification: ClassForbidden,
			HTTPStatus:     status,
		}

	case status == http.StatusNotFound:
		return &Error{
			Message:        firstNonEmpty(p.Message, msgNotFound),
			Classification: ClassNotFound,
			HTTPStatus:     status,
		}

	case status >= http.StatusInternalServerError:
		return &Error{
			Message:        firstNonEmpty(p.Message, msgServer),
			Classification: ClassServer,
			HTTPStatus:     status,
		}

	default:
		return &Error{
			Message:        firstNonEmpty(p.Message, p.Error, fmt.Sprintf("HTTP %d: Request failed", status)),
			Classification: ClassUnknown,
			HTTPStatus:     status,
		}
	}
}

func validationError(status int, p payload) *Error {
	fields := make([]FieldError, 0, len(p.Errors))
	parts := make([]string, 0, len(p.Errors))
	for _, v := range p.Errors {
		field := firstNonEmpty(v.Field, v.PropertyPath)
		msg := firstNonEmpty(v.Message, v.DefaultMessage)
		fields = append(fields, FieldError{Field: field, Message: msg})
		if field != "" {
			parts = append(parts, field+": "+msg)
		} else if msg != "" {
			parts = append(parts, msg)
		}
	}

	message := strings.Join(parts, "; ")
	if message == "" {
		message = firstNonEmpty(p.Message, msgFieldValidation)
	}

	return &Error{
		Message:        message,
		Classification: ClassValidation,
		HTTPStatus:     status,
		FieldErrors:    fields,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
