package models

import (
	"errors"
	"fmt"
	"strings"
)

// Request error kinds. All of them are the caller's fault.
var (
	// ErrMalformedPayload is returned when the request body is not parsable JSON
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrSchemaViolation is returned when the body is JSON but does not match the request schema
	ErrSchemaViolation = errors.New("schema violation")

	// ErrUnrecognizedQueryType is returned when the query is not one of the card types
	ErrUnrecognizedQueryType = errors.New("unrecognized query type")
)

// ErrInvalidCardType is returned when a response is built with an unknown card type
var ErrInvalidCardType = errors.New("invalid card type")

// ValidationError describes a single problem with one request field
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// Error implements the error interface
func (ve *ValidationError) Error() string {
	return ve.Message
}

// RequestError is a client error of a given kind, with per-field details for
// schema violations
type RequestError struct {
	Kind    error
	Details []ValidationError
}

// NewRequestError creates a new request error
func NewRequestError(kind error, details []ValidationError) *RequestError {
	return &RequestError{
		Kind:    kind,
		Details: details,
	}
}

// Error implements the error interface
func (e *RequestError) Error() string {
	if len(e.Details) == 0 {
		return e.Kind.Error()
	}

	messages := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		messages = append(messages, d.Message)
	}
	return fmt.Sprintf("%v: %s", e.Kind, strings.Join(messages, "; "))
}

// Unwrap returns the error kind
func (e *RequestError) Unwrap() error {
	return e.Kind
}

// IsRequestError returns true if err was caused by the caller
func IsRequestError(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr)
}

// ValidationDetails returns the per-field details carried by err, if any
func ValidationDetails(err error) []ValidationError {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Details
	}
	return nil
}
