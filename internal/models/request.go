package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RequestMSG is the request envelope sent by the front end
type RequestMSG struct {
	RequestID    string `json:"request_id"`
	SourceSystem int    `json:"source_system"`
	SessionID    string `json:"session_id"`
	Query        string `json:"query"`
}

// Envelope returns the routing metadata to echo back in the response
func (r *RequestMSG) Envelope() Envelope {
	return Envelope{
		RequestID:    r.RequestID,
		SourceSystem: r.SourceSystem,
		SessionID:    r.SessionID,
	}
}

// requestSchema mirrors RequestMSG with pointer fields so that absent and null
// values can be told apart from zero values
type requestSchema struct {
	RequestID    *string `json:"request_id" validate:"required"`
	SourceSystem *int    `json:"source_system" validate:"required"`
	SessionID    *string `json:"session_id" validate:"required"`
	Query        *string `json:"query" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ParseRequestMSG decodes and validates a request body. Unparsable input yields
// ErrMalformedPayload; anything else that does not fit the schema yields
// ErrSchemaViolation with one detail per offending field.
func ParseRequestMSG(body []byte) (*RequestMSG, error) {
	if !json.Valid(body) {
		return nil, NewRequestError(ErrMalformedPayload, nil)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, NewRequestError(ErrSchemaViolation, []ValidationError{{
			Field:   "body",
			Tag:     "object",
			Message: "request body must be a JSON object",
		}})
	}

	var schema requestSchema
	fields := []struct {
		name   string
		kind   string
		decode func(json.RawMessage) error
	}{
		{"request_id", "string", decodeInto(&schema.RequestID)},
		{"source_system", "integer", decodeInteger(&schema.SourceSystem)},
		{"session_id", "string", decodeInto(&schema.SessionID)},
		{"query", "string", decodeInto(&schema.Query)},
	}

	violations := make(map[string]ValidationError)
	for _, f := range fields {
		data, ok := raw[f.name]
		if !ok {
			continue
		}
		if err := f.decode(data); err != nil {
			violations[f.name] = ValidationError{
				Field:   f.name,
				Tag:     "type",
				Message: fmt.Sprintf("%s must be a valid %s", f.name, f.kind),
			}
		}
	}

	if err := validate.Struct(&schema); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return nil, fmt.Errorf("failed to validate request: %w", err)
		}
		for _, fe := range validationErrors {
			if _, seen := violations[fe.Field()]; seen {
				continue
			}
			violations[fe.Field()] = formatFieldError(fe)
		}
	}

	if len(violations) > 0 {
		details := make([]ValidationError, 0, len(violations))
		for _, f := range fields {
			if v, ok := violations[f.name]; ok {
				details = append(details, v)
			}
		}
		return nil, NewRequestError(ErrSchemaViolation, details)
	}

	return &RequestMSG{
		RequestID:    *schema.RequestID,
		SourceSystem: *schema.SourceSystem,
		SessionID:    *schema.SessionID,
		Query:        *schema.Query,
	}, nil
}

func decodeInto(dest any) func(json.RawMessage) error {
	return func(data json.RawMessage) error {
		return json.Unmarshal(data, dest)
	}
}

var errNotInteger = errors.New("not an integer")

// decodeInteger accepts any JSON number with no fractional part, so 46, 46.0
// and 4.6e1 all decode to 46. null leaves dest nil.
func decodeInteger(dest **int) func(json.RawMessage) error {
	return func(data json.RawMessage) error {
		data = bytes.TrimSpace(data)
		if bytes.Equal(data, []byte("null")) {
			return nil
		}
		if len(data) == 0 || data[0] == '"' {
			return errNotInteger
		}

		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}

		if i, err := strconv.ParseInt(n.String(), 10, 0); err == nil {
			v := int(i)
			*dest = &v
			return nil
		}

		f, err := n.Float64()
		if err != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return errNotInteger
		}
		v := int(f)
		*dest = &v
		return nil
	}
}

func formatFieldError(fe validator.FieldError) ValidationError {
	var message string
	switch fe.Tag() {
	case "required":
		message = fmt.Sprintf("%s is required", fe.Field())
	default:
		message = fmt.Sprintf("%s is invalid", fe.Field())
	}

	return ValidationError{
		Field:   fe.Field(),
		Tag:     fe.Tag(),
		Message: message,
	}
}
