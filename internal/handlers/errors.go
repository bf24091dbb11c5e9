package handlers

import (
	"errors"
	"net/http"

	"card-classifier-api/internal/models"
	"card-classifier-api/internal/repositories"
)

// Error messages returned to callers
const (
	MsgInvalidJSON      = "Invalid JSON format"
	MsgValidationFailed = "Payload validation error"
	MsgInvalidQueryType = "Invalid query type. Use 'json', 'text', or 'options'."
	MsgInternalError    = "Internal server error"
	MsgRequestTooLarge  = "Request too large"
	MsgNotFound         = "Not found"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error   string                   `json:"error"`
	Message string                   `json:"message,omitempty"`
	Details []models.ValidationError `json:"details,omitempty"`
}

// errorStatus maps an error from parsing or classification to its status and body
func errorStatus(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, models.ErrMalformedPayload):
		return http.StatusBadRequest, ErrorResponse{Error: MsgInvalidJSON}
	case errors.Is(err, models.ErrSchemaViolation):
		return http.StatusBadRequest, ErrorResponse{
			Error:   MsgValidationFailed,
			Details: models.ValidationDetails(err),
		}
	case errors.Is(err, models.ErrUnrecognizedQueryType):
		return http.StatusBadRequest, ErrorResponse{Error: MsgInvalidQueryType}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: MsgInternalError}
	}
}

// failureCause names the kind of server-side failure for log entries
func failureCause(err error) string {
	switch {
	case repositories.IsTimeout(err):
		return "timeout"
	case repositories.IsConnection(err):
		return "connection"
	case errors.Is(err, repositories.ErrQuery):
		return "query"
	default:
		return "internal"
	}
}
