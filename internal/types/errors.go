package types

import (
	"encoding/json"
	"net/http"
)

// APIError is the JSON error envelope returned by the relay.
type APIError struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the error information.
type ErrorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Error type constants
const (
	ErrorTypeInvalidRequest        = "invalid_request_error"
	ErrorTypeConfiguration         = "configuration_error"
	ErrorTypeUpstreamUnavailable   = "upstream_unavailable"
	ErrorTypeUpstream              = "upstream_error"
	ErrorTypeUpstreamProtocol      = "upstream_protocol_error"
	ErrorTypeEmptyUpstreamResponse = "empty_upstream_response"
	ErrorTypeServer                = "server_error"
)

// NewAPIError creates a new API error.
func NewAPIError(message, errType string) *APIError {
	return &APIError{
		Error: ErrorDetail{
			Message: message,
			Type:    errType,
		},
	}
}

// WriteError writes an API error to the response writer.
func WriteError(w http.ResponseWriter, statusCode int, err *APIError) {
	WriteJSON(w, statusCode, err)
}

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}
