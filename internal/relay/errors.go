package relay

import (
	"errors"

	"github.com/mandalnilabja/genrelay/internal/types"
)

// Kind classifies a relay failure. Every kind is terminal for its request.
type Kind int

const (
	KindUnknown Kind = iota
	KindBadRequest
	KindConfiguration
	KindUpstreamUnavailable
	KindUpstream
	KindUpstreamProtocol
	KindEmptyUpstreamResponse
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindConfiguration:
		return "configuration_error"
	case KindUpstreamUnavailable:
		return "upstream_unavailable"
	case KindUpstream:
		return "upstream_error"
	case KindUpstreamProtocol:
		return "upstream_protocol_error"
	case KindEmptyUpstreamResponse:
		return "empty_upstream_response"
	default:
		return "unknown"
	}
}

// ErrorType returns the error envelope type for the kind.
func (k Kind) ErrorType() string {
	switch k {
	case KindBadRequest:
		return types.ErrorTypeInvalidRequest
	case KindConfiguration:
		return types.ErrorTypeConfiguration
	case KindUpstreamUnavailable:
		return types.ErrorTypeUpstreamUnavailable
	case KindUpstream:
		return types.ErrorTypeUpstream
	case KindUpstreamProtocol:
		return types.ErrorTypeUpstreamProtocol
	case KindEmptyUpstreamResponse:
		return types.ErrorTypeEmptyUpstreamResponse
	default:
		return types.ErrorTypeServer
	}
}

// Error is returned by Relay.Generate and carries the failure kind.
// Message is surfaced to the caller verbatim.
type Error struct {
	Kind    Kind
	Message string

	// UpstreamStatus is set for KindUpstream.
	UpstreamStatus int

	Err error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// BadRequest wraps a malformed inbound body.
func BadRequest(err error) *Error {
	return newError(KindBadRequest, "Failed to parse request body: "+err.Error(), err)
}

// KindOf extracts the kind from err, or KindUnknown.
func KindOf(err error) Kind {
	var rerr *Error
	if errors.As(err, &rerr) {
		return rerr.Kind
	}
	return KindUnknown
}

// ConfigurationError wraps settings the relay could not be built from.
func ConfigurationError(err error) *Error {
	return newError(KindConfiguration, err.Error(), err)
}
