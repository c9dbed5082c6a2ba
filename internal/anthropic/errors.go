package anthropic

import (
	"errors"
	"fmt"
)

// Sentinel errors, checked with errors.Is.
var (
	// ErrNoAPIKey is returned before any network call when the key is empty.
	ErrNoAPIKey = errors.New("no API key configured")

	// ErrUnavailable wraps transport failures (dial, TLS, timeout, broken body).
	ErrUnavailable = errors.New("provider unavailable")

	// ErrMalformedResponse wraps a 2xx body that is not a Messages API response.
	ErrMalformedResponse = errors.New("malformed provider response")
)

// StatusError is returned when the provider answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API error: %d - %s", e.StatusCode, e.Body)
}
