package entity

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNoSessionToken is returned before any I/O when the session store holds no token.
	ErrNoSessionToken = errors.New("no session token available")
	// ErrInvalidGraphRange is returned for a graph range the backend does not know.
	ErrInvalidGraphRange = errors.New("invalid graph range")
)

// StatusError is returned when the backend answered with a non-2xx status.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	if len(e.Body) > 0 {
		return fmt.Sprintf("%s %s failed with status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s %s failed with status %d", e.Method, e.Path, e.StatusCode)
}

// Unauthorized reports whether the backend rejected the session token.
func (e *StatusError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// NetworkError is returned when no response was received at all.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: no response: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// MalformedEnvelopeError is returned when a response matches none of the known envelope shapes.
type MalformedEnvelopeError struct {
	Resource string
	Envelope Envelope
}

func (e *MalformedEnvelopeError) Error() string {
	return fmt.Sprintf("malformed %s envelope: no known shape matched (got %T)", e.Resource, e.Envelope)
}
