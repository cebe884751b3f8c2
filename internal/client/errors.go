package client

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidURL means request construction failed. With a fixed base
	// URL this should not happen outside of misconfiguration.
	ErrInvalidURL = errors.New("invalid request url")

	// ErrInvalidResponse means the body was not JSON or a required field
	// was absent.
	ErrInvalidResponse = errors.New("invalid response from server")

	// ErrMissingUserID means the operation needs a registered user id and
	// the session store holds none.
	ErrMissingUserID = errors.New("no registered user id")
)

// ServerError is a non-2xx HTTP response.
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server returned status %d", e.StatusCode)
}

// NetworkError is a transport-level failure (DNS, TLS, timeout).
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
