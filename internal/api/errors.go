package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnavailable is returned when the service cannot be reached
	ErrUnavailable = errors.New("service unavailable")
	// ErrUnauthorized is returned for 401 responses
	ErrUnauthorized = errors.New("unauthorized")
)

// ResponseError is returned when the service answers with a non-2xx status or
// with success:false in the response envelope.
type ResponseError struct {
	StatusCode int
	Message    string
}

func (e *ResponseError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Message)
}

// Unwrap lets callers match a 401 with errors.Is(err, ErrUnauthorized).
func (e *ResponseError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// ServerMessage returns the message the service attached to a failed response, if any.
func ServerMessage(err error) string {
	var re *ResponseError
	if errors.As(err, &re) {
		return re.Message
	}
	return ""
}
