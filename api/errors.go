package api

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured is returned when the scorer endpoint or credentials are missing
	ErrNotConfigured = errors.New("scorer client is not configured")
	// ErrRateLimited is returned when the upstream throttles requests; retryable
	ErrRateLimited = errors.New("scorer rate limit exceeded")
	// ErrUnauthorized is returned when the upstream rejects the credentials; not retryable
	ErrUnauthorized = errors.New("scorer credentials rejected")
	// ErrTransport is returned for any other upstream failure
	ErrTransport = errors.New("scorer request failed")
)

// StatusError is an HTTP failure reported by a completion backend
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.Code, e.Message)
}

// ScorerError is a classified upstream failure.
// Kind is one of ErrRateLimited, ErrUnauthorized or ErrTransport.
type ScorerError struct {
	Kind    error
	Code    int
	Message string
}

func (e *ScorerError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%v (status %d): %s", e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Message)
}

func (e *ScorerError) Unwrap() error { return e.Kind }

// Retryable reports whether the caller may retry the request later
func (e *ScorerError) Retryable() bool {
	return errors.Is(e.Kind, ErrRateLimited)
}
