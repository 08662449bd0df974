package goifd

import "github.com/datar-psa/goifd/api"

var (
	// ErrNotConfigured is returned when the scorer endpoint or credentials are missing
	ErrNotConfigured = api.ErrNotConfigured
	// ErrRateLimited is returned when the scoring service throttles requests
	ErrRateLimited = api.ErrRateLimited
	// ErrUnauthorized is returned when the scoring service rejects the credentials
	ErrUnauthorized = api.ErrUnauthorized
	// ErrTransport is returned for any other scoring service failure
	ErrTransport = api.ErrTransport
)

type ScorerError = api.ScorerError
type StatusError = api.StatusError
