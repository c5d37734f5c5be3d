package coingecko

import (
	"errors"
	"fmt"
)

// Upstream error kinds. Callers branch with errors.Is; the boundary maps
// them to HTTP status codes.
var (
	ErrNotFound    = errors.New("resource not found upstream")
	ErrRateLimited = errors.New("upstream rate limit exceeded")
	ErrAuthFailure = errors.New("upstream authentication failed")
	ErrUnavailable = errors.New("upstream unavailable")
)

// StatusError carries the upstream status code and message alongside the
// error kind.
type StatusError struct {
	Kind       error
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (status %d): %s", e.Kind.Error(), e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s (status %d)", e.Kind.Error(), e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return e.Kind
}

// classifyStatus buckets a non-2xx upstream status into an error kind
func classifyStatus(statusCode int, message string) *StatusError {
	var kind error
	switch statusCode {
	case 404:
		kind = ErrNotFound
	case 429:
		kind = ErrRateLimited
	case 401:
		kind = ErrAuthFailure
	default:
		kind = ErrUnavailable
	}
	return &StatusError{
		Kind:       kind,
		StatusCode: statusCode,
		Message:    message,
	}
}
