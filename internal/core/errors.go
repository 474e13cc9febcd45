package core

import (
	"errors"
	"fmt"
)

// Error codes for domain errors.
const (
	ErrCodeFetch      = "fetch_failed"
	ErrCodeConfig     = "config_error"
	ErrCodeNoData     = "no_data"
	ErrCodeBadRequest = "bad_request"
	ErrCodeRateLimit  = "rate_limited"
)

var (
	// ErrNoData reports a ratio or average whose denominator is zero.
	ErrNoData = errors.New("no data")
	// ErrBadSelection reports an invalid interactive group choice.
	ErrBadSelection = errors.New("invalid group selection")
)

// FetchError wraps a transport, HTTP status or decoding failure of a GroupMe call.
type FetchError struct {
	Op     string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: unexpected status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ConfigError reports a missing or invalid configuration value at startup.
type ConfigError struct {
	Key string
	Msg string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Key, e.Msg)
}

// IsFetchError reports whether err carries a *FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}
