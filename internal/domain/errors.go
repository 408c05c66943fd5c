package domain

import (
	"errors"
	"fmt"
)

// ErrForbidden is returned when the run-checks token does not match the
// configured shared secret. No processing happens after this check fails.
var ErrForbidden = errors.New("forbidden")

// ValidationError reports bad input shape or a missing required field.
// The HTTP layer maps it to a client error.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// WeatherError wraps a failure talking to the weather provider: network
// error, non-success status, or a malformed response body.
type WeatherError struct {
	Err error
}

func (e *WeatherError) Error() string {
	return fmt.Sprintf("weather fetch: %v", e.Err)
}

func (e *WeatherError) Unwrap() error {
	return e.Err
}

// NewWeatherError wraps err as a WeatherError.
func NewWeatherError(err error) error {
	return &WeatherError{Err: err}
}
