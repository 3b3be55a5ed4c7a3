/*
errors.go - Centralized error types for the worktime engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Engine operations that produce a ComputationResult never return these
  directly; they surface through WorkedSeconds and the store/API layers.

ERROR CATEGORIES:
  1. Input errors - Invalid segments, negative manual values, unknown types
  2. Lookup errors - Missing days or settings in a store
  3. Range errors - Malformed periods

USAGE:
  if _, err := worktime.WorkedSeconds(day); errors.Is(err, worktime.ErrInvalidSegments) {
      // show validation messages
  }

SEE ALSO:
  - validate.go: Produces ValidationError values
  - worked.go: Wraps them in WorkedSecondsError
*/
package worktime

import (
	"errors"
	"strings"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidSegments is returned when a day's segments fail validation.
	ErrInvalidSegments = errors.New("invalid segments")

	// ErrNegativeManualValue is returned for a manual worked value below zero.
	ErrNegativeManualValue = errors.New("manual worked seconds cannot be negative")

	// ErrUnknownDayType is returned when a day type is outside the closed set.
	ErrUnknownDayType = errors.New("unknown day type")

	// ErrInvalidPeriod is returned when a period ends before it starts.
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrDayNotFound is returned by stores when no entry exists for a date.
	ErrDayNotFound = errors.New("day entry not found")

	// ErrInvalidSettings is returned when settings cannot be accepted.
	ErrInvalidSettings = errors.New("invalid settings")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError is one segment-level problem.
type ValidationError struct {
	Segment int // index into the day's segments
	Message string
}

func (e ValidationError) Error() string { return e.Message }

// WorkedSecondsError explains why a day's worked seconds could not be resolved.
type WorkedSecondsError struct {
	Messages []string
	cause    error
}

func (e *WorkedSecondsError) Error() string {
	return strings.Join(e.Messages, " ")
}

func (e *WorkedSecondsError) Unwrap() error {
	return e.cause
}

func newValidationFailure(errs []ValidationError) *WorkedSecondsError {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Message
	}
	return &WorkedSecondsError{Messages: msgs, cause: ErrInvalidSegments}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidSegments) ||
		errors.Is(err, ErrNegativeManualValue) ||
		errors.Is(err, ErrUnknownDayType) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrInvalidSettings)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrDayNotFound)
}
