package types

import "errors"

var (
	// ErrInvalidEnumValue is returned by enum constructors when the raw
	// value is outside the closed set. Never coerced silently.
	ErrInvalidEnumValue = errors.New("invalid enum value")

	// ErrMalformedTaskData is returned when required on-chain task fields
	// are missing or unparseable.
	ErrMalformedTaskData = errors.New("malformed task data")

	// ErrMalformedDisputeData is returned when required arbitration fields
	// are missing or unparseable.
	ErrMalformedDisputeData = errors.New("malformed dispute data")

	// ErrUnrecognizedEvent is returned by the event normalizer for event
	// names with no registered field map.
	ErrUnrecognizedEvent = errors.New("unrecognized event")
)
