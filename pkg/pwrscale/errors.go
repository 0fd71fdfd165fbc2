package pwrscale

import "errors"

// Policy slot errors.
var (
	// ErrAttachFailed is returned when a policy's Init hook fails.
	// The slot is empty afterwards.
	ErrAttachFailed = errors.New("policy attach failed")

	// ErrInvalidPolicy is returned for a nil policy or an empty name.
	ErrInvalidPolicy = errors.New("invalid policy")

	// ErrDuplicatePolicy is returned when two policies share a name.
	ErrDuplicatePolicy = errors.New("duplicate policy name")

	// ErrReservedName is returned when a policy is named "none".
	ErrReservedName = errors.New("reserved policy name")

	// ErrNoPolicy is returned by AddFiles when no policy is attached.
	ErrNoPolicy = errors.New("no policy attached")

	// ErrClosed is returned by Attach after the scale was closed.
	ErrClosed = errors.New("pwrscale closed")

	// ErrIO is returned by the property surface when a write could not
	// be applied.
	ErrIO = errors.New("input/output error")

	// ErrUnknownSignal is returned by ParseSignal.
	ErrUnknownSignal = errors.New("unknown signal")
)
