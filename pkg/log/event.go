package log

import (
	"time"
)

// Event represents a power-scaling trace event.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// DeviceID identifies the device whose slot the event concerns.
	DeviceID string `cbor:"2,keyasint"`

	// AttachmentID identifies one attachment of a policy (UUID).
	// Empty for events on an empty slot.
	AttachmentID string `cbor:"3,keyasint,omitempty"`

	// Category classifies the event type.
	Category Category `cbor:"4,keyasint"`

	// Policy is the policy name the event concerns, if any.
	Policy string `cbor:"5,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Transition *TransitionEvent `cbor:"10,keyasint,omitempty"`
	Dispatch   *DispatchEvent   `cbor:"11,keyasint,omitempty"`
	Property   *PropertyEvent   `cbor:"12,keyasint,omitempty"`
	Error      *ErrorEventData  `cbor:"13,keyasint,omitempty"`
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryTransition indicates a slot state change.
	CategoryTransition Category = 0
	// CategoryDispatch indicates a lifecycle signal routed to a policy.
	CategoryDispatch Category = 1
	// CategoryProperty indicates a property write.
	CategoryProperty Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryTransition:
		return "TRANSITION"
	case CategoryDispatch:
		return "DISPATCH"
	case CategoryProperty:
		return "PROPERTY"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// TransitionEvent captures a change of the attached policy.
type TransitionEvent struct {
	// Kind of transition.
	Kind TransitionKind `cbor:"1,keyasint"`

	// From is the previously attached policy ("none" if empty).
	From string `cbor:"2,keyasint"`

	// To is the newly attached policy ("none" if empty).
	To string `cbor:"3,keyasint"`

	// Duration is how long the policy hook ran. Stored as nanoseconds.
	Duration time.Duration `cbor:"4,keyasint,omitempty"`

	// Reason for the transition (if available).
	Reason string `cbor:"5,keyasint,omitempty"`
}

// TransitionKind distinguishes the slot transitions.
type TransitionKind uint8

const (
	// TransitionAttach indicates a policy was attached.
	TransitionAttach TransitionKind = 0
	// TransitionDetach indicates a policy was detached.
	TransitionDetach TransitionKind = 1
	// TransitionRollback indicates a failed init emptied the slot.
	TransitionRollback TransitionKind = 2
)

// String returns the transition kind name.
func (k TransitionKind) String() string {
	switch k {
	case TransitionAttach:
		return "ATTACH"
	case TransitionDetach:
		return "DETACH"
	case TransitionRollback:
		return "ROLLBACK"
	default:
		return "UNKNOWN"
	}
}

// DispatchEvent captures a lifecycle signal routed to the active policy.
type DispatchEvent struct {
	// Signal is the signal name (sleep, wake, busy, idle).
	Signal string `cbor:"1,keyasint"`

	// Handled is true if the policy implemented the hook.
	Handled bool `cbor:"2,keyasint,omitempty"`
}

// PropertyEvent captures a write to the property surface.
type PropertyEvent struct {
	// Path is the property path, e.g. "pwrscale/policy".
	Path string `cbor:"1,keyasint"`

	// Value is the written value.
	Value string `cbor:"2,keyasint"`

	// Applied is false when the write was accepted without a state change
	// (unknown policy name).
	Applied bool `cbor:"3,keyasint,omitempty"`
}

// ErrorEventData captures errors.
type ErrorEventData struct {
	// Message is the error message.
	Message string `cbor:"1,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"2,keyasint,omitempty"`
}
