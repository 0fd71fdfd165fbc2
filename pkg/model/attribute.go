package model

import (
	"errors"
	"fmt"
	"strings"
)

// Access flags for attributes.
type Access uint8

const (
	// AccessRead allows reading the attribute.
	AccessRead Access = 1 << iota

	// AccessWrite allows writing the attribute.
	AccessWrite

	// Common access combinations.

	// AccessReadOnly is read only.
	AccessReadOnly = AccessRead

	// AccessReadWrite is read and write.
	AccessReadWrite = AccessRead | AccessWrite
)

// CanRead returns true if reading is allowed.
func (a Access) CanRead() bool { return a&AccessRead != 0 }

// CanWrite returns true if writing is allowed.
func (a Access) CanWrite() bool { return a&AccessWrite != 0 }

// String returns the access flags as a string.
func (a Access) String() string {
	var s string
	if a.CanRead() {
		s += "R"
	}
	if a.CanWrite() {
		s += "W"
	}
	if s == "" {
		return "-"
	}
	return s
}

// Mode returns the access flags as a file-style permission string
// (0644 for read-write, 0444 for read-only).
func (a Access) Mode() string {
	switch {
	case a.CanRead() && a.CanWrite():
		return "0644"
	case a.CanRead():
		return "0444"
	case a.CanWrite():
		return "0200"
	default:
		return "0000"
	}
}

// ShowFunc renders the current value of an attribute.
type ShowFunc func() (string, error)

// StoreFunc applies a written value to an attribute.
type StoreFunc func(value string) error

// AttributeMetadata describes an attribute's properties.
type AttributeMetadata struct {
	// Name is the attribute name within its group.
	Name string

	// Access defines the allowed operations.
	Access Access

	// Description is a human-readable description.
	Description string

	// AccessError, if set, is wrapped together with ErrAttributeNotReadable
	// or ErrAttributeNotWritable when Access denies an operation.
	AccessError error
}

// Attribute is a named value exposed through a property group.
// The value itself lives with whoever owns the show/store callbacks.
type Attribute struct {
	metadata *AttributeMetadata
	show     ShowFunc
	store    StoreFunc
}

// Attribute errors.
var (
	ErrAttributeNotReadable = errors.New("attribute is not readable")
	ErrAttributeNotWritable = errors.New("attribute is not writable")
	ErrInvalidName          = errors.New("invalid property name")
)

// NewAttribute creates a new attribute with the given metadata and callbacks.
// A nil show or store callback removes the corresponding access bit.
func NewAttribute(meta *AttributeMetadata, show ShowFunc, store StoreFunc) *Attribute {
	m := *meta
	if show == nil {
		m.Access &^= AccessRead
	}
	if store == nil {
		m.Access &^= AccessWrite
	}
	return &Attribute{
		metadata: &m,
		show:     show,
		store:    store,
	}
}

// Name returns the attribute name.
func (a *Attribute) Name() string {
	return a.metadata.Name
}

// Metadata returns the attribute metadata.
func (a *Attribute) Metadata() *AttributeMetadata {
	return a.metadata
}

// Show returns the current attribute value.
func (a *Attribute) Show() (string, error) {
	if !a.metadata.Access.CanRead() {
		return "", a.denied(ErrAttributeNotReadable)
	}
	return a.show()
}

// Store writes a value to the attribute.
func (a *Attribute) Store(value string) error {
	if !a.metadata.Access.CanWrite() {
		return a.denied(ErrAttributeNotWritable)
	}
	return a.store(value)
}

func (a *Attribute) denied(err error) error {
	if a.metadata.AccessError == nil {
		return err
	}
	return fmt.Errorf("%w: %w", a.metadata.AccessError, err)
}

// ValidateName checks that name can be used for an attribute or group.
// Names are single path elements.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if strings.ContainsAny(name, "/ \t\n") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
