package model

import (
	"sync"
)

// Device represents a power-managed device.
// It owns the device-wide mutex that serializes state changes and the root
// of the device's property tree.
type Device struct {
	mu sync.Mutex

	// DeviceID is the unique device identifier.
	deviceID string

	// Properties is the root property group.
	properties *Group
}

// NewDevice creates a new device with an empty property tree.
func NewDevice(deviceID string) *Device {
	return &Device{
		deviceID:   deviceID,
		properties: NewGroup(deviceID),
	}
}

// ID returns the unique device identifier.
func (d *Device) ID() string {
	return d.deviceID
}

// Properties returns the root property group.
func (d *Device) Properties() *Group {
	return d.properties
}

// Lock acquires the device mutex.
func (d *Device) Lock() {
	d.mu.Lock()
}

// Unlock releases the device mutex.
func (d *Device) Unlock() {
	d.mu.Unlock()
}

// TryLock tries to acquire the device mutex without blocking.
func (d *Device) TryLock() bool {
	return d.mu.TryLock()
}

// Compile-time interface satisfaction check.
var _ sync.Locker = (*Device)(nil)
