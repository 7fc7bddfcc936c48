package gamepad

import "errors"

// ErrReadFailed is returned by a Registry when a device could not be read on
// this attempt. Callers treat it as "no data", not as a disconnect.
var ErrReadFailed = errors.New("gamepad: device read failed")

// Device is a registry's view of one connected controller. Registries may
// reuse the slices between reads; use Snapshot to take an owned copy.
type Device struct {
	ID        string
	Slot      int
	Connected bool
	Mapping   MappingProfile
	Buttons   []ButtonState
	Axes      []float64
}

type EventType int

const (
	EventConnected EventType = iota
	EventDisconnected
)

func (e EventType) String() string {
	if e == EventConnected {
		return "connected"
	}
	return "disconnected"
}

// DeviceEvent reports a device appearing in or leaving a slot.
type DeviceEvent struct {
	Type EventType
	Slot int
	ID   string
}

// Registry is the read side of whatever owns the physical devices.
//
// Device returns ok=false when the slot is empty. Implementations must be safe
// for concurrent readers.
type Registry interface {
	Devices() []Device
	Device(slot int) (dev Device, ok bool, err error)
	Events() <-chan DeviceEvent
}
