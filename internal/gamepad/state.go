package gamepad

import "time"

// MappingProfile tells consumers whether button and axis indices follow the
// standard layout (see RoleOf) or are reported in raw device order.
type MappingProfile int

const (
	MappingUnknown MappingProfile = iota
	MappingStandard
)

func (m MappingProfile) String() string {
	if m == MappingStandard {
		return "standard"
	}
	return "unknown"
}

func (m MappingProfile) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *MappingProfile) UnmarshalText(b []byte) error {
	if string(b) == "standard" {
		*m = MappingStandard
	} else {
		*m = MappingUnknown
	}
	return nil
}

type ButtonState struct {
	Index   int     `json:"index"`
	Pressed bool    `json:"pressed"`
	Touched bool    `json:"touched"`
	Value   float64 `json:"value"`
}

// DeviceSnapshot is the state of one device at one tick. A snapshot owns its
// slices; nothing else holds a reference to them, so consumers may read it
// without locking. Treat it as read-only.
type DeviceSnapshot struct {
	ID        string         `json:"id"`
	Slot      int            `json:"slot"`
	Connected bool           `json:"connected"`
	Mapping   MappingProfile `json:"mapping"`
	Buttons   []ButtonState  `json:"buttons"`
	Axes      []float64      `json:"axes"`
	Timestamp time.Time      `json:"timestamp"`
}

// Snapshot copies a registry reading into a fresh DeviceSnapshot, clamping
// every axis into [-1, 1] and every button value into [0, 1].
func Snapshot(d Device, now time.Time) DeviceSnapshot {
	s := DeviceSnapshot{
		ID:        d.ID,
		Slot:      d.Slot,
		Connected: d.Connected,
		Mapping:   d.Mapping,
		Buttons:   make([]ButtonState, len(d.Buttons)),
		Axes:      make([]float64, len(d.Axes)),
		Timestamp: now,
	}
	for i, b := range d.Buttons {
		b.Index = i
		b.Value = clampUnit(b.Value)
		s.Buttons[i] = b
	}
	for i, v := range d.Axes {
		s.Axes[i] = Clamp(v)
	}
	return s
}

// Axis returns axis i, or 0 and false when the device has no such axis.
func (s DeviceSnapshot) Axis(i int) (float64, bool) {
	if i < 0 || i >= len(s.Axes) {
		return 0, false
	}
	return s.Axes[i], true
}

// Button returns button i, or the zero state and false when absent.
func (s DeviceSnapshot) Button(i int) (ButtonState, bool) {
	if i < 0 || i >= len(s.Buttons) {
		return ButtonState{}, false
	}
	return s.Buttons[i], true
}

// PressedButtons lists the indices of every pressed button, in order.
func (s DeviceSnapshot) PressedButtons() []int {
	var out []int
	for _, b := range s.Buttons {
		if b.Pressed {
			out = append(out, b.Index)
		}
	}
	return out
}
