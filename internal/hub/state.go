package hub

import (
	"math"
	"slices"

	"github.com/soar/padcheck/internal/circularity"
	"github.com/soar/padcheck/internal/gamepad"
	"github.com/soar/padcheck/internal/session"
)

type ButtonView struct {
	gamepad.ButtonState
	Role gamepad.ButtonRole `json:"role,omitempty"`
}

type StickView struct {
	Position    gamepad.Vector      `json:"position"`
	Raw         gamepad.Vector      `json:"raw"`
	Active      bool                `json:"active"`
	Circularity circularity.Stats   `json:"circularity"`
	Quality     circularity.Quality `json:"quality"`
}

type SticksView struct {
	Left  *StickView `json:"left,omitempty"`
	Right *StickView `json:"right,omitempty"`
}

// DeviceState is what viewers of one slot are sent.
type DeviceState struct {
	Slot      int                    `json:"slot"`
	Connected bool                   `json:"connected"`
	ID        string                 `json:"id"`
	Mapping   gamepad.MappingProfile `json:"mapping"`
	Buttons   []ButtonView           `json:"buttons"`
	Axes      []float64              `json:"axes"`
	Sticks    SticksView             `json:"sticks"`
}

// NewDeviceState renders a frame for viewers. deadzone only affects the
// display position of the sticks.
func NewDeviceState(f session.Frame, deadzone float64) DeviceState {
	s := f.Snapshot
	st := DeviceState{
		Slot:      s.Slot,
		Connected: s.Connected && !f.Gone,
		ID:        s.ID,
		Mapping:   s.Mapping,
		Buttons:   make([]ButtonView, len(s.Buttons)),
		Axes:      slices.Clone(s.Axes),
	}
	for i, b := range s.Buttons {
		st.Buttons[i] = ButtonView{ButtonState: b}
		if s.Mapping == gamepad.MappingStandard {
			st.Buttons[i].Role = gamepad.RoleOf(b.Index)
		}
	}
	st.Sticks.Left = stickView(s, gamepad.AxisLeftX, gamepad.AxisLeftY, f.Left, deadzone)
	st.Sticks.Right = stickView(s, gamepad.AxisRightX, gamepad.AxisRightY, f.Right, deadzone)
	return st
}

func stickView(s gamepad.DeviceSnapshot, xi, yi int, stats circularity.Stats, deadzone float64) *StickView {
	x, okx := s.Axis(xi)
	y, oky := s.Axis(yi)
	if !okx || !oky {
		return nil
	}
	return &StickView{
		Position:    gamepad.StickPosition(x, y, deadzone, 1),
		Raw:         gamepad.Vector{X: x, Y: y},
		Active:      gamepad.StickActive(x, y, deadzone),
		Circularity: stats,
		Quality:     stats.Quality(),
	}
}

type DeltaChanges struct {
	Connected *bool                   `json:"connected,omitempty"`
	ID        *string                 `json:"id,omitempty"`
	Mapping   *gamepad.MappingProfile `json:"mapping,omitempty"`
	Buttons   []ButtonView            `json:"buttons,omitempty"`
	Axes      []float64               `json:"axes,omitempty"`
	Sticks    *SticksView             `json:"sticks,omitempty"`
}

func (d *DeltaChanges) IsEmpty() bool {
	return d.Connected == nil &&
		d.ID == nil &&
		d.Mapping == nil &&
		d.Buttons == nil &&
		d.Axes == nil &&
		d.Sticks == nil
}

const (
	analogThreshold = 0.01
	statsThreshold  = 0.0001
)

func floatEqual(a, b float64) bool {
	return math.Abs(a-b) < analogThreshold
}

// ComputeDelta lists the parts of new_ that differ from old. Analog values
// within analogThreshold count as equal.
func ComputeDelta(old, new_ DeviceState) *DeltaChanges {
	d := &DeltaChanges{}

	if old.Connected != new_.Connected {
		d.Connected = &new_.Connected
	}
	if old.ID != new_.ID {
		d.ID = &new_.ID
	}
	if old.Mapping != new_.Mapping {
		d.Mapping = &new_.Mapping
	}
	if !slices.EqualFunc(old.Buttons, new_.Buttons, func(a, b ButtonView) bool {
		return a.Pressed == b.Pressed && a.Touched == b.Touched && floatEqual(a.Value, b.Value)
	}) {
		d.Buttons = new_.Buttons
	}
	if !slices.EqualFunc(old.Axes, new_.Axes, floatEqual) {
		d.Axes = new_.Axes
	}
	if !stickEqual(old.Sticks.Left, new_.Sticks.Left) || !stickEqual(old.Sticks.Right, new_.Sticks.Right) {
		d.Sticks = &new_.Sticks
	}

	return d
}

func stickEqual(a, b *StickView) bool {
	if a == nil || b == nil {
		return a == b
	}
	return floatEqual(a.Raw.X, b.Raw.X) &&
		floatEqual(a.Raw.Y, b.Raw.Y) &&
		a.Active == b.Active &&
		a.Circularity.SampleCount == b.Circularity.SampleCount &&
		math.Abs(a.Circularity.AverageError-b.Circularity.AverageError) < statsThreshold
}
