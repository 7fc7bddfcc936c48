package gamepad

import (
	"math"
	"testing"
	"time"
)

func TestClamp(t *testing.T) {
	cases := map[float64]float64{
		-3:    -1,
		-1:    -1,
		-0.25: -0.25,
		0:     0,
		0.5:   0.5,
		1:     1,
		1.7:   1,
	}
	for in, want := range cases {
		if got := Clamp(in); got != want {
			t.Fatalf("Clamp(%v): expected %v, got %v", in, want, got)
		}
	}
}

func TestClampNaN(t *testing.T) {
	if got := Clamp(math.NaN()); got != 0 {
		t.Fatalf("Clamp(NaN): expected 0, got %v", got)
	}
	s := Snapshot(Device{
		Axes:    []float64{math.NaN(), math.Inf(-1)},
		Buttons: []ButtonState{{Value: math.NaN()}},
	}, time.Time{})
	if s.Axes[0] != 0 || s.Axes[1] != -1 || s.Buttons[0].Value != 0 {
		t.Fatalf("expected NaN readings to clamp to 0, got %v %+v", s.Axes, s.Buttons)
	}
}

func TestApplyDeadzone(t *testing.T) {
	if got := ApplyDeadzone(0.05, 0.1); got != 0 {
		t.Fatalf("expected 0 inside deadzone, got %v", got)
	}
	if got := ApplyDeadzone(-0.099, 0.1); got != 0 {
		t.Fatalf("expected 0 inside deadzone, got %v", got)
	}
	if got := ApplyDeadzone(0.1, 0.1); got != 0.1 {
		t.Fatalf("expected threshold itself to pass, got %v", got)
	}
	if got := ApplyDeadzone(-1.4, 0.1); got != -1 {
		t.Fatalf("expected clamped -1, got %v", got)
	}
}

func TestClampAndDeadzoneIdempotent(t *testing.T) {
	for v := -2.0; v <= 2.0; v += 0.013 {
		if once, twice := Clamp(v), Clamp(Clamp(v)); once != twice {
			t.Fatalf("Clamp not idempotent at %v: %v vs %v", v, once, twice)
		}
		once := ApplyDeadzone(v, 0.1)
		if twice := ApplyDeadzone(once, 0.1); once != twice {
			t.Fatalf("ApplyDeadzone not idempotent at %v: %v vs %v", v, once, twice)
		}
	}
}

func TestStickPosition(t *testing.T) {
	p := StickPosition(0.05, -0.5, 0.1, 85)
	if p.X != 0 {
		t.Fatalf("expected x filtered to 0, got %v", p.X)
	}
	if p.Y != -42.5 {
		t.Fatalf("expected y -42.5, got %v", p.Y)
	}
	p = StickPosition(2, 0.3, 0.1, 1)
	if p.X != 1 || p.Y != 0.3 {
		t.Fatalf("unexpected position %+v", p)
	}
}

func TestNormalizeAxis(t *testing.T) {
	if got := NormalizeAxis(math.MinInt16); got != -1 {
		t.Fatalf("expected -1, got %v", got)
	}
	if got := NormalizeAxis(math.MaxInt16); got != 1 {
		t.Fatalf("expected 1, got %v", got)
	}
	if got := NormalizeAxis(0); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}

func TestNormalizeTrigger(t *testing.T) {
	if got := NormalizeTrigger(-32768, -32768, 32767); got != 0 {
		t.Fatalf("expected 0 at rest, got %v", got)
	}
	if got := NormalizeTrigger(32767, -32768, 32767); got != 1 {
		t.Fatalf("expected 1 at full pull, got %v", got)
	}
	if got := NormalizeTrigger(100, 0, 0); got != 0 {
		t.Fatalf("expected 0 for empty range, got %v", got)
	}
}

func TestSnapshotCopiesAndClamps(t *testing.T) {
	dev := Device{
		ID:        "pad",
		Slot:      2,
		Connected: true,
		Mapping:   MappingStandard,
		Buttons:   []ButtonState{{Pressed: true, Value: 1.5}, {Value: 0}},
		Axes:      []float64{1.2, -0.3},
	}
	now := time.Unix(10, 0)
	s := Snapshot(dev, now)

	if s.Axes[0] != 1 || s.Axes[1] != -0.3 {
		t.Fatalf("unexpected axes: %v", s.Axes)
	}
	if s.Buttons[0].Value != 1 || s.Buttons[1].Index != 1 {
		t.Fatalf("unexpected buttons: %+v", s.Buttons)
	}
	if !s.Timestamp.Equal(now) {
		t.Fatalf("expected timestamp %v, got %v", now, s.Timestamp)
	}

	dev.Axes[1] = 0.9
	dev.Buttons[1].Pressed = true
	if s.Axes[1] != -0.3 || s.Buttons[1].Pressed {
		t.Fatalf("snapshot shares memory with the device reading")
	}
}

func TestSnapshotAccessors(t *testing.T) {
	s := Snapshot(Device{
		Buttons: []ButtonState{{}, {Pressed: true, Value: 1}, {Pressed: true, Value: 1}},
		Axes:    []float64{0.4},
	}, time.Time{})

	if _, ok := s.Axis(1); ok {
		t.Fatalf("expected axis 1 to be absent")
	}
	if v, ok := s.Axis(0); !ok || v != 0.4 {
		t.Fatalf("expected axis 0 = 0.4, got %v %v", v, ok)
	}
	if _, ok := s.Button(-1); ok {
		t.Fatalf("expected negative button index to be absent")
	}
	pressed := s.PressedButtons()
	if len(pressed) != 2 || pressed[0] != 1 || pressed[1] != 2 {
		t.Fatalf("unexpected pressed buttons: %v", pressed)
	}
}
