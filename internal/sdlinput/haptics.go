package sdlinput

import (
	"context"
	"fmt"
	"math"

	"github.com/jupiterrider/purego-sdl3/sdl"

	"github.com/soar/padcheck/internal/actuator"
)

// rumbleTarget is a joystick reporting the rumble capability. SDL has a
// single rumble call, so a reset is a zero-length, zero-strength rumble.
type rumbleTarget struct {
	reader *Reader
	id     sdl.JoystickID
	name   string
}

func (t *rumbleTarget) ID() string { return t.name }

func (t *rumbleTarget) Reset(ctx context.Context) error {
	return t.reader.rumble(ctx, t.id, 0, 0, 0)
}

func (t *rumbleTarget) PlayEffect(ctx context.Context, cmd actuator.Command) error {
	if cmd.Effect != actuator.EffectDualRumble {
		return fmt.Errorf("unsupported effect %q", cmd.Effect)
	}
	// SDL has no start delay; only zero is honoured.
	if cmd.StartDelayMs != 0 {
		return fmt.Errorf("start delay %dms not supported", cmd.StartDelayMs)
	}
	// Low frequency motor is the strong one.
	return t.reader.rumble(ctx, t.id,
		magnitude(cmd.StrongMagnitude), magnitude(cmd.WeakMagnitude), uint32(max(cmd.DurationMs, 0)))
}

func magnitude(v float64) uint16 {
	return uint16(math.Round(math.Max(0, math.Min(1, v)) * math.MaxUint16))
}

// plainTarget is a joystick with no haptics.
type plainTarget string

func (t plainTarget) ID() string { return string(t) }
