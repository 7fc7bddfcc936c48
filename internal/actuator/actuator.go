// Package actuator drives controller haptics. Every command re-resolves the
// device for its slot, cancels whatever effect is playing and only then plays
// the new one.
package actuator

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync"
)

const (
	EffectDualRumble = "dual-rumble"

	MaxDurationMs = 1000
)

// Command is one haptic effect request.
type Command struct {
	Effect          string
	StartDelayMs    int
	DurationMs      int
	WeakMagnitude   float64
	StrongMagnitude float64
}

// Target is the live device a Resolver hands out for a slot. Its haptic
// capabilities are discovered with type assertions against EffectActuator
// and LegacyVibrator.
type Target interface {
	ID() string
}

// EffectActuator is a device with effect-based force feedback.
type EffectActuator interface {
	Reset(ctx context.Context) error
	PlayEffect(ctx context.Context, cmd Command) error
}

// LegacyVibrator is a device exposing only a single fire-and-forget call.
// The pattern is [intensity percent, duration ms].
type LegacyVibrator interface {
	Vibrate(pattern []float64)
}

// Resolver looks up the device currently occupying a slot.
type Resolver interface {
	Target(slot int) (Target, bool)
}

type Status int

const (
	StatusDone Status = iota
	StatusNoDevice
	StatusUnsupported
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusDone:
		return "done"
	case StatusNoDevice:
		return "no_device"
	case StatusUnsupported:
		return "unsupported"
	case StatusFailed:
		return "failed"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	for c := StatusDone; c <= StatusFailed; c++ {
		if c.String() == string(b) {
			*s = c
			return nil
		}
	}
	return fmt.Errorf("actuator: unknown status %q", b)
}

// Result is the outcome of one Vibrate call. Err is set only for StatusFailed.
type Result struct {
	Slot   int
	Status Status
	Legacy bool
	Err    error
}

// Controller sequences haptic commands. Commands for the same slot run one at
// a time; different slots do not wait on each other.
type Controller struct {
	resolver Resolver

	mu    sync.Mutex
	slots map[int]*sync.Mutex
}

func NewController(r Resolver) *Controller {
	return &Controller{
		resolver: r,
		slots:    make(map[int]*sync.Mutex),
	}
}

func (c *Controller) slotLock(slot int) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.slots[slot]
	if !ok {
		l = &sync.Mutex{}
		c.slots[slot] = l
	}
	return l
}

// Vibrate plays a dual-rumble effect of the given intensity (0..1) and
// duration (0..1000 ms) on the device in slot. Out-of-range arguments are
// clamped. It blocks until the reset and play steps have completed.
func (c *Controller) Vibrate(ctx context.Context, slot int, intensity float64, durationMs int) Result {
	intensity = clampIntensity(intensity)
	durationMs = clampDuration(durationMs)

	l := c.slotLock(slot)
	l.Lock()
	defer l.Unlock()

	// Resolve under the slot lock so a reconnect between commands is seen.
	target, ok := c.resolver.Target(slot)
	if !ok || target == nil {
		return Result{Slot: slot, Status: StatusNoDevice}
	}

	if fx, ok := target.(EffectActuator); ok {
		cmd := Command{
			Effect:          EffectDualRumble,
			StartDelayMs:    0,
			DurationMs:      durationMs,
			WeakMagnitude:   intensity,
			StrongMagnitude: intensity,
		}
		if err := play(ctx, fx, cmd); err != nil {
			log.Printf("Vibration error on slot %d (%s): %v", slot, target.ID(), err)
			return Result{Slot: slot, Status: StatusFailed, Err: err}
		}
		return Result{Slot: slot, Status: StatusDone}
	}

	if lv, ok := target.(LegacyVibrator); ok {
		if err := vibrateLegacy(lv, intensity, durationMs); err != nil {
			log.Printf("Vibration error on slot %d (%s): %v", slot, target.ID(), err)
			return Result{Slot: slot, Status: StatusFailed, Legacy: true, Err: err}
		}
		return Result{Slot: slot, Status: StatusDone, Legacy: true}
	}

	return Result{Slot: slot, Status: StatusUnsupported}
}

// VibrateAsync runs Vibrate on its own goroutine. The channel receives exactly
// one Result and is then closed.
func (c *Controller) VibrateAsync(ctx context.Context, slot int, intensity float64, durationMs int) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		out <- c.Vibrate(ctx, slot, intensity, durationMs)
	}()
	return out
}

// Supported reports whether the device in slot has any haptic capability.
func (c *Controller) Supported(slot int) bool {
	target, ok := c.resolver.Target(slot)
	if !ok || target == nil {
		return false
	}
	switch target.(type) {
	case EffectActuator, LegacyVibrator:
		return true
	}
	return false
}

// recoverTo turns a panic in a device call into an error.
func recoverTo(err *error) {
	if p := recover(); p != nil {
		*err = fmt.Errorf("actuator panic: %v", p)
	}
}

// play never issues PlayEffect unless Reset returned without error.
func play(ctx context.Context, fx EffectActuator, cmd Command) (err error) {
	defer recoverTo(&err)
	if err := fx.Reset(ctx); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	if err := fx.PlayEffect(ctx, cmd); err != nil {
		return fmt.Errorf("play %s: %w", cmd.Effect, err)
	}
	return nil
}

func vibrateLegacy(lv LegacyVibrator, intensity float64, durationMs int) (err error) {
	defer recoverTo(&err)
	lv.Vibrate([]float64{intensity * 100, float64(durationMs)})
	return nil
}

func clampIntensity(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}

func clampDuration(ms int) int {
	return max(0, min(MaxDurationMs, ms))
}
