// Package session holds the state shared by everything looking at the
// controllers: one analysis loop per connected slot, the circularity table it
// feeds, the haptics controller and the default slot new viewers start on.
package session

import (
	"context"
	"log"
	"sort"
	"sync"

	"github.com/soar/padcheck/internal/actuator"
	"github.com/soar/padcheck/internal/circularity"
	"github.com/soar/padcheck/internal/gamepad"
	"github.com/soar/padcheck/internal/sampler"
)

// Frame is one tick of one slot as seen by viewers.
type Frame struct {
	Snapshot gamepad.DeviceSnapshot
	Left     circularity.Stats
	Right    circularity.Stats
	// Gone marks the last frame of a slot whose device disconnected.
	Gone bool
}

type Session struct {
	registry  gamepad.Registry
	sampler   *sampler.Sampler
	table     *circularity.Table
	actuators *actuator.Controller

	mu          sync.Mutex
	loops       map[int]*sampler.Handle
	selected    int
	hasSelected bool

	frames chan Frame
}

func New(registry gamepad.Registry, scheduler sampler.Scheduler, resolver actuator.Resolver) *Session {
	return &Session{
		registry:  registry,
		sampler:   sampler.New(registry, scheduler),
		table:     circularity.NewTable(),
		actuators: actuator.NewController(resolver),
		loops:     make(map[int]*sampler.Handle),
		frames:    make(chan Frame, 64),
	}
}

// Frames returns the channel on which frames of every open slot are sent.
// Frames are dropped when the channel is full.
func (s *Session) Frames() <-chan Frame {
	return s.frames
}

func (s *Session) Table() *circularity.Table {
	return s.table
}

// Open starts the analysis loop for slot if it is not running. It returns
// false when the slot is empty.
func (s *Session) Open(slot int) bool {
	if _, ok, err := s.registry.Device(slot); err != nil || !ok {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, running := s.loops[slot]; running {
		return true
	}

	s.table.Open(slot)
	s.loops[slot] = s.sampler.Start(slot, sampler.ObserverFuncs{
		Snapshot: s.onSnapshot,
		Gone:     s.onGone,
	})
	if !s.hasSelected {
		s.selected, s.hasSelected = slot, true
	}
	log.Printf("Analysis started for slot %d", slot)
	return true
}

// Close stops the analysis loop of slot and forgets its stats.
func (s *Session) Close(slot int) {
	s.mu.Lock()
	h, ok := s.loops[slot]
	delete(s.loops, slot)
	s.mu.Unlock()
	if !ok {
		return
	}
	h.Stop()
	s.table.Drop(slot)
	s.unselect(slot)
}

// CloseAll stops every loop.
func (s *Session) CloseAll() {
	for _, slot := range s.OpenSlots() {
		s.Close(slot)
	}
}

// OpenSlots lists slots with a running loop, ascending.
func (s *Session) OpenSlots() []int {
	s.mu.Lock()
	out := make([]int, 0, len(s.loops))
	for slot := range s.loops {
		out = append(out, slot)
	}
	s.mu.Unlock()
	sort.Ints(out)
	return out
}

// Select makes slot the default for new viewers, opening it if needed.
func (s *Session) Select(slot int) bool {
	if !s.Open(slot) {
		return false
	}
	s.mu.Lock()
	s.selected, s.hasSelected = slot, true
	s.mu.Unlock()
	return true
}

func (s *Session) Selected() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected, s.hasSelected
}

func (s *Session) unselect(slot int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasSelected || s.selected != slot {
		return
	}
	s.hasSelected = false
	for other := range s.loops {
		if !s.hasSelected || other < s.selected {
			s.selected, s.hasSelected = other, true
		}
	}
}

// ResetStick zeroes the stats of one stick.
func (s *Session) ResetStick(slot int, stick circularity.Stick) {
	s.table.Reset(slot, stick)
}

func (s *Session) Stats(slot int, stick circularity.Stick) circularity.Stats {
	return s.table.Stats(slot, stick)
}

// Vibrate runs a haptic command. It never touches the sampling path.
func (s *Session) Vibrate(ctx context.Context, slot int, intensity float64, durationMs int) actuator.Result {
	return s.actuators.Vibrate(ctx, slot, intensity, durationMs)
}

// HapticsSupported reports whether the device in slot can vibrate at all.
func (s *Session) HapticsSupported(slot int) bool {
	return s.actuators.Supported(slot)
}

// Devices lists the devices currently known to the registry.
func (s *Session) Devices() []gamepad.Device {
	return s.registry.Devices()
}

func (s *Session) onSnapshot(snap gamepad.DeviceSnapshot) {
	s.table.Observe(snap)
	s.emit(Frame{
		Snapshot: snap,
		Left:     s.table.Stats(snap.Slot, circularity.Left),
		Right:    s.table.Stats(snap.Slot, circularity.Right),
	})
}

// onGone runs on the scheduler goroutine after the loop has ended itself.
func (s *Session) onGone(slot int) {
	s.mu.Lock()
	delete(s.loops, slot)
	s.mu.Unlock()
	s.table.Drop(slot)
	s.unselect(slot)
	log.Printf("Analysis ended for slot %d: device gone", slot)
	s.emit(Frame{Snapshot: gamepad.DeviceSnapshot{Slot: slot}, Gone: true})
}

func (s *Session) emit(f Frame) {
	select {
	case s.frames <- f:
	default:
		// Drop if the channel is full to avoid stalling the frame clock
	}
}

// Watch opens every device already present and every device that connects
// later, until ctx is cancelled. Disconnects are picked up by the loops.
func (s *Session) Watch(ctx context.Context) error {
	for _, d := range s.registry.Devices() {
		s.Open(d.Slot)
	}
	events := s.registry.Events()
	for {
		select {
		case <-ctx.Done():
			s.CloseAll()
			return nil
		case ev, ok := <-events:
			if !ok {
				s.CloseAll()
				return nil
			}
			log.Printf("Device %s: slot %d %s", ev.Type, ev.Slot, ev.ID)
			if ev.Type == gamepad.EventConnected {
				s.Open(ev.Slot)
			}
		}
	}
}
