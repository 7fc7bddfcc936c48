package gamepad

import "sync"

// Slots is the slot table of a Registry implementation. Devices take the
// lowest free slot; T carries backend data kept alongside each device.
// It is safe for concurrent use and serves whatever it holds, so an empty
// table simply reports every slot as empty.
type Slots[T any] struct {
	mu      sync.RWMutex
	entries []*slotEntry[T]
}

type slotEntry[T any] struct {
	dev  Device
	meta T
}

// Add stores dev in the lowest free slot and returns it. dev.Slot is set.
func (s *Slots[T]) Add(dev Device, meta T) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot := len(s.entries)
	for i, e := range s.entries {
		if e == nil {
			slot = i
			break
		}
	}
	if slot == len(s.entries) {
		s.entries = append(s.entries, nil)
	}
	dev.Slot = slot
	s.entries[slot] = &slotEntry[T]{dev: dev, meta: meta}
	return slot
}

// Remove empties slot and returns the device that was in it.
func (s *Slots[T]) Remove(slot int) (Device, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entryLocked(slot)
	if e == nil {
		return Device{}, false
	}
	s.entries[slot] = nil
	return e.dev, true
}

// Clear empties every slot.
func (s *Slots[T]) Clear() {
	s.mu.Lock()
	s.entries = nil
	s.mu.Unlock()
}

// SetInput replaces the readings of slot if its entry is still owned by the
// caller, as decided by owns. Slices are replaced, never modified.
func (s *Slots[T]) SetInput(slot int, owns func(T) bool, buttons []ButtonState, axes []float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entryLocked(slot)
	if e == nil || !owns(e.meta) {
		return false
	}
	dev := e.dev
	dev.Buttons = buttons
	dev.Axes = axes
	s.entries[slot] = &slotEntry[T]{dev: dev, meta: e.meta}
	return true
}

// Get returns the device in slot with its backend data.
func (s *Slots[T]) Get(slot int) (Device, T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e := s.entryLocked(slot)
	if e == nil {
		var zero T
		return Device{}, zero, false
	}
	return e.dev, e.meta, true
}

// Devices returns every occupied slot in slot order.
func (s *Slots[T]) Devices() []Device {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Device
	for _, e := range s.entries {
		if e != nil {
			out = append(out, e.dev)
		}
	}
	return out
}

func (s *Slots[T]) entryLocked(slot int) *slotEntry[T] {
	if slot < 0 || slot >= len(s.entries) {
		return nil
	}
	return s.entries[slot]
}
