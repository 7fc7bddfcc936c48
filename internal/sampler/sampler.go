// Package sampler runs per-device polling loops on top of a frame Scheduler.
// Every tick a loop re-reads its slot from the registry and hands an owned
// DeviceSnapshot to its observers.
package sampler

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/soar/padcheck/internal/gamepad"
)

// Observer receives the output of one sampling loop. Calls for a loop are
// made in tick order from the scheduler goroutine. OnDeviceGone is called at
// most once and nothing follows it.
//
// Snapshots are shared between the observers of one loop and must not be
// modified.
type Observer interface {
	OnSnapshot(s gamepad.DeviceSnapshot)
	OnDeviceGone(slot int)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	Snapshot func(s gamepad.DeviceSnapshot)
	Gone     func(slot int)
}

func (o ObserverFuncs) OnSnapshot(s gamepad.DeviceSnapshot) {
	if o.Snapshot != nil {
		o.Snapshot(s)
	}
}

func (o ObserverFuncs) OnDeviceGone(slot int) {
	if o.Gone != nil {
		o.Gone(slot)
	}
}

type Sampler struct {
	registry  gamepad.Registry
	scheduler Scheduler
}

func New(registry gamepad.Registry, scheduler Scheduler) *Sampler {
	return &Sampler{registry: registry, scheduler: scheduler}
}

// Handle controls one running sampling loop.
type Handle struct {
	slot      int
	reg       Registration
	stopped   atomic.Bool
	snapshots atomic.Int64
	done      chan struct{}
	once      sync.Once
}

// Start begins sampling slot. Several loops may sample the same slot; they
// share nothing.
func (s *Sampler) Start(slot int, observers ...Observer) *Handle {
	h := &Handle{slot: slot, done: make(chan struct{})}
	obs := append([]Observer(nil), observers...)
	h.reg = s.scheduler.Subscribe(func(now time.Time) bool {
		return s.tick(h, obs, now)
	})
	return h
}

func (s *Sampler) tick(h *Handle, obs []Observer, now time.Time) bool {
	if h.stopped.Load() {
		return false
	}

	dev, ok, err := s.read(h.slot)
	if err != nil {
		// No data this tick.
		return true
	}
	if !ok || !dev.Connected {
		for _, o := range obs {
			notify(func() { o.OnDeviceGone(h.slot) })
		}
		h.finish()
		return false
	}

	snap := gamepad.Snapshot(dev, now)
	h.snapshots.Add(1)
	for _, o := range obs {
		notify(func() { o.OnSnapshot(snap) })
	}
	return true
}

func (s *Sampler) read(slot int) (dev gamepad.Device, ok bool, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", gamepad.ErrReadFailed, p)
		}
	}()
	return s.registry.Device(slot)
}

func notify(fn func()) {
	defer func() {
		if p := recover(); p != nil {
			log.Printf("Sampler observer panic: %v", p)
		}
	}()
	fn()
}

// Stop ends the loop. Once it returns no observer call is running or will be
// made. Calling it from an observer deadlocks.
func (h *Handle) Stop() {
	h.stopped.Store(true)
	h.reg.Cancel()
	h.finish()
}

func (h *Handle) finish() {
	h.once.Do(func() { close(h.done) })
}

// Done is closed when the loop ends, by Stop or by the device going away.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

func (h *Handle) Slot() int {
	return h.slot
}

// Snapshots returns how many snapshots the loop has emitted.
func (h *Handle) Snapshots() int64 {
	return h.snapshots.Load()
}
